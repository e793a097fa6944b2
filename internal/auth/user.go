// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

/*
Package auth implements the authentication and session core of Clanboard.

It owns the full login lifecycle: one-time login-code issuance (delivered
out-of-band by the messaging bot), code redemption, password verification
with progressive lockout, rotating long-lived cookie sessions, short-lived
server-side web sessions, and expiry sweeping.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate every business rule related to login
state. The HTTP surface in http.go is a thin adapter; persistence lives
behind the repository interfaces in store.go.
*/
package auth

import (
	"github.com/clanboard/api/internal/platform/sec"
)

// # Domain Entities

// User represents one principal known to the bot and the dashboard.
//
// All time fields are Unix epoch seconds. The login-code triple
// (LoginCode/LoginCodeExpireAt/LoginCodeAvailable) is overwritten as a unit
// on every issuance, so at most one unconsumed code is outstanding per user.
type User struct {
	QQID           int64              `json:"qqid"`
	Nickname       string             `json:"nickname"`
	AuthorityGroup sec.AuthorityGroup `json:"authority_group"`

	// Password fields. An empty hash or salt means no password is configured.
	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.
	Salt         string `json:"-"`

	// FailureCount increments on every wrong-password attempt and is reset
	// only by a successful password change. At >= 3 the account is locked.
	FailureCount int `json:"-"`

	// One-time login code state.
	LoginCode          string `json:"-"`
	LoginCodeExpireAt  int64  `json:"-"`
	LoginCodeAvailable bool   `json:"-"`

	// Authentication metadata, overwritten on each successful login.
	LastLoginTime int64  `json:"last_login_time"`
	LastLoginAddr string `json:"last_login_addr"`
}

// HasPassword reports whether the account has a usable password configured.
func (u *User) HasPassword() bool {
	return u.PasswordHash != "" && u.Salt != ""
}

// Locked reports whether the wrong-password counter has reached the lockout
// threshold. Locked accounts never get a hash comparison attempt.
func (u *User) Locked() bool {
	return u.FailureCount >= FailureThreshold
}

// Session represents one live cookie binding (one per device/browser).
//
// Only the digest of the cookie secret is stored; the raw secret exists
// solely inside the "<qqid>:<secret>" cookie held by the client. Multiple
// concurrent sessions per user are permitted, and issuing a new one never
// revokes its siblings.
type Session struct {
	ID               string `json:"id"`
	QQID             int64  `json:"qqid"`
	CookieSecretHash string `json:"-"` // Digest of the cookie secret. Omitted for security.
	ExpireAt         int64  `json:"expire_at"`
	LastSeenTime     int64  `json:"last_seen_time"`
	LastSeenAddr     string `json:"last_seen_addr"`
}

// WebSession is the volatile server-side session minted after a successful
// authentication. It backs the already-authenticated passthrough: while it
// lives, requests skip the cookie-recall database path entirely.
type WebSession struct {
	QQID          int64              `json:"qqid"`
	Authority     sec.AuthorityGroup `json:"authority"`
	CSRFToken     string             `json:"csrf_token"`
	LastLoginTime int64              `json:"last_login_time"`
	LastLoginAddr string             `json:"last_login_addr"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the login domain.
const (
	FieldQQID     = "qqid"
	FieldKey      = "key"
	FieldPwd      = "pwd"
	FieldCallback = "callback"
	FieldNickname = "nickname"
)
