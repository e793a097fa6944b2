// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// # Concurrency
//
// IncrementLoginFailure and ConsumeLoginCode MUST be single atomic
// statements on the storage side: lost updates on the failure counter or
// the single-use flag would allow lockout bypass or code replay.
type UserRepository interface {

	/*
		FindByID returns the account with the given QQ ID, or nil when no
		such account exists (get-or-none semantics).

		Parameters:
		  - context: context.Context
		  - qqid: int64

		Returns:
		  - *User: Hydrated entity, nil when absent
		  - error: Storage failures only
	*/
	FindByID(context context.Context, qqid int64) (*User, error)

	/*
		GetOrCreate atomically fetches the account, inserting the provided
		defaults when it does not exist yet.

		Parameters:
		  - context: context.Context
		  - defaults: *User (QQID plus initial field values)

		Returns:
		  - *User: The stored entity (existing or freshly created)
		  - bool: True when the row was created by this call
		  - error: Storage failures
	*/
	GetOrCreate(context context.Context, defaults *User) (*User, bool, error)

	/*
		Save persists every mutable field of the account (last-write-wins).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, user *User) error

	/*
		IncrementLoginFailure bumps the wrong-password counter by one in a
		single atomic statement.

		Parameters:
		  - context: context.Context
		  - qqid: int64

		Returns:
		  - int: The counter value after the increment
		  - error: Persistence failures
	*/
	IncrementLoginFailure(context context.Context, qqid int64) (int, error)

	/*
		ConsumeLoginCode flips the single-use flag off and records the
		last-login metadata in one atomic statement. The flip is guarded by
		the flag still being on, so a concurrent double redemption loses.

		Parameters:
		  - context: context.Context
		  - qqid: int64
		  - now: int64 (epoch seconds)
		  - addr: string (client address)

		Returns:
		  - bool: True when this call consumed the code
		  - error: Persistence failures
	*/
	ConsumeLoginCode(context context.Context, qqid int64, now int64, addr string) (bool, error)

	/*
		UpdatePassword replaces the password hash and salt and resets the
		failure counter, all in one statement.

		Parameters:
		  - context: context.Context
		  - qqid: int64
		  - hash: string
		  - salt: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, qqid int64, hash, salt string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for cookie sessions.
type SessionRepository interface {

	/*
		Create persists a new session row for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByUserAndHash returns the session matching (qqid, digest), or
		nil when none matches. This is a point query on the digest — the
		digest is the effective index key, raw secrets are never compared.

		Parameters:
		  - context: context.Context
		  - qqid: int64
		  - secretHash: string

		Returns:
		  - *Session: Hydrated entity, nil when absent
		  - error: Storage failures only
	*/
	FindByUserAndHash(context context.Context, qqid int64, secretHash string) (*Session, error)

	/*
		Touch refreshes the last-seen metadata of a session.

		Parameters:
		  - context: context.Context
		  - sessionID: string
		  - now: int64 (epoch seconds)
		  - addr: string

		Returns:
		  - error: Persistence failures
	*/
	Touch(context context.Context, sessionID string, now int64, addr string) error

	/*
		DeleteByUserAndHash eagerly removes the session backing a cookie.
		Used by logout as an optimization over lazy expiry.

		Parameters:
		  - context: context.Context
		  - qqid: int64
		  - secretHash: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteByUserAndHash(context context.Context, qqid int64, secretHash string) error

	/*
		DeleteByUser removes every session belonging to the user.

		Parameters:
		  - context: context.Context
		  - qqid: int64

		Returns:
		  - error: Persistence failures
	*/
	DeleteByUser(context context.Context, qqid int64) error

	/*
		DeleteExpired physically removes sessions whose expiry has passed.
		Naturally idempotent; safe to run concurrently with live traffic.

		Parameters:
		  - context: context.Context
		  - now: int64 (epoch seconds)

		Returns:
		  - int64: Number of rows removed
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context, now int64) (int64, error)
}

// # Volatile Data Access

// WebSessionRepository defines the contract for the short-lived server-side
// web sessions stored in Redis.
type WebSessionRepository interface {

	/*
		Put stores a web session under the given session ID with the
		standard TTL.

		Parameters:
		  - context: context.Context
		  - sessionID: string
		  - session: *WebSession

		Returns:
		  - error: Persistence failures
	*/
	Put(context context.Context, sessionID string, session *WebSession) error

	/*
		Get retrieves the web session for the given ID, or nil when the
		entry is absent or has expired.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *WebSession: Hydrated entry, nil when absent
		  - error: Retrieval failures only
	*/
	Get(context context.Context, sessionID string) (*WebSession, error)

	/*
		Delete removes a web session (logout).

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, sessionID string) error
}

// # Bootstrap Flags

// FlagRepository defines the contract for one-shot persisted flags.
type FlagRepository interface {

	/*
		TryClaim atomically claims the named flag. Exactly one caller ever
		wins the claim; every later call reports false.

		Parameters:
		  - context: context.Context
		  - name: string

		Returns:
		  - bool: True when this call claimed the flag
		  - error: Persistence failures
	*/
	TryClaim(context context.Context, name string) (bool, error)
}
