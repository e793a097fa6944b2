// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package auth

import "time"

// # Authentication Constraints

const (
	// LoginCodeLength is the character length of the one-time login code.
	LoginCodeLength = 6

	// LoginCodeTTL is how long a login code stays redeemable, in seconds.
	// Deliberately tight (one minute): the link is clicked straight from
	// the chat window.
	LoginCodeTTL = 60

	// CookieSecretLength is the character length of the random cookie secret.
	CookieSecretLength = 32

	// SessionTTL is the cookie-session lifetime in seconds (7 days).
	// Also used verbatim as the cookie max-age attribute.
	SessionTTL = 7 * 24 * 60 * 60

	// SaltLength is the character length of the per-user salt, minted once
	// when the account record is first created.
	SaltLength = 16

	// FailureThreshold is the wrong-password count at which an account locks.
	FailureThreshold = 3

	// WebSessionIDLength is the character length of the server-session ID.
	WebSessionIDLength = 32

	// CSRFTokenLength is the character length of the per-session CSRF token.
	CSRFTokenLength = 16

	// WebSessionTTL is the Redis TTL of the server-side web session.
	WebSessionTTL = 2 * time.Hour
)

// # Bootstrap

// FlagAdminBootstrapped is the persisted flag claimed exactly once by the
// first account that ever registers; the claimant gets the super-admin tier.
const FlagAdminBootstrapped = "admin_bootstrapped"
