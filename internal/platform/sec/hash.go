// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

// Package sec provides the cryptographic primitives of the authentication core.
//
// # Architecture
//
// This package isolates security-sensitive code (salted digests, random
// string generation, authority tiers) from the domain logic. It acts as an
// Infrastructure service used by the auth and account layers.
package sec

import (
	"crypto/sha256"
	"encoding/hex"
)

// SaltedHash computes the hex SHA-256 digest of secret+salt.
//
// # Stability
//
// The digest is deterministic across process restarts and machines: it is
// used both for password verification and as the equality index key for
// cookie-session lookups, so it must never depend on per-process state.
// The raw secret is never stored or logged anywhere.
func SaltedHash(secret, salt string) string {
	digest := sha256.Sum256([]byte(secret + salt))
	return hex.EncodeToString(digest[:])
}
