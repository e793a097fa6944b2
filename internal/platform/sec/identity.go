// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package sec

// Identity represents the resolved principal of an authenticated request.
//
// # Why a platform type?
//
// The middleware chain resolves the web-session cookie into an Identity and
// injects it into the request context. Keeping the type here (rather than in
// the auth domain) lets every domain handler consume it without importing
// the auth service.
type Identity struct {
	// QQID is the stable, externally assigned account identifier.
	QQID int64

	// Authority is the privilege tier of the account.
	Authority AuthorityGroup

	// SessionID identifies the server-side web session backing this request.
	SessionID string

	// CSRFToken is the per-session anti-forgery token handed to the client.
	CSRFToken string
}
