// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package middleware

import (
	"context"
	"net/http"

	"github.com/clanboard/api/internal/platform/constants"
	"github.com/clanboard/api/internal/platform/ctxutil"
	"github.com/clanboard/api/internal/platform/sec"
)

// SessionResolver defines the interface needed to resolve web sessions in middleware.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the auth
// service implementation, allowing us to easily inject mocks during unit testing.
type SessionResolver interface {
	// ResolveWebSession maps a server-session ID to a resolved identity.
	// A nil identity with a nil error means the session is unknown or expired.
	ResolveWebSession(ctx context.Context, sessionID string) (*sec.Identity, error)
}

// Authenticate resolves the web-session cookie into a request identity.
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, resolve the session ID via [SessionResolver].
//  4. Inject the identity into the request context for downstream use.
//
// A dead or unknown session cookie degrades to anonymous rather than
// failing the request: the login endpoint must stay reachable so the
// cookie-recall flow can revive the session.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.WebSessionCookieName)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			identity, err := resolver.ResolveWebSession(request.Context(), cookie.Value)
			if err != nil || identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
