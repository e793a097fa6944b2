// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.

The login page is reachable both as a GET link (bot-delivered URL with query
parameters) and as a POST form submission; [Value] gives both shapes a single
typed extraction point so the core never touches the transport encoding.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clanboard/api/internal/platform/apperr"
	"github.com/clanboard/api/internal/platform/constants"
	"github.com/clanboard/api/internal/platform/ctxutil"
	"github.com/clanboard/api/internal/platform/sec"
	"github.com/clanboard/api/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ParamInt64 retrieves a named URL parameter and parses it as a base-10 int64.

Returns 0 when the parameter is absent or not numeric.
*/
func ParamInt64(request *http.Request, name string) int64 {
	value, _ := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	return value
}

/*
Value retrieves a named parameter from the POST form if present, falling
back to the query string.

This mirrors the dual GET/POST nature of the login page: bot-delivered
links carry qqid/key in the query string, while the password form posts
the same fields as form values.
*/
func Value(request *http.Request, name string) string {
	if request.Method == http.MethodPost {
		if v := request.PostFormValue(name); v != "" {
			return v
		}
	}
	return request.URL.Query().Get(name)
}

/*
ClientAddr returns the originating client address, preferring the
X-Real-IP header set by the fronting proxy over the socket address.
*/
func ClientAddr(request *http.Request) string {
	if addr := request.Header.Get(constants.HeaderXRealIP); addr != "" {
		return addr
	}
	return request.RemoteAddr
}

/*
Identity extracts the authenticated identity from the request context.

Returns nil if the request is not authenticated.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

Returns:
  - *sec.Identity: The authenticated identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {

	// Get the resolved identity
	identity := ctxutil.GetIdentity(request.Context())

	// If the user is not authenticated, return an error
	if identity == nil {
		return nil, apperr.Unauthorized("未登录")
	}

	return identity, nil
}
