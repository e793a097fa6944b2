// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clanboard/api/internal/platform/config"
	"github.com/clanboard/api/internal/platform/constants"
	requestutil "github.com/clanboard/api/internal/platform/request"
	"github.com/clanboard/api/internal/platform/respond"
	"github.com/clanboard/api/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the login-lifecycle HTTP endpoints.
//
// # Scope
//
// This layer is strictly responsible for transport concerns: form and
// cookie extraction, cookie injection, status codes and JSON envelopes.
// Every decision lives in [Service].
type Handler struct {
	authService   *Service
	configuration *config.Config
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, configuration *config.Config) *Handler {
	return &Handler{authService: service, configuration: configuration}
}

// Register adds the login-flow routes to the given router. The paths are
// shared with the profile surface under the root namespace, so handlers
// register into one router instead of mounting sub-routers.
//
// # Endpoints
//   - GET|POST /login/               : Full login decision tree.
//   - GET|POST /logout/              : Session teardown.
//   - POST     /user/reset-password/ : Password change (session required).
//
// Login and logout accept both verbs because the login link delivered in
// chat is a plain GET, while the page form posts.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/login/", handler.login)
	router.Post("/login/", handler.login)
	router.Get("/logout/", handler.logout)
	router.Post("/logout/", handler.logout)
	router.Post("/user/reset-password/", handler.resetPassword)
}

// # Response Payloads

type loginResponse struct {
	User     *User  `json:"user"`
	Callback string `json:"callback"`
}

// # Cookie Helpers

func (handler *Handler) setCookie(writer http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handler.configuration.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (handler *Handler) clearCookie(writer http.ResponseWriter, name string) {
	handler.setCookie(writer, name, "", -1)
}

func cookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// # Handlers

// login runs the full login decision tree and installs the resulting
// cookies. Parameters arrive as query values (login link) or form values
// (login page).
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	attempt := LoginAttempt{
		QQID:      requestutil.Value(request, FieldQQID),
		Code:      requestutil.Value(request, FieldKey),
		Password:  requestutil.Value(request, FieldPwd),
		Cookie:    cookieValue(request, constants.AuthCookieName),
		SessionID: cookieValue(request, constants.WebSessionCookieName),
		Addr:      requestutil.ClientAddr(request),
	}

	callback := requestutil.Value(request, FieldCallback)
	if callback == "" {
		callback = handler.configuration.PublicBasepath + "user/"
	}

	outcome, err := handler.authService.Authenticate(request.Context(), attempt)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if outcome.Cookie != "" {
		handler.setCookie(writer, constants.AuthCookieName, outcome.Cookie, SessionTTL)
	}
	if !outcome.Passthrough {
		handler.setCookie(writer, constants.WebSessionCookieName, outcome.SessionID,
			int(WebSessionTTL.Seconds()))
	}

	respond.OK(writer, loginResponse{User: outcome.User, Callback: callback})
}

// logout clears both cookies and tears down the server-side state.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	err := handler.authService.Logout(request.Context(),
		cookieValue(request, constants.WebSessionCookieName),
		cookieValue(request, constants.AuthCookieName),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearCookie(writer, constants.WebSessionCookieName)
	handler.clearCookie(writer, constants.AuthCookieName)

	respond.NoContent(writer)
}

// resetPassword sets a new password for the logged-in account.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	password := requestutil.Value(request, FieldPwd)

	// The page enforces these too; the server is the authority.
	validator := &validate.Validator{}
	validator.Required(FieldPwd, password).
		MinLen(FieldPwd, password, 8).
		PasswordCharset(FieldPwd, password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SetPassword(request.Context(), identity.QQID, password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "密码设置成功"})
}
