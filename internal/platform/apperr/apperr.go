// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

/*
Package apperr defines the centralized error handling framework for Clanboard.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Advice: Every login-flow failure carries a remediation hint shown to the user.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

// Machine-readable identifiers for every enumerable authentication failure.
const (
	CodeMalformed          = "MALFORMED"
	CodeNotConfigured      = "NOT_CONFIGURED"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidAddress     = "INVALID_ADDRESS"
	CodeInvalidSession     = "INVALID_SESSION"
	CodeExpired            = "EXPIRED"
	CodeAlreadyUsed        = "ALREADY_USED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
)

// AppError is the canonical error type for the Clanboard API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, an optional remediation hint, and an optional slice of
// field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "EXPIRED", "ALREADY_USED").
	Code string `json:"code"`
	// Message is a human-readable reason safe to return to the client.
	Message string `json:"error"`
	// Advice is the remediation hint shown next to the reason
	// (e.g. "request a new login link from the bot").
	Advice string `json:"advice,omitempty"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Authentication Failures (login flow taxonomy)

// Malformed creates a 400 [AppError] for structurally invalid input
// (e.g. a cookie that does not split into exactly two parts).
func Malformed(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeMalformed,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotConfigured creates a 401 [AppError] for accounts without a password set.
func NotConfigured(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeNotConfigured,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AccountLocked creates a 403 [AppError] once the failure threshold is exceeded.
func AccountLocked(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeAccountLocked,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusForbidden,
	}
}

// InvalidCredentials creates a 401 [AppError] for a wrong password.
func InvalidCredentials(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidAddress creates a 401 [AppError] for a login code that matches no record.
func InvalidAddress(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeInvalidAddress,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidSession creates a 401 [AppError] for a cookie that matches no session.
func InvalidSession(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeInvalidSession,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Expired creates a 401 [AppError] for a code or session past its expiry.
func Expired(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeExpired,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AlreadyUsed creates a 401 [AppError] for a login code that was already redeemed.
func AlreadyUsed(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeAlreadyUsed,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// UserNotFound creates a 404 [AppError] for an identity that matches no account.
func UserNotFound(reason, advice string) *AppError {
	return &AppError{
		Code:       CodeUserNotFound,
		Message:    reason,
		Advice:     advice,
		HTTPStatus: http.StatusNotFound,
	}
}

// StoreUnavailable creates a 503 [AppError] wrapping a collaborator failure.
// It is always fatal to the current attempt; retry policy belongs to the caller.
func StoreUnavailable(cause error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    "存储服务暂时不可用",
		Advice:     "请稍后重试",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// # Transport Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("User") // Returns "User not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err is an [*AppError] carrying the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
