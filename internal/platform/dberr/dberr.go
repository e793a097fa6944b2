// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/clanboard/api/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Anything that is not a plain missing-row condition counts as the store
// being unavailable: the attempt fails and the caller decides retry policy.
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Everything else is a collaborator failure, fatal to the attempt.
	return apperr.StoreUnavailable(err)
}

// IsNotFound reports whether err represents a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || apperr.HasCode(err, "NOT_FOUND")
}
