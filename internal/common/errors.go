// Package common defines shared constants and sentinel errors used across
// the sharebox client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Lookup errors.
	ErrorNotFound = errors.New("not found")

	// Transport-level errors.
	ErrorUnavailable = errors.New("server unavailable")
	ErrorInternal    = errors.New("internal error")

	// Auth errors.
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrorSessionExpired = errors.New("session expired")
	ErrInvalidToken     = errors.New("invalid token")

	// Signup conflicts.
	ErrorConflict = errors.New("already exists")

	// Local validation.
	ErrorValidation = errors.New("validation error")
)
