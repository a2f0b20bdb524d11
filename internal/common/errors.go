// Package common defines shared constants and sentinel errors used across
// the layers of the service. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Authorization errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Quota errors.
	ErrLimitExceeded = errors.New("check limit exceeded")

	// Generic/internal flow control.
	ErrorInternal = errors.New("internal error")
)
