// Package common defines shared constants and sentinel errors used across
// the StudyNotes client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// ErrUnavailable covers transport failures and 5xx responses.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned for authentication failures and feeds
	// the global session invalidation policy.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation wraps the server's message for rejected input.
	ErrValidation = errors.New("validation error")
)
