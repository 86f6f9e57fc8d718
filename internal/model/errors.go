package model

import "errors"

// Common errors used across the application
var (
	// ErrInvalidInput is returned for malformed ids, missing required fields
	// and out-of-bound field values. Callers wrap it with a reason.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPlayerNotFound is returned when no player exists for an id
	ErrPlayerNotFound = errors.New("player not found")

	// ErrStorageUnavailable wraps failures of the persistence backend
	ErrStorageUnavailable = errors.New("storage unavailable")
)
