package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidKey indicates a project key or conversation id that would
	// escape the transcripts root.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidSetting indicates an unknown settings key or a value of the wrong type.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrCacheUnavailable indicates the transcript cache could not be opened.
	// Queries still work without it.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
