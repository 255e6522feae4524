package document

import "errors"

// Domain errors represent business failures, distinct from
// infrastructure errors.
var (
	// ErrNotFound indicates a referenced document or highlight does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a missing or malformed required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
)
