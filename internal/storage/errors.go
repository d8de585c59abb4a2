package storage

import "errors"

// Storage errors for append-only stores.
var (
	// ErrNotFound is returned when a requested batch does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a batch id is inserted twice.
	// Datasets are immutable; a rerun gets a fresh batch id.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
