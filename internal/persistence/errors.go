package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConstraintViolation is returned when the store rejects a record.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrStoreUnavailable is returned when the store cannot be read.
	ErrStoreUnavailable = errors.New("persistence: store unavailable")
)
