package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrVersionConflict is returned when a conditional update lost to
	// a concurrent write and the caller should reload and retry.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("entity already exists")
)
