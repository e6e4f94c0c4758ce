package repository

import "errors"

var (
	// ErrNotFound means no row matched the id (and owner filter, if any).
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a unique constraint (email, username) was violated.
	ErrConflict = errors.New("duplicate record")
)
