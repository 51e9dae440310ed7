package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, including the losing side of a concurrent toggle race.
	ErrDuplicate = errors.New("record already exists")
)
