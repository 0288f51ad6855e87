package repositories

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrPartExists is returned when a part is saved twice
	ErrPartExists = errors.New("part already exists")
)
