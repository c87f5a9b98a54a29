package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key already exists
	ErrDuplicate = errors.New("duplicate entry")

	// ErrCorrupt is returned when persisted rows cannot be decoded
	ErrCorrupt = errors.New("corrupt table data")
)
