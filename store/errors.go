package store

import "errors"

var (
	// ErrExists is returned when a store is created at a path that already holds a file.
	ErrExists = errors.New("store: already exists")

	// ErrNotOpen is returned when a store is used while closed.
	ErrNotOpen = errors.New("store: not open")

	// ErrUnknownTable is returned for a table the store was not created with.
	ErrUnknownTable = errors.New("store: unknown table")
)
