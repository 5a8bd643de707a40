package store

import "errors"

var (
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrRunNotFound is returned when no run matches an id or id prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when an id prefix matches several runs.
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
	// ErrLocked is returned when another process holds the store.
	ErrLocked = errors.New("run store is locked by another process")
)
