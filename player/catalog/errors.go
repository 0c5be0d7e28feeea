package catalog

import (
	"errors"
	"fmt"
)

// Common catalog errors that can be checked with errors.Is.
var (
	// ErrNotFound is returned when no record exists for the requested id.
	ErrNotFound = errors.New("catalog: track not found")

	// ErrPayloadAbsent is returned when a record carries no stored audio.
	ErrPayloadAbsent = errors.New("catalog: audio payload absent")
)

// StorageError wraps a storage-layer failure with the operation and record
// id that triggered it, so callers can tell storage failures apart from
// lookup misses using errors.As.
type StorageError struct {
	// Op is the repository operation that failed (e.g., "put", "restore").
	Op string

	// ID is the track id involved, if any.
	ID string

	// Err is the underlying storage engine error.
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("catalog: %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("catalog: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, ID: id, Err: err}
}
