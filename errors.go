package mdbsql

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned by Open when the path does not name a
	// regular file.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidMdbFile is returned by Open when the engine rejects the
	// file as an unrecognizable database.
	ErrInvalidMdbFile = errors.New("invalid mdb file")

	// ErrInvalidRowIndex is returned by row accessors when the column
	// index is out of range.
	ErrInvalidRowIndex = errors.New("invalid row index")

	// ErrLockPoisoned is returned when a prior panic left the engine in
	// an indeterminate state while holding the connection lock.
	ErrLockPoisoned = errors.New("connection poisoned by prior panic")
)

// EngineError is a failure reported through the engine's error slot after
// a query, catalog, or export operation.
type EngineError struct {
	Message string
}

func (e *EngineError) Error() string {
	return "mdb sql error: " + e.Message
}

// EncodingError is returned when a path or query contains an embedded NUL
// byte or is not valid UTF-8 and therefore cannot cross into the engine.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "encoding error: " + e.Reason
}

// DecodeError is returned when a row value cannot be decoded into the
// requested type.
type DecodeError struct {
	Index int
	Value string
	Type  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode column %d value %q as %s: %v", e.Index, e.Value, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
