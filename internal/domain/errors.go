package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType       = errors.New("unknown field type")
	ErrEmptySchema       = errors.New("observation has no fields")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrDuplicateField    = errors.New("duplicate field")
	ErrTableNotFound     = errors.New("observation not found")
	ErrInvalidValue      = errors.New("invalid value")
)

// InputError is malformed or out-of-range user input. It is always
// recoverable: the current step is re-prompted.
type InputError struct {
	State string
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error { return e.Err }

// SchemaError is an invalid schema detected before any storage I/O.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// StorageError is a failure reported by the storage engine or while
// connecting to it. The in-memory state that produced the request is kept
// so the user can retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorKind classifies errors for display.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInput
	KindSchema
	KindStorage
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInput:
		return "input"
	case KindSchema:
		return "schema"
	case KindStorage:
		return "storage"
	default:
		return "other"
	}
}

// Kind returns the taxonomy bucket of err.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var inputErr *InputError
	var schemaErr *SchemaError
	var storageErr *StorageError
	switch {
	case errors.As(err, &inputErr):
		return KindInput
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &storageErr):
		return KindStorage
	default:
		return KindOther
	}
}
