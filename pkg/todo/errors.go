package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested id does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks caller-supplied data that breaks a domain rule.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks a store that could not complete an operation.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError describes which field was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NotFound builds an ErrNotFound for the given kind of record and id.
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}
