package qgen

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a column or key is not part of a query model.
var ErrNotFound = errors.New("qgen: path not found")

// NotFoundError represents an error when a path lookup fails.
type NotFoundError struct {
	entity string
	name   string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("qgen: %s has no column %q", e.entity, e.name)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Entity returns the qualified table name the lookup ran against.
func (e *NotFoundError) Entity() string {
	return e.entity
}

// Name returns the name that was searched for.
func (e *NotFoundError) Name() string {
	return e.name
}

// NewNotFoundError returns a new NotFoundError for the given entity and name.
func NewNotFoundError(entity, name string) *NotFoundError {
	return &NotFoundError{entity: entity, name: name}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}
