package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTaskNotFound is returned when no task has the requested ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrMalformedStore is returned when the backing file is not a JSON
	// object with a "tasks" array.
	ErrMalformedStore = errors.New("malformed task store")

	// ErrIO wraps failures from the underlying filesystem or database.
	ErrIO = errors.New("task store I/O failure")

	// ErrSerialization is returned when a task cannot be encoded or decoded.
	ErrSerialization = errors.New("task serialization failure")

	// ErrInvalidStatus is returned for an unrecognized status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrEmptyDescription is returned when a description is blank.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrDuplicateID is returned when creating a task with an ID already in use.
	ErrDuplicateID = errors.New("task ID already exists")

	// ErrIDExhausted is returned when no higher ID can be assigned.
	ErrIDExhausted = errors.New("task IDs exhausted")
)

// ValidateDescription checks that the description has visible content.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

func notFound(id uint64) error {
	return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}

func ioFailure(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
