// Package task implements a single-file JSON task tracker.
//
// Tasks live in one JSON document shaped as {"tasks": [...]}. Every
// operation loads the whole document, applies at most one mutation, and
// writes the whole document back, so the file is the only state shared
// between invocations.
//
// The public API mirrors the CLI commands:
//   - Create, Update, MarkDone, MarkInProgress, Delete for the task lifecycle
//   - Get, List, NextID for querying
package task

import "fmt"

// Status represents the state of a task.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "pending"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "in-progress"

	// StatusDone indicates the task is finished.
	StatusDone Status = "done"
)

// ValidStatuses returns all valid status values in lifecycle order.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// String returns the human-facing label for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// MarshalText returns the canonical wire tag.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	return []byte(s), nil
}

// UnmarshalText accepts only canonical wire tags.
func (s *Status) UnmarshalText(text []byte) error {
	status := Status(text)
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(text))
	}
	*s = status
	return nil
}

// Task represents a single unit of work.
type Task struct {
	// ID is assigned by the store; zero means not yet persisted.
	ID uint64 `json:"id" yaml:"id"`

	// Description is the free-text summary of the task.
	Description string `json:"description" yaml:"description"`

	// Status is the current state of the task.
	Status Status `json:"status" yaml:"status"`
}

// New returns an unsaved task with the given description.
func New(description string) Task {
	return Task{Description: description}
}
