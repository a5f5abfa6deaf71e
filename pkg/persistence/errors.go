// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProjectNotFound indicates no project is stored under the given name.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidProjectName indicates a name that cannot be used as a storage key.
	ErrInvalidProjectName = errors.New("invalid project name")
)

// ProjectError wraps project storage errors with additional context.
type ProjectError struct {
	Op      string // Operation being performed (e.g., "Load", "Save", "Delete")
	Name    string // Project name
	Err     error  // Underlying error
	Message string // Additional context message
}

func (e *ProjectError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for project %s: %s (%v)", e.Op, e.Name, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for project %s: %v", e.Op, e.Name, e.Err)
}

func (e *ProjectError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for project errors.
func (e *ProjectError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewProjectError creates a new project error with context.
func NewProjectError(op, name string, err error) *ProjectError {
	return &ProjectError{
		Op:   op,
		Name: name,
		Err:  err,
	}
}

// IsProjectNotFound checks if an error indicates a project was not found.
func IsProjectNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound)
}

// ValidateName rejects names that are empty or would escape the storage root.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalidProjectName
	}

	return nil
}
