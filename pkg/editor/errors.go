// Package editor provides standardized error types for editor operations.
package editor

import (
	"errors"
	"fmt"
)

// Lookups that found nothing. Callers usually ignore these; the document is
// left untouched.
var (
	ErrTabNotFound         = errors.New("tab not found")
	ErrEntryNotFound       = errors.New("history entry not found")
	ErrNodeNotFound        = errors.New("node not found")
	ErrPortNotFound        = errors.New("port not found")
	ErrGroupNotFound       = errors.New("node group not found")
	ErrSubWorkflowNotFound = errors.New("subworkflow not found")
	ErrUnknownNodeType     = errors.New("unknown node type")
)

// Operations that cannot apply in the current state.
var (
	ErrEmptyClipboard       = errors.New("clipboard is empty")
	ErrEmptySelection       = errors.New("no nodes selected")
	ErrInvalidConnection    = errors.New("invalid connection")
	ErrNotSubWorkflow       = errors.New("active tab is not a subworkflow")
	ErrRecursiveSubWorkflow = errors.New("subworkflow cannot contain an instance of itself")
	ErrSubWorkflowInUse     = errors.New("subworkflow still has instances")
)

// EditorError wraps editor errors with the operation that produced them.
type EditorError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *EditorError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

func (e *EditorError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newError(op string, err error, message string) *EditorError {
	return &EditorError{Op: op, Message: message, Err: err}
}

// IsNotFound reports whether an error means the target of an operation does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTabNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrPortNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrSubWorkflowNotFound)
}
