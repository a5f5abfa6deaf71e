package project

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProject     = errors.New("invalid project file")
	ErrUnsupportedVersion = errors.New("unsupported project version")
)

// ImportError describes why a project file was rejected. Nothing from a
// rejected file is applied.
type ImportError struct {
	Op      string // Stage that rejected the file: schema, decode or validate
	Field   string // Offending field path, when known
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("import %s: %s: %s", e.Op, e.Field, e.Message)
	}

	return fmt.Sprintf("import %s: %s", e.Op, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func (e *ImportError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsInvalidProject checks if an error rejected a project import.
func IsInvalidProject(err error) bool {
	return errors.Is(err, ErrInvalidProject)
}

func newImportError(op, field, message string) *ImportError {
	return &ImportError{Op: op, Field: field, Message: message, Err: ErrInvalidProject}
}
