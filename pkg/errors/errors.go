// Package errors provides structured error types for stackfetch.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and library callers
//   - Machine-readable error codes for selective recovery
//   - Source positions attached to failures for one-pass diagnostics
//   - Aggregation of independent failures into a single composite error
//
// # Error Codes
//
// The fetch layer distinguishes four kinds of failure:
//   - MISSING_SCALA_VERSION: a dependency template needs a Scala suffix that was never supplied
//   - REPOSITORY_FORMAT: a repository string could not be parsed
//   - FETCHING_DEPENDENCIES: the resolution engine failed for a concrete request
//   - COMPOSITE: two or more independent failures reported together
//
// # Usage
//
//	err := errors.New(errors.ErrCodeRepositoryFormat, "unrecognized repository %q", s)
//	if errors.Is(err, errors.ErrCodeRepositoryFormat) {
//	    // Handle repository error
//	}
//
//	// Wrap existing errors, keeping where the request came from
//	err := errors.Wrap(errors.ErrCodeFetchingDependencies, cause, "fetching dependencies").
//	    WithPositions(positions...)
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/stackfetch/pkg/position"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDependency Code = "INVALID_DEPENDENCY"
	ErrCodeRepositoryFormat  Code = "REPOSITORY_FORMAT"

	// Resolution errors
	ErrCodeMissingScalaVersion  Code = "MISSING_SCALA_VERSION"
	ErrCodeFetchingDependencies Code = "FETCHING_DEPENDENCIES"
	ErrCodeComposite            Code = "COMPOSITE"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code, optional cause and the source
// positions of the declarations that led to it.
type Error struct {
	Code      Code                // Machine-readable error code
	Message   string              // Human-readable message
	Cause     error               // Underlying error (optional)
	Positions []position.Position // Originating declarations (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPositions returns a copy of e carrying the given positions in addition
// to any it already had.
func (e *Error) WithPositions(pos ...position.Position) *Error {
	c := *e
	c.Positions = append(append([]position.Position(nil), e.Positions...), pos...)
	return &c
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// A *Composite matches ErrCodeComposite.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is neither an *Error nor a *Composite.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	if _, ok := err.(*Composite); ok {
		return ErrCodeComposite
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Positions returns the positions attached to the first *Error in err's chain.
func Positions(err error) []position.Position {
	var e *Error
	if errors.As(err, &e) {
		return e.Positions
	}
	return nil
}

// Report renders every leaf failure of err on its own line, prefixed with the
// positions that requested it. Composite errors are flattened so the caller
// can fix every problem in one pass.
func Report(err error) []string {
	if err == nil {
		return nil
	}
	var lines []string
	for _, leaf := range Flatten(err) {
		msg := leaf.Error()
		var pos []string
		for _, p := range Positions(leaf) {
			pos = append(pos, p.String())
		}
		if len(pos) > 0 {
			msg = strings.Join(pos, ", ") + ": " + msg
		}
		lines = append(lines, msg)
	}
	return lines
}
