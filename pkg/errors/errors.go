// Package errors provides structured error types for the orgchart application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the storage codecs
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the persistence failure taxonomy:
//   - INVALID_FORMAT: wrong or corrupt byte signature, missing section/table
//     or truncated content; the whole load is aborted
//   - DANGLING_REFERENCE: a record points at an unknown parent, unit, role or
//     employee; the record is dropped and the load continues
//   - STRUCTURAL_VIOLATION: a loaded graph breaks a hierarchy invariant
//   - STRUCTURAL_WARNING: a soft issue (unknown role name) that is logged only
//   - IO_ERROR: file or database access failure
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "missing section %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle corrupt input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input format errors (abort the whole load)
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Per-record reference errors (recoverable, record is skipped)
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"

	// Graph invariant errors
	ErrCodeStructuralViolation Code = "STRUCTURAL_VIOLATION"
	ErrCodeStructuralWarning   Code = "STRUCTURAL_WARNING"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeIO       Code = "IO_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
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
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
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
