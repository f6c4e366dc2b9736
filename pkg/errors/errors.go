// Package errors provides structured error types for tetris.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The only failure generated by the cell core itself is [ErrCodeValidation],
// raised when a geometric query is made on a cell with no view able to answer
// it. The remaining codes label failures that the core propagates from its
// collaborators: unresolved placements, unavailable shared cells, and the
// library arena's structural checks.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "cell %q has no outline view", name)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLockPoisoned, origErr, "reading cell %q", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Geometric/attribute queries
	ErrCodeValidation      Code = "VALIDATION"
	ErrCodeUnresolvedPlace Code = "UNRESOLVED_PLACE"
	ErrCodeInvalidOutline  Code = "INVALID_OUTLINE"

	// Shared-access failures
	ErrCodeLockPoisoned    Code = "LOCK_POISONED"
	ErrCodeLockUnavailable Code = "LOCK_UNAVAILABLE"

	// Library structure
	ErrCodeCycle     Code = "CYCLE"
	ErrCodeNotFound  Code = "NOT_FOUND"
	ErrCodeDuplicate Code = "DUPLICATE"

	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

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

// Context wraps err with a message while keeping the code of the first
// *Error in the chain. Plain errors are labelled ErrCodeInternal.
// Returns nil when err is nil.
func Context(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return Wrap(code, err, format, args...)
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
