// Package errors provides structured error types for typegraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the graph engines, storage and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes that the core graph engines raise:
//   - UNKNOWN_TYPE: a type name has no registration in the schema registry
//   - CORRUPT_GRAPH: a flattened payload is not self-consistent (dangling $ref)
//   - INVALID_TYPE: a type assertion failed
//   - INVALID_SCHEMA: a type descriptor is malformed (redeclared field, cycle)
//
// The remaining codes are used by the storage, config and CLI layers.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownType, "unknown type %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownType) {
//	    // Handle missing registration
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCorruptGraph, origErr, "decode record %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph model errors
	ErrCodeUnknownType   Code = "UNKNOWN_TYPE"
	ErrCodeCorruptGraph  Code = "CORRUPT_GRAPH"
	ErrCodeInvalidType   Code = "INVALID_TYPE"
	ErrCodeInvalidSchema Code = "INVALID_SCHEMA"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code,
// so a CORRUPT_GRAPH error wrapping an INVALID_INPUT cause matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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

// UnknownType returns the UNKNOWN_TYPE error for a missing registration.
func UnknownType(name string) *Error {
	return New(ErrCodeUnknownType, "unknown type %q", name)
}

// CorruptGraph returns a CORRUPT_GRAPH error with a formatted message.
func CorruptGraph(format string, args ...any) *Error {
	return New(ErrCodeCorruptGraph, format, args...)
}

// InvalidType returns the INVALID_TYPE error raised by a failed assertion.
// actual is empty when the value was not a node at all.
func InvalidType(expected, actual string) *Error {
	if actual == "" {
		return New(ErrCodeInvalidType, "expected %s, got non-node value", expected)
	}
	return New(ErrCodeInvalidType, "expected %s, got %s", expected, actual)
}
