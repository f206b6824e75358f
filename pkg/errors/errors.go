// Package errors provides structured error types for the artboard editor core.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for the few errors shown to users
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (selection too small, bad ids)
//   - NOT_FOUND: Missing objects or canvases
//   - RESOURCE_LOAD: Image assets that could not be fetched after retries
//   - PERSISTENCE: Autosave or load failures against the document store
//   - INTERNAL_*: Unexpected internal errors
//
// # Propagation
//
// Editing never stops on an error. Validation failures are silent no-ops at
// the editor surface, persistence and presence failures are logged and
// swallowed, and resource load failures are the only errors returned
// synchronously to callers so the UI can show a specific message.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSelection, "align needs 2 objects, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidSelection) {
//	    // Silent no-op
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePersistence, origErr, "save canvas %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidSelection Code = "INVALID_SELECTION"
	ErrCodeInvalidID        Code = "INVALID_ID"
	ErrCodeInvalidURL       Code = "INVALID_URL"
	ErrCodeCycle            Code = "CYCLE"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeCanvasNotFound Code = "CANVAS_NOT_FOUND"

	// Collaborator errors
	ErrCodeResourceLoad Code = "RESOURCE_LOAD"
	ErrCodePersistence  Code = "PERSISTENCE"
	ErrCodePresence     Code = "PRESENCE"
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"

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
// It unwraps the error chain looking for an *Error with a matching code.
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

// IsValidation reports whether err is one of the validation codes that the
// editor treats as a silent no-op.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidSelection, ErrCodeInvalidID, ErrCodeCycle:
		return true
	}
	return false
}
