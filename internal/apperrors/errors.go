// Package apperrors defines the coded error type shared by the storage
// gateway, the entity services, and the session manager. Expected business
// failures (validation, not-found, conflict, empty update) surface as coded
// errors inside Result values; only engine failures carry a wrapped cause.
package apperrors

import (
	"errors"
	"fmt"
)

// Code is a stable error code for programmatic handling.
type Code string

const (
	CodeValidation     Code = "validation"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodeNoUpdates      Code = "no_updates"
	CodeStorage        Code = "storage"
	CodeNotInitialized Code = "not_initialized"
)

// AppError carries a code, a human-readable message suitable for direct
// display, an optional wrapped cause, and optional diagnostic metadata
// (the failing SQL text and parameters). Metadata is logged, never shown.
type AppError struct {
	Code    Code
	Message string
	Err     error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is/As support.
func (e *AppError) Unwrap() error { return e.Err }

// WithMeta attaches a metadata entry to the error and returns it.
func (e *AppError) WithMeta(k string, v any) *AppError {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[k] = v
	return e
}

// New creates an AppError with a code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err carries the given code (through unwrapping).
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// From returns err as an *AppError, converting foreign errors into
// storage-coded ones so callers always see the taxonomy.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(err, CodeStorage, "storage operation failed")
}
