// Package errors provides structured error types for allocviz.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server and the layout engine
//   - Machine-readable error codes for programmatic handling
//   - A two-way split between malformed input and invalid configuration
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration failures
//   - NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Codes are grouped into two categories. Validation codes describe a
// malformed or inconsistent allocator snapshot; configuration codes describe
// a bad layout configuration or palette. Use [IsValidation] and
// [IsConfiguration] to classify an error.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidBlock, "block %d: size must be positive", id)
//	if errors.IsValidation(err) {
//	    // reject the snapshot
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode %s", path)
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
	ErrCodeInvalidState     Code = "INVALID_STATE"
	ErrCodeInvalidBlock     Code = "INVALID_BLOCK"
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeInvalidLayer     Code = "INVALID_LAYER"

	// Configuration errors
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPalette Code = "INVALID_PALETTE"
	ErrCodeInvalidColor   Code = "INVALID_COLOR"

	// Request errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidKind   Code = "INVALID_KIND"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var validationCodes = map[Code]bool{
	ErrCodeInvalidInput:     true,
	ErrCodeInvalidState:     true,
	ErrCodeInvalidBlock:     true,
	ErrCodeInvalidReference: true,
	ErrCodeInvalidLayer:     true,
}

var configurationCodes = map[Code]bool{
	ErrCodeInvalidConfig:  true,
	ErrCodeInvalidPalette: true,
	ErrCodeInvalidColor:   true,
}

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

// IsValidation reports whether err describes a malformed or inconsistent
// allocator snapshot.
func IsValidation(err error) bool {
	return validationCodes[GetCode(err)]
}

// IsConfiguration reports whether err describes an invalid layout
// configuration or palette.
func IsConfiguration(err error) bool {
	return configurationCodes[GetCode(err)]
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
