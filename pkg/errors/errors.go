// Package errors provides structured error types for dicomtag.
//
// The three failure families of the editor map onto codes:
//   - LoadError: ErrCodeLoadFailed, ErrCodeFileNotFound
//   - SaveError: ErrCodeSaveFailed, ErrCodeNoDataset
//   - EditRejected: ErrCodeEditRejected
//
// None of them is fatal; callers report the message and keep running.
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeLoadFailed, cause, "failed to load %s", path)
//	if errors.IsLoadError(err) {
//	    // dataset is absent, tree is empty
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Load errors
	ErrCodeLoadFailed   Code = "LOAD_FAILED"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Save errors
	ErrCodeSaveFailed Code = "SAVE_FAILED"
	ErrCodeNoDataset  Code = "NO_DATASET"

	// Edit errors
	ErrCodeEditRejected Code = "EDIT_REJECTED"
	ErrCodeTagNotFound  Code = "TAG_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
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
// Only the outermost *Error in the chain is inspected.
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

// IsLoadError reports whether err is a failure to read or parse a file.
func IsLoadError(err error) bool {
	switch GetCode(err) {
	case ErrCodeLoadFailed, ErrCodeFileNotFound:
		return true
	}
	return false
}

// IsSaveError reports whether err is a failure to write the dataset.
func IsSaveError(err error) bool {
	switch GetCode(err) {
	case ErrCodeSaveFailed, ErrCodeNoDataset:
		return true
	}
	return false
}

// IsEditRejected reports whether err is a refused edit.
func IsEditRejected(err error) bool {
	return Is(err, ErrCodeEditRejected)
}
