// Package errors provides structured error types for cargo-neat.
//
// Every failure the analysis engine can produce carries a [Code], so callers
// can tell fatal conditions (the manifest tree could not be located at all)
// from isolated ones (one manifest failed to parse, one source file could not
// be read) without string matching.
//
// # Error Codes
//
//   - NOT_FOUND: no manifest under the requested root (fatal)
//   - GLOB_ERROR: a literal workspace member pattern matched nothing
//   - PARSE_ERROR: a manifest is malformed; only that manifest is skipped
//   - IO_ERROR: a source file could not be read; the crate continues
//   - INVALID_*: input validation failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "no Cargo.toml under %s", root)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // abort the run
//	}
//
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Discovery errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeGlob     Code = "GLOB_ERROR"

	// Per-manifest and per-file errors
	ErrCodeParse Code = "PARSE_ERROR"
	ErrCodeIO    Code = "IO_ERROR"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Path    string // Manifest or source file the error refers to (optional)
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

// WithPath returns a copy of e that refers to path.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
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

// GetPath extracts the path an error refers to, if any.
func GetPath(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err aborts a whole run rather than a single
// manifest or file.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeParse, ErrCodeIO, ErrCodeInvalidManifest:
		return false
	}
	return true
}
