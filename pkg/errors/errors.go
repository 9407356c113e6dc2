// Package errors provides structured error types for monolink.
//
// Every failure the tool reports carries a machine-readable [Code]. Codes are
// grouped into families that decide how far an error propagates:
//   - Discovery (DISCOVERY_FAILED, INVALID_GLOB, DUPLICATE_PACKAGE): abort the run
//   - Parse (PARSE_ERROR, INVALID_MANIFEST, INVALID_VERSION, UNPINNABLE_VERSION)
//   - Encoding (INVALID_ENCODING): fail a single artifact
//   - Consistency (OUT_OF_DATE, INCONSISTENT_VERSIONS, WORKSPACE_MISMATCH):
//     accumulated and reported at the end of a run
//   - I/O (IO_ERROR, FILE_NOT_FOUND)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidManifest, "%s: missing name", path)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // Handle parse failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
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
	ErrCodeDiscovery        Code = "DISCOVERY_FAILED"
	ErrCodeInvalidGlob      Code = "INVALID_GLOB"
	ErrCodeDuplicatePackage Code = "DUPLICATE_PACKAGE"

	// Parse errors
	ErrCodeParse             Code = "PARSE_ERROR"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeInvalidVersion    Code = "INVALID_VERSION"
	ErrCodeUnpinnableVersion Code = "UNPINNABLE_VERSION"

	// Encoding errors
	ErrCodeInvalidEncoding Code = "INVALID_ENCODING"

	// Consistency violations
	ErrCodeOutOfDate            Code = "OUT_OF_DATE"
	ErrCodeInconsistentVersions Code = "INCONSISTENT_VERSIONS"
	ErrCodeWorkspaceMismatch    Code = "WORKSPACE_MISMATCH"

	// I/O errors
	ErrCodeIO           Code = "IO_ERROR"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Input errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"

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
// It unwraps the error chain looking for an *Error with a matching code,
// including every branch of errors joined with [errors.Join].
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return Is(x.Unwrap(), code)
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

// IsConsistency reports whether err only describes drift or inconsistent
// declarations, as opposed to a failure to read or write the monorepo.
func IsConsistency(err error) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			if !IsConsistency(inner) {
				return false
			}
		}
		return true
	}
	switch GetCode(err) {
	case ErrCodeOutOfDate, ErrCodeInconsistentVersions, ErrCodeWorkspaceMismatch:
		return true
	}
	return false
}
