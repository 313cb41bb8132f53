// Package errors provides structured error types for modbump.
//
// Errors carry a machine-readable code alongside a human-readable
// message, so the CLI can report failures consistently and tests can
// assert on categories instead of message text.
//
//	err := errors.New(errors.ErrCodeMalformedIdentifier, "bad identifier %q", s)
//	if errors.Is(err, errors.ErrCodeMalformedIdentifier) {
//	    // handle parse failure
//	}
//
// Wrapped causes remain reachable through the standard library's
// errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure categories modbump distinguishes.
const (
	// ErrCodeMalformedIdentifier marks a dependency string that does not
	// split into exactly namespace-name-version.
	ErrCodeMalformedIdentifier Code = "MALFORMED_IDENTIFIER"

	// ErrCodeLookupFailed marks a registry lookup that did not produce a
	// latest version for a package.
	ErrCodeLookupFailed Code = "LOOKUP_FAILED"

	// ErrCodeNotFound marks a package the registry does not know.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeNetwork marks transport failures and non-success HTTP statuses.
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// ErrCodeInvalidManifest marks a manifest document the tool cannot use.
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// ErrCodeInvalidInput marks bad CLI or configuration input.
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

// Is reports whether any error in err's chain carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
		if err == nil {
			return false
		}
	}
	return false
}

// GetCode returns the code of the outermost structured error in err's
// chain, or an empty Code if err carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
