package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a pipeline failure.
type ErrorCode string

const (
	// ErrConfiguration means the generation backend cannot even be
	// addressed: missing provider, credential, or selector. Fatal to the
	// request; fallback is not attempted.
	ErrConfiguration ErrorCode = "CONFIGURATION"

	// ErrSchemaInvalid means raw output did not conform to the active
	// schema: unknown kind, missing required prop, out-of-range value.
	ErrSchemaInvalid ErrorCode = "SCHEMA_INVALID"

	// ErrGenerationFailed means the backend call failed, timed out, or
	// returned no candidate.
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"

	// ErrInvalidRequest means the caller-facing contract was violated
	// (empty prompt, malformed request body).
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// Error is the structured error surfaced to callers.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause attaches a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// CodeOf extracts the error code from err, unwrapping as needed.
// Returns "" when err carries no *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
