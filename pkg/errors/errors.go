// Package errors provides structured error types for the censusacs library.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP gateway
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure classes of an ACS query:
//   - INVALID_ARGUMENT: a caller-supplied parameter violates a contract
//   - UNSUPPORTED_YEAR: the Bureau never published the requested product
//   - CONFIGURATION_ERROR: the API credential (or other setting) is missing or invalid
//   - FETCH_ERROR: the request failed after all retry attempts
//
// Validation, year and configuration errors are always raised before any
// network activity and are never retried.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "unknown geography %q", geo)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetch, lastErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller errors, raised before any request is made
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeUnsupportedYear Code = "UNSUPPORTED_YEAR"
	ErrCodeConfiguration   Code = "CONFIGURATION_ERROR"

	// Transport errors
	ErrCodeFetch       Code = "FETCH_ERROR"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

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
// It unwraps the error chain looking for an *Error with a matching code.
// Only the outermost *Error is consulted, so a FETCH_ERROR wrapping a
// NETWORK_ERROR reports FETCH_ERROR.
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

// RateLimitedError provides additional information for HTTP 429 responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}

// RetryAfterDelay returns the wait the server asked for, or zero.
func (e *RateLimitedError) RetryAfterDelay() time.Duration {
	return time.Duration(e.RetryAfter) * time.Second
}
