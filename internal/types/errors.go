package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for dataloader errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_MISSING_KEY       ErrorCode = "CONFIG_MISSING_KEY"
)

// Source adapter error codes
const (
	SOURCE_NOT_FOUND   ErrorCode = "SOURCE_NOT_FOUND"
	SOURCE_READ_FAILED ErrorCode = "SOURCE_READ_FAILED"
)

// Extraction error codes
const (
	EXTRACT_EMPTY_INPUT   ErrorCode = "EXTRACT_EMPTY_INPUT"
	EXTRACT_CALL_FAILED   ErrorCode = "EXTRACT_CALL_FAILED"
	EXTRACT_PARSE_FAILED  ErrorCode = "EXTRACT_PARSE_FAILED"
	EXTRACT_NO_ENTITIES   ErrorCode = "EXTRACT_NO_ENTITIES"
)

// History store error codes
const (
	HISTORY_OPEN_FAILED  ErrorCode = "HISTORY_OPEN_FAILED"
	HISTORY_WRITE_FAILED ErrorCode = "HISTORY_WRITE_FAILED"
	HISTORY_QUERY_FAILED ErrorCode = "HISTORY_QUERY_FAILED"
)

// LoaderError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints for
// error handling logic.
type LoaderError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *LoaderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *LoaderError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *LoaderError) Is(target error) bool {
	var loaderErr *LoaderError
	if errors.As(target, &loaderErr) {
		return e.Code == loaderErr.Code
	}
	return false
}

// NewError creates a new non-retryable LoaderError with the given code and message.
func NewError(code ErrorCode, message string) *LoaderError {
	return &LoaderError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable LoaderError with the given code
// and message. Use this for transient errors that may succeed on retry.
func NewRetryableError(code ErrorCode, message string) *LoaderError {
	return &LoaderError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable LoaderError that wraps an existing
// error. The wrapped error is accessible via Unwrap().
func WrapError(code ErrorCode, message string, cause error) *LoaderError {
	return &LoaderError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// WrapRetryableError creates a retryable LoaderError wrapping an existing
// error. Use for transient failures that may succeed on retry.
func WrapRetryableError(code ErrorCode, message string, cause error) *LoaderError {
	return &LoaderError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// IsRetryable reports whether err carries a retryable LoaderError.
func IsRetryable(err error) bool {
	var loaderErr *LoaderError
	if errors.As(err, &loaderErr) {
		return loaderErr.Retryable
	}
	return false
}
