package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a capture error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConfigMissing  ErrorCode = "CONFIG_MISSING"  // 412
	ErrInternal       ErrorCode = "INTERNAL"        // 500
	ErrUnavailable    ErrorCode = "UNAVAILABLE"     // 503
)

// CaptureError represents a structured error with code, status, and details.
type CaptureError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *CaptureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *CaptureError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CaptureError {
	return &CaptureError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing day file or capture.
func NewNotFound(identifier string) *CaptureError {
	return &CaptureError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConfigMissing creates a 412 error when a required setting is unset.
func NewConfigMissing(key string) *CaptureError {
	return &CaptureError{
		Code:    ErrConfigMissing,
		Status:  412,
		Message: fmt.Sprintf("%s is not configured; run `capture config set %s <value>`", key, key),
		Details: map[string]any{"key": key},
	}
}

// NewUnavailable creates a 503 error when the journal cannot be reached on disk.
func NewUnavailable(path string, err error) *CaptureError {
	msg := fmt.Sprintf("journal unavailable: %s", path)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &CaptureError{
		Code:    ErrUnavailable,
		Status:  503,
		Message: msg,
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CaptureError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CaptureError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is (or wraps) a CaptureError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *CaptureError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}
