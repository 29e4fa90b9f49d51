package domain

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so that errors.Is(err, ErrHTTPStatus) holds for any
// HTTP failure regardless of its message or status.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// WithMessage returns a copy carrying a different message and status.
func (e *AppError) WithMessage(message string, statusCode int) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    message,
		StatusCode: statusCode,
		Err:        e.Err,
	}
}

// Pre-defined errors
var (
	// Transport-level failure: DNS, connection refused, timeout, cancelled context.
	ErrTransport = &AppError{
		Code:    "TRANSPORT_ERROR",
		Message: "Request could not be delivered",
	}

	// Non-2xx response from the backend.
	ErrHTTPStatus = &AppError{
		Code:    "HTTP_ERROR",
		Message: "HTTP error",
	}

	// 2xx response whose body carries an explicit error field.
	ErrApplication = &AppError{
		Code:    "APPLICATION_ERROR",
		Message: "Backend reported an error",
	}

	ErrInvalidResponse = &AppError{
		Code:    "INVALID_RESPONSE",
		Message: "Backend response could not be decoded",
	}

	// Camera permission denied or detection engine failed to load.
	ErrCapabilityDenied = &AppError{
		Code:    "CAPABILITY_DENIED",
		Message: "Required capability is unavailable",
	}

	ErrNoActiveSession = &AppError{
		Code:    "NO_ACTIVE_SESSION",
		Message: "No active session",
	}

	ErrNotAuthenticated = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication required",
		StatusCode: 401,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	// A composite operation failed after an earlier step already changed
	// server state (e.g. a user was created but the message was not added).
	ErrPartialWrite = &AppError{
		Code:    "PARTIAL_WRITE",
		Message: "Operation partially applied",
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests",
		StatusCode: 429,
	}

	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}
)

// StatusCode extracts the HTTP status carried by an AppError chain, or 0.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}
