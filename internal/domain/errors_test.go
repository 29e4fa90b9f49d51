package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrNoActiveSession,
			expected: "No active session",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
		{
			name:     "http error keeps backend message verbatim",
			appErr:   ErrHTTPStatus.WithMessage("not found", 404),
			expected: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	if got := ErrNoActiveSession.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("connection refused")
	newErr := ErrTransport.WithError(underlying)

	if newErr.Code != ErrTransport.Code {
		t.Errorf("Code = %v, want %v", newErr.Code, ErrTransport.Code)
	}

	if newErr.Err != underlying {
		t.Errorf("Err = %v, want %v", newErr.Err, underlying)
	}

	if !errors.Is(newErr, underlying) {
		t.Errorf("errors.Is should return true for wrapped error")
	}
}

func TestAppError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("get user: %w", ErrHTTPStatus.WithMessage("user missing", 404))

	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("errors.Is should match on code through wrapping")
	}
	if errors.Is(err, ErrApplication) {
		t.Errorf("errors.Is should not match a different code")
	}
	if got := StatusCode(err); got != 404 {
		t.Errorf("StatusCode() = %d, want 404", got)
	}
	if got := StatusCode(errors.New("plain")); got != 0 {
		t.Errorf("StatusCode() = %d, want 0", got)
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *AppError
		code       string
		statusCode int
	}{
		{ErrTransport, "TRANSPORT_ERROR", 0},
		{ErrHTTPStatus, "HTTP_ERROR", 0},
		{ErrApplication, "APPLICATION_ERROR", 0},
		{ErrInvalidResponse, "INVALID_RESPONSE", 0},
		{ErrCapabilityDenied, "CAPABILITY_DENIED", 0},
		{ErrNoActiveSession, "NO_ACTIVE_SESSION", 0},
		{ErrNotAuthenticated, "UNAUTHORIZED", 401},
		{ErrValidationFailed, "VALIDATION_FAILED", 422},
		{ErrPartialWrite, "PARTIAL_WRITE", 0},
		{ErrNotFound, "NOT_FOUND", 404},
		{ErrInternal, "INTERNAL_ERROR", 500},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %v, want %v", tt.err.StatusCode, tt.statusCode)
			}
		})
	}
}
