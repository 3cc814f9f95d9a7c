package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testServiceName = "experience"

// TestErrorFormatting tests the Error() method behavior per failure shape
func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		error    *Error
		contains []string // Strings that should be present in the error message
	}{
		{
			name:     "code and message only",
			error:    New(CodeFailedToFetch, "network unreachable"),
			contains: []string{"FAILED_TO_FETCH", "network unreachable"},
		},
		{
			name:     "with origin",
			error:    New(CodeAPIError, "unexpected status").WithOrigin(testServiceName, "listExperiences"),
			contains: []string{"API_ERROR", "unexpected status", testServiceName, "listExperiences"},
		},
		{
			name:     "with request and status",
			error:    New(CodeAPIError, "unexpected status").WithRequest("GET", "/v1/experiences").WithStatus(500),
			contains: []string{"GET", "/v1/experiences", "500"},
		},
		{
			name:     "with cause",
			error:    New(CodeAuthError, "refresh failed").WithCause(errors.New("provider session revoked")),
			contains: []string{"AUTH_ERROR", "refresh failed", "provider session revoked"},
		},
		{
			name:     "content type mismatch",
			error:    New(CodeInvalidResponseHeader, "unexpected content type").WithStatus(200),
			contains: []string{"INVALID_RESPONSE_HEADER", "200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.error.Error()
			for _, expected := range tt.contains {
				assert.Contains(t, msg, expected, "Error message should contain: %s", expected)
			}
		})
	}
}

// TestErrorUnwrapping tests Unwrap() and errors.Is/errors.As chaining
func TestErrorUnwrapping(t *testing.T) {
	t.Run("unwraps to cause", func(t *testing.T) {
		underlying := errors.New("connection refused")
		err := New(CodeFailedToFetch, "request failed").WithCause(underlying)

		assert.Equal(t, underlying, err.Unwrap())
		assert.True(t, errors.Is(err, underlying))

		var target *Error
		assert.True(t, errors.As(err, &target))
		assert.Equal(t, CodeFailedToFetch, target.Code)
	})

	t.Run("nil cause unwraps to nil", func(t *testing.T) {
		err := New(CodeAPIError, "no token available")
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped structured error remains inspectable", func(t *testing.T) {
		inner := New(CodeAuthError, "token expired").WithStatus(401)
		wrapped := fmt.Errorf("send: %w", inner)

		assert.True(t, IsAuthError(wrapped))
		assert.Equal(t, 401, StatusOf(wrapped))
	})
}

// TestCodeInspection tests the IsCode/IsAuthError/StatusOf helpers
func TestCodeInspection(t *testing.T) {
	tests := []struct {
		name     string
		error    error
		code     Code
		expected bool
	}{
		{
			name:     "nil error",
			error:    nil,
			code:     CodeAPIError,
			expected: false,
		},
		{
			name:     "matching code",
			error:    New(CodeAPIError, "bad status"),
			code:     CodeAPIError,
			expected: true,
		},
		{
			name:     "non-matching code",
			error:    New(CodeAPIError, "bad status"),
			code:     CodeFailedToFetch,
			expected: false,
		},
		{
			name:     "plain error",
			error:    errors.New("plain"),
			code:     CodeAPIError,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCode(tt.error, tt.code))
		})
	}

	t.Run("StatusOf on plain error", func(t *testing.T) {
		assert.Equal(t, 0, StatusOf(errors.New("plain")))
	})

	t.Run("IsAuthError", func(t *testing.T) {
		assert.True(t, IsAuthError(New(CodeAuthError, "logged out")))
		assert.False(t, IsAuthError(New(CodeAPIError, "bad status")))
	})
}
