package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GitHubError
		expected string
	}{
		{
			name: "error with resource",
			err: &GitHubError{
				Type:     ErrorTypeAuth,
				Message:  "invalid token",
				Resource: "repository test/repo",
			},
			expected: "authentication error for repository test/repo: invalid token",
		},
		{
			name: "error without resource",
			err: &GitHubError{
				Type:    ErrorTypeValidation,
				Message: "validation failed",
			},
			expected: "validation error: validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestGitHubError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &GitHubError{Type: ErrorTypeNetwork, Message: "network error", Cause: cause, Retryable: true}

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsRetryable())
	assert.False(t, (&GitHubError{Type: ErrorTypeAuth, Message: "bad token"}).IsRetryable())
}

func TestWrapGitHubError_StatusCodes(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		message         string
		resource        string
		errs            []github.Error
		expectedType    ErrorType
		expectedMessage string
		retryable       bool
	}{
		{
			name:            "unauthorized",
			status:          http.StatusUnauthorized,
			message:         "Bad credentials",
			resource:        "authenticated user",
			expectedType:    ErrorTypeAuth,
			expectedMessage: "Authentication failed",
		},
		{
			name:            "forbidden on reference",
			status:          http.StatusForbidden,
			message:         "Resource not accessible by integration",
			resource:        "reference refs/heads/x in acme/alpha",
			expectedType:    ErrorTypePermission,
			expectedMessage: "requires the repo scope",
		},
		{
			name:            "forbidden by rate limit",
			status:          http.StatusForbidden,
			message:         "API rate limit exceeded for user",
			expectedType:    ErrorTypeRateLimit,
			expectedMessage: "rate limit exceeded",
			retryable:       true,
		},
		{
			name:            "organization not found",
			status:          http.StatusNotFound,
			message:         "Not Found",
			resource:        "organization https://github.com/nope",
			expectedType:    ErrorTypeNotFound,
			expectedMessage: "Organization not found",
		},
		{
			name:            "conflict",
			status:          http.StatusConflict,
			message:         "Git Repository is empty.",
			expectedType:    ErrorTypeConflict,
			expectedMessage: "Resource conflict occurred",
		},
		{
			name:            "validation with field errors",
			status:          http.StatusUnprocessableEntity,
			message:         "Validation Failed",
			errs:            []github.Error{{Field: "ref", Message: "is invalid"}},
			expectedType:    ErrorTypeValidation,
			expectedMessage: "ref: is invalid",
		},
		{
			name:            "server unavailable",
			status:          http.StatusBadGateway,
			expectedType:    ErrorTypeNetwork,
			expectedMessage: "temporarily unavailable",
			retryable:       true,
		},
		{
			name:            "unexpected status",
			status:          http.StatusTeapot,
			message:         "short and stout",
			expectedType:    ErrorTypeUnknown,
			expectedMessage: "short and stout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &github.ErrorResponse{
				Response: &http.Response{StatusCode: tt.status, Status: http.StatusText(tt.status)},
				Message:  tt.message,
				Errors:   tt.errs,
			}

			wrapped := WrapGitHubError(apiErr, tt.resource)
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expectedType, wrapped.Type)
			assert.Contains(t, wrapped.Message, tt.expectedMessage)
			assert.Equal(t, tt.retryable, wrapped.IsRetryable())
			assert.Equal(t, tt.resource, wrapped.Resource)
		})
	}
}

func TestWrapGitHubError_Passthrough(t *testing.T) {
	assert.Nil(t, WrapGitHubError(nil, "anything"))

	original := &GitHubError{Type: ErrorTypeNotFound, Message: "gone"}
	wrapped := WrapGitHubError(fmt.Errorf("context: %w", original), "repository acme/alpha")
	assert.Same(t, original, wrapped)
	assert.Equal(t, "repository acme/alpha", wrapped.Resource)
}

func TestWrapGitHubError_RateLimit(t *testing.T) {
	reset := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rateErr := &github.RateLimitError{
		Rate:     github.Rate{Reset: github.Timestamp{Time: reset}},
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  "API rate limit exceeded",
	}

	wrapped := WrapGitHubError(rateErr, "repositories")
	assert.Equal(t, ErrorTypeRateLimit, wrapped.Type)
	assert.True(t, wrapped.IsRetryable())
	assert.Contains(t, wrapped.Message, "2030")
}

func TestWrapGitHubError_NetworkAndUnknown(t *testing.T) {
	network := WrapGitHubError(errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), "repositories")
	assert.Equal(t, ErrorTypeNetwork, network.Type)
	assert.True(t, network.IsRetryable())

	unknown := WrapGitHubError(errors.New("something odd"), "repositories")
	assert.Equal(t, ErrorTypeUnknown, unknown.Type)
	assert.Equal(t, "something odd", unknown.Message)
	assert.False(t, unknown.IsRetryable())
}

func TestErrorTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeAuth, ErrorTypeOf(&GitHubError{Type: ErrorTypeAuth, Message: "x"}))
	assert.Equal(t, ErrorTypeConflict, ErrorTypeOf(fmt.Errorf("wrapped: %w", &GitHubError{Type: ErrorTypeConflict, Message: "x"})))
	assert.Equal(t, ErrorTypeUnknown, ErrorTypeOf(errors.New("plain")))
}
