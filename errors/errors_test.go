package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ValidationError, "invalid input", "field required")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "field required", err.Detail)
	assert.Equal(t, 400, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, PersistenceError, "cms call failed")

	assert.Equal(t, PersistenceError, wrappedErr.Type)
	assert.Equal(t, "cms call failed", wrappedErr.Message)
	assert.Equal(t, originalErr.Error(), wrappedErr.Detail)
	assert.Equal(t, 500, wrappedErr.HTTPStatus)
	assert.Equal(t, originalErr, wrappedErr.Raw)
}

func TestValidationFailed(t *testing.T) {
	err := ValidationFailed("Invalid email format", "shape check failed")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "Invalid email format", err.Message)
	assert.Equal(t, "shape check failed", err.Detail)
	assert.Equal(t, 400, err.HTTPStatus)
}

func TestAbuseDetected(t *testing.T) {
	err := AbuseDetected("score below threshold")
	assert.Equal(t, AbuseError, err.Type)
	// The message must stay vague regardless of the internal detail.
	assert.Equal(t, "reCAPTCHA validation failed", err.Message)
	assert.Equal(t, "score below threshold", err.Detail)
	assert.Equal(t, 400, err.HTTPStatus)
}

func TestRateLimitExceeded(t *testing.T) {
	err := RateLimitExceeded("Too many requests. Please try again later.", 1800)
	assert.Equal(t, RateLimitError, err.Type)
	assert.Equal(t, 429, err.HTTPStatus)
	assert.Equal(t, 1800, err.RetryAfter)
}

func TestNewPersistenceError(t *testing.T) {
	originalErr := fmt.Errorf("cms returned status 500")
	err := NewPersistenceError(originalErr)
	assert.Equal(t, PersistenceError, err.Type)
	assert.Equal(t, "Failed to save message", err.Message)
	assert.Equal(t, 500, err.HTTPStatus)
	assert.Equal(t, originalErr, err.Raw)
	assert.Equal(t, originalErr, err.Unwrap())
}

func TestNewProviderError(t *testing.T) {
	originalErr := fmt.Errorf("stripe: card_declined")
	err := NewProviderError(originalErr, "Payment failed")
	assert.Equal(t, ProviderError, err.Type)
	assert.Equal(t, "Payment failed", err.Message)
	assert.Equal(t, 500, err.HTTPStatus)
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "with detail",
			err: &AppError{
				Type:    ValidationError,
				Message: "invalid input",
				Detail:  "field required",
			},
			expected: "VALIDATION_ERROR: invalid input (field required)",
		},
		{
			name: "without detail",
			err: &AppError{
				Type:    RateLimitError,
				Message: "slow down",
			},
			expected: "RATE_LIMITED: slow down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestGetHTTPStatus_Defaults(t *testing.T) {
	assert.Equal(t, 400, New(AbuseError, "nope", "").GetHTTPStatus())
	assert.Equal(t, 429, New(RateLimitError, "nope", "").GetHTTPStatus())
	assert.Equal(t, 404, NotFound("Collection", "festival").GetHTTPStatus())
	assert.Equal(t, 500, InternalServerError("boom").GetHTTPStatus())
}
