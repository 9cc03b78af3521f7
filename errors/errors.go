package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError  ErrorType = "VALIDATION_ERROR"
	AbuseError       ErrorType = "ABUSE_DETECTED"
	RateLimitError   ErrorType = "RATE_LIMITED"
	PersistenceError ErrorType = "PERSISTENCE_ERROR"
	ProviderError    ErrorType = "PROVIDER_ERROR"
	NotFoundError    ErrorType = "NOT_FOUND"
	ServerError      ErrorType = "SERVER_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
	// RetryAfter holds the suggested wait in seconds for rate limit errors.
	RetryAfter int `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// AbuseDetected reports a honeypot or challenge failure. The message is kept
// intentionally vague so automated senders learn nothing about detection.
func AbuseDetected(detail string) *AppError {
	return &AppError{
		Type:       AbuseError,
		Message:    "reCAPTCHA validation failed",
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfterSeconds,
	}
}

// NewPersistenceError wraps a CMS failure. The submission was not recorded,
// so this must surface to the caller.
func NewPersistenceError(err error) *AppError {
	return &AppError{
		Type:       PersistenceError,
		Message:    "Failed to save message",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func NewProviderError(err error, message string) *AppError {
	return &AppError{
		Type:       ProviderError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, AbuseError:
		return http.StatusBadRequest
	case RateLimitError:
		return http.StatusTooManyRequests
	case NotFoundError:
		return http.StatusNotFound
	case PersistenceError, ProviderError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
