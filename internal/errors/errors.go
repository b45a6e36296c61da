package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInvalidImage     ErrorType = "invalid_image"
	ErrorTypeNotTrained       ErrorType = "not_trained"
	ErrorTypeModelLoad        ErrorType = "model_load"
	ErrorTypeCacheUnavailable ErrorType = "cache_unavailable"
	ErrorTypeTimeout          ErrorType = "timeout"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeInternal         ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewInvalidImageError marks undecodable image bytes. Surfaced to the
// caller as a client error and never cached.
func NewInvalidImageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidImage,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNotTrainedError marks predict/save calls on an untrained model.
func NewNotTrainedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotTrained,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewModelLoadError marks a missing artifact or a schema mismatch on load.
func NewModelLoadError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeModelLoad,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewCacheError marks an unreachable cache backend. Recovered locally,
// never surfaced to callers.
func NewCacheError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeCacheUnavailable,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewTimeoutError marks a processing timeout. Retryable from the caller's
// point of view; nothing is cached on timeout.
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
