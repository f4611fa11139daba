package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is a business-rule or field violation. It is recoverable by
// user correction and normally travels inside a validation result rather than
// as a returned error; only hard preconditions (e.g. order assembly with no
// billing address) return it directly.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError creates a ValidationError for a specific field.
func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}

// ConfigurationError means a required feature is disabled or misconfigured at
// the system level. Operator action is required; user retries will not help.
type ConfigurationError struct {
	Feature string `json:"feature"`
	Message string `json:"message"`
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Feature, e.Message)
}

// APIError is a failed backend call. StatusCode carries the HTTP
// classification so the transport layer can decide on retries.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend returned %d: %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether the transport layer may retry the call.
// 5xx responses and unclassified transport failures are retryable, 4xx are not.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
}

// NewAPIError creates an APIError with the given status classification.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

// TimeoutError is an explicit suspension-point timeout on a backend call.
// Always retryable by the transport layer.
type TimeoutError struct {
	Op  string `json:"op"`
	Err error  `json:"-"`
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s timed out", e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient failure the transport layer
// may retry. Validation and configuration errors are never retryable.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
