package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
)

// ErrorType classifies a generation failure.
type ErrorType string

const (
	ErrorTypeEndpoint    ErrorType = "endpoint"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeModel       ErrorType = "model"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeMalformed   ErrorType = "malformed_response"
	ErrorTypeUnavailable ErrorType = "unavailable"
	ErrorTypeCanceled    ErrorType = "canceled"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a structured LLM error with classification.
type Error struct {
	Type       ErrorType
	Message    string
	Retryable  bool
	Cause      error
	StatusCode int    // HTTP status code if known
	Provider   string // Provider name if known
	Model      string // Model name if known
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := []string{string(e.Type)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements retry.RetryableError.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new structured LLM error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// errMalformed builds the error returned when a provider answers without usable text.
func errMalformed(provider, model, message string) *Error {
	return &Error{
		Type:     ErrorTypeMalformed,
		Message:  message,
		Provider: provider,
		Model:    model,
	}
}

// statusCode returns the HTTP status carried by an SDK error, or 0.
func statusCode(err error) int {
	var oaAPIErr *openai.APIError
	if errors.As(err, &oaAPIErr) {
		return oaAPIErr.HTTPStatusCode
	}
	var oaReqErr *openai.RequestError
	if errors.As(err, &oaReqErr) {
		return oaReqErr.HTTPStatusCode
	}
	var anReqErr *anthropic.RequestError
	if errors.As(err, &anReqErr) {
		return anReqErr.StatusCode
	}

	// Fall back to the status embedded in the error text.
	errStr := err.Error()
	for _, code := range []int{400, 401, 403, 404, 408, 429, 500, 502, 503, 504, 529} {
		if strings.Contains(errStr, fmt.Sprintf("status code: %d", code)) ||
			strings.Contains(errStr, fmt.Sprintf("HTTP %d", code)) {
			return code
		}
	}
	return 0
}

// ClassifyError categorizes an error and returns a structured Error.
// An error that already is (or wraps) an *Error is returned unchanged.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	classified := classify(err)
	classified.StatusCode = statusCode(err)
	return classified
}

func classify(err error) *Error {
	// The caller gave up; retrying cannot help.
	if errors.Is(err, context.Canceled) {
		return NewError(ErrorTypeCanceled, "request canceled", false, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(ErrorTypeEndpoint, "request timeout", false, err)
	}

	var anAPIErr *anthropic.APIError
	if errors.As(err, &anAPIErr) {
		switch {
		case anAPIErr.IsRateLimitErr():
			return NewError(ErrorTypeRateLimit, "rate limited", true, err)
		case anAPIErr.IsOverloadedErr():
			return NewError(ErrorTypeEndpoint, "provider overloaded", true, err)
		}
	}

	code := statusCode(err)
	lower := strings.ToLower(err.Error())

	switch {
	case code == 401 || code == 403 || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "invalid x-api-key"):
		return NewError(ErrorTypeAuth, "authentication failed", false, err)

	case strings.Contains(lower, "model") &&
		(strings.Contains(lower, "not found") || strings.Contains(lower, "does not exist")):
		return NewError(ErrorTypeModel, "model not found", false, err)

	case code == 404:
		return NewError(ErrorTypeEndpoint, "endpoint not found", false, err)

	case code == 429 || strings.Contains(lower, "rate limit"):
		return NewError(ErrorTypeRateLimit, "rate limited", true, err)

	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "connection reset"):
		return NewError(ErrorTypeEndpoint, "connection failed", true, err)

	case strings.Contains(lower, "timeout") || code == 408:
		return NewError(ErrorTypeEndpoint, "request timeout", true, err)

	case code >= 500 || strings.Contains(lower, "overloaded"):
		return NewError(ErrorTypeEndpoint, "server error", true, err)
	}

	return NewError(ErrorTypeUnknown, "llm error", false, err)
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}
