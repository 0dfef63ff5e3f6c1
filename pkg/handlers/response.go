package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/logging"
)

// ApiResponse wraps data in the envelope every JSON endpoint returns.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error codes returned in the "error" field.
const (
	CodeValidation        = "validation_error"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeGenerationFailed  = "generation_failed"
	CodePersistenceFailed = "persistence_failed"
	CodeRequestCanceled   = "request_canceled"
	CodeInternal          = "internal_error"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// errorStatus maps a service error to its HTTP status, error code and the
// message shown to callers. Messages never include the cause.
func errorStatus(err error) (int, string, string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest, CodeValidation, "Invalid request"
	case apperrors.KindAuthorization:
		return http.StatusForbidden, CodeForbidden, "Website not found or not owned by user"
	case apperrors.KindGeneration:
		return http.StatusBadGateway, CodeGenerationFailed, "Report generation failed"
	case apperrors.KindPersistence:
		return http.StatusInternalServerError, CodePersistenceFailed, "Failed to save report"
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, "Report not found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, CodeRequestCanceled, "Request canceled before completion"
	default:
		return http.StatusInternalServerError, CodeInternal, "Internal server error"
	}
}

// writeServiceError logs err and writes the matching error response.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status, code, message := errorStatus(err)

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("error_code", code),
		zap.String("error", logging.SanitizeError(err)),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Info("Request rejected", fields...)
	}

	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
