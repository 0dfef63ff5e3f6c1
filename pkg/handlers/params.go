package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseWebsiteID extracts and validates the website ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: wid
func ParseWebsiteID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return writeIfInvalid(w, r.PathValue("wid"), "website_id", logger)
}

// ParseUserIDQuery extracts and validates the user_id query parameter.
func ParseUserIDQuery(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return writeIfInvalid(w, r.URL.Query().Get("user_id"), "user_id", logger)
}

// parseRequiredUUID parses a required, non-nil UUID.
func parseRequiredUUID(value string) (uuid.UUID, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeIfInvalid(w http.ResponseWriter, value, field string, logger *zap.Logger) (uuid.UUID, bool) {
	id, ok := parseRequiredUUID(value)
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, CodeValidation, field+" must be a non-empty UUID"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
