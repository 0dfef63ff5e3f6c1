package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/auth"
	"github.com/cmoonthego/cmo-engine/pkg/models"
	"github.com/cmoonthego/cmo-engine/pkg/services"
)

// maxRequestBodyBytes bounds POST bodies; the request only carries two IDs.
const maxRequestBodyBytes = 64 << 10

// ============================================================================
// Request/Response Types
// ============================================================================

// GenerateCMOReportRequest for POST /api/cmo-recommendation
type GenerateCMOReportRequest struct {
	UserID    string `json:"user_id"`
	WebsiteID string `json:"website_id"`
}

// StoredCMOReportResponse for GET /api/websites/{wid}/cmo-recommendation
type StoredCMOReportResponse struct {
	WebsiteID           uuid.UUID              `json:"website_id"`
	RecommendationByCMO string                 `json:"recommendation_by_cmo"`
	Report              *models.ReportDocument `json:"report,omitempty"`
	Provider            string                 `json:"provider"`
	Model               string                 `json:"model"`
	PromptTokens        int                    `json:"prompt_tokens"`
	CompletionTokens    int                    `json:"completion_tokens"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// ============================================================================
// Handler
// ============================================================================

// CMOReportHandler handles CMO report HTTP requests.
type CMOReportHandler struct {
	reportService services.CMOReportService
	logger        *zap.Logger
}

// NewCMOReportHandler creates a new CMO report handler.
func NewCMOReportHandler(reportService services.CMOReportService, logger *zap.Logger) *CMOReportHandler {
	return &CMOReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the CMO report routes on the given mux.
func (h *CMOReportHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/cmo-recommendation", authMiddleware.RequireAuth(h.Generate))
	mux.HandleFunc("GET /api/websites/{wid}/cmo-recommendation", authMiddleware.RequireAuth(h.GetLatest))
}

// Generate handles POST /api/cmo-recommendation
func (h *CMOReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateCMOReportRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}

	userID, ok := parseRequiredUUID(req.UserID)
	if !ok {
		h.badRequest(w, "user_id must be a non-empty UUID")
		return
	}
	websiteID, ok := parseRequiredUUID(req.WebsiteID)
	if !ok {
		h.badRequest(w, "website_id must be a non-empty UUID")
		return
	}

	if !h.authorizeActor(w, r, userID) {
		return
	}

	result, err := h.reportService.Generate(r.Context(), userID, websiteID)
	if err != nil {
		writeServiceError(w, h.logger.With(
			zap.String("user_id", userID.String()),
			zap.String("website_id", websiteID.String())), "generate cmo report", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetLatest handles GET /api/websites/{wid}/cmo-recommendation?user_id=
func (h *CMOReportHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := ParseWebsiteID(w, r, h.logger)
	if !ok {
		return
	}
	userID, ok := ParseUserIDQuery(w, r, h.logger)
	if !ok {
		return
	}

	if !h.authorizeActor(w, r, userID) {
		return
	}

	stored, err := h.reportService.GetLatest(r.Context(), userID, websiteID)
	if err != nil {
		writeServiceError(w, h.logger.With(zap.String("website_id", websiteID.String())), "get cmo report", err)
		return
	}

	a := stored.Artifact
	response := StoredCMOReportResponse{
		WebsiteID:           a.WebsiteID,
		RecommendationByCMO: a.Content,
		Report:              stored.Document,
		Provider:            a.Provider,
		Model:               a.Model,
		PromptTokens:        a.PromptTokens,
		CompletionTokens:    a.CompletionTokens,
		UpdatedAt:           a.UpdatedAt,
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// authorizeActor rejects authenticated requests whose token subject is not userID.
func (h *CMOReportHandler) authorizeActor(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	err := auth.AuthorizeActor(r.Context(), userID)
	if err == nil {
		return true
	}
	if errors.Is(err, auth.ErrSubjectMismatch) {
		h.logger.Warn("Token subject does not match user_id",
			zap.String("subject", auth.GetUserIDFromContext(r.Context())),
			zap.String("user_id", userID.String()))
	}
	if err := ErrorResponse(w, http.StatusForbidden, CodeForbidden, "Token does not belong to user_id"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
	return false
}

func (h *CMOReportHandler) badRequest(w http.ResponseWriter, message string) {
	if err := ErrorResponse(w, http.StatusBadRequest, CodeValidation, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
