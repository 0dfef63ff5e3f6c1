package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus tracks pipeline progress for one (user, website) pair.
// Stored in analysis_status with a unique (user_id, website_id) key.
type AnalysisStatus struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	WebsiteID           uuid.UUID       `json:"website_id"`
	CompetitorDetails   json.RawMessage `json:"competitor_details,omitempty"`
	WebsiteAudit        json.RawMessage `json:"website_audit,omitempty"`
	SEOAudit            json.RawMessage `json:"seo_audit,omitempty"`
	RecommendationByCMO *string         `json:"recommendation_by_cmo,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
