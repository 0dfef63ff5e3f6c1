package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardInsights are the recommendations produced by the earlier dashboards.
type DashboardInsights struct {
	WebsiteAnalytics   *string `json:"website_analytics,omitempty"`   // dashboard1
	SocialMedia        *string `json:"social_media,omitempty"`        // dashboard2
	CompetitorAnalysis *string `json:"competitor_analysis,omitempty"` // dashboard3
}

// AIVisibility is the most recent generative-engine discoverability assessment.
type AIVisibility struct {
	WebsiteID uuid.UUID `json:"website_id"`
	GeoLLM    string    `json:"geo_llm"`
	CreatedAt time.Time `json:"created_at"`
}
