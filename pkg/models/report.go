package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cmoonthego/cmo-engine/pkg/jsonutil"
)

// Placeholder values substituted for missing data in the report payload.
const (
	NotAvailable    = "N/A"
	NoneDetected    = "None"
	HeadingNotFound = "Not Found"
	ImagePresent    = "Present"
	ImageMissing    = "Missing"
)

// ReportArtifact is the stored result of one CMO report generation.
// There is at most one per website; regeneration overwrites it.
type ReportArtifact struct {
	ID               uuid.UUID       `json:"id"`
	WebsiteID        uuid.UUID       `json:"website_id"`
	Content          string          `json:"content"`
	RawResponse      json.RawMessage `json:"raw_response"`
	Provider         string          `json:"provider"`
	Model            string          `json:"model"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CMOReportResult is returned to the caller after a successful run.
type CMOReportResult struct {
	RecommendationText string          `json:"recommendation_by_cmo"`
	RawResponse        json.RawMessage `json:"response"`
}

// ReportDocument is the structured report the generator is instructed to emit.
// Field order matches the output schema.
type ReportDocument struct {
	Brand                           ReportBrand               `json:"brand"`
	ExecutiveSummary                string                    `json:"executive_summary"`
	BrandHealthOverview             string                    `json:"brand_health_overview"`
	SWOTAnalysis                    SWOTAnalysis              `json:"swot_analysis"`
	GrowthQuadrantVsCompetitors     GrowthQuadrant            `json:"growth_quadrant_vs_competitors"`
	PriorityFixesBottomFunnel       []PriorityFix             `json:"priority_fixes_bottom_funnel"`
	BrandPositioningMessagingReview string                    `json:"brand_positioning_messaging_review"`
	ChannelBudgetSuggestions        []ChannelBudgetSuggestion `json:"channel_budget_suggestions"`
	CampaignPlanningIdeas           []CampaignIdea            `json:"campaign_planning_ideas"`
}

type ReportBrand struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

type SWOTAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type GrowthQuadrant struct {
	QuadrantType        string               `json:"quadrant_type"`
	CompetitorPositions []CompetitorPosition `json:"competitor_positions"`
}

type CompetitorPosition struct {
	Name      string                  `json:"name"`
	Position  jsonutil.FlexibleString `json:"position"`
	Reasoning string                  `json:"reasoning"`
}

// Sources a bottom-of-funnel fix can be attributed to.
const (
	FixSourceSEO     = "seo"
	FixSourceWebsite = "website"
	FixSourceBoth    = "both"
)

// PriorityFix is one bottom-of-funnel issue. Impact may arrive as a score or a label.
type PriorityFix struct {
	Issue          string                  `json:"issue"`
	Source         string                  `json:"source"`
	Impact         jsonutil.FlexibleString `json:"impact"`
	RecommendedFix string                  `json:"recommended_fix"`
}

type ChannelBudgetSuggestion struct {
	Channel    string                  `json:"channel"`
	Suggestion jsonutil.FlexibleString `json:"suggestion"`
}

type CampaignIdea struct {
	CampaignName   string   `json:"campaign_name"`
	Goal           string   `json:"goal"`
	MessagingTheme string   `json:"messaging_theme"`
	Channels       []string `json:"channels"`
}
