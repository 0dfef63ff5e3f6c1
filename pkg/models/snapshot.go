package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PerformanceSnapshot is one audit of a website: lighthouse timings plus the
// scraped homepage. Timings are in seconds except TotalBlockingTime (milliseconds).
type PerformanceSnapshot struct {
	ID        uuid.UUID `json:"id"`
	WebsiteID uuid.UUID `json:"website_id"`

	LargestContentfulPaint *float64 `json:"largest_contentful_paint,omitempty"`
	CumulativeLayoutShift  *float64 `json:"cumulative_layout_shift,omitempty"`
	FirstContentfulPaint   *float64 `json:"first_contentful_paint,omitempty"`
	SpeedIndex             *float64 `json:"speed_index,omitempty"`
	TimeToInteractive      *float64 `json:"time_to_interactive,omitempty"`
	TotalBlockingTime      *float64 `json:"total_blocking_time,omitempty"`
	PerformanceScore       *float64 `json:"performance_score,omitempty"`

	TotalBrokenLinks *int            `json:"total_broken_links,omitempty"`
	BrokenLinks      json.RawMessage `json:"broken_links,omitempty"`

	RawHTML                 *string         `json:"-"`
	PageTitle               *string         `json:"page_title,omitempty"`
	MetaDescription         *string         `json:"meta_description,omitempty"`
	MetaKeywords            *string         `json:"meta_keywords,omitempty"`
	OGTitle                 *string         `json:"og_title,omitempty"`
	OGDescription           *string         `json:"og_description,omitempty"`
	OGImage                 *string         `json:"og_image,omitempty"`
	SchemaAnalysis          json.RawMessage `json:"schema_analysis,omitempty"`
	HomepageAltTextCoverage *float64        `json:"homepage_alt_text_coverage,omitempty"`
	CTRLossPercent          *float64        `json:"ctr_loss_percent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TrafficSnapshot is one pull of visitor analytics for a website.
type TrafficSnapshot struct {
	ID        uuid.UUID `json:"id"`
	WebsiteID uuid.UUID `json:"website_id"`

	AvgSessionDuration *float64 `json:"avg_session_duration,omitempty"` // seconds
	EngagementRate     *float64 `json:"engagement_rate,omitempty"`
	EngagedSessions    *int64   `json:"engaged_sessions,omitempty"`
	TotalVisitors      *int64   `json:"total_visitors,omitempty"`
	UniqueVisitors     *int64   `json:"unique_visitors,omitempty"`

	NewVsReturning json.RawMessage `json:"new_vs_returning,omitempty"`
	TopCountries   json.RawMessage `json:"top_countries,omitempty"`
	TopDevices     json.RawMessage `json:"top_devices,omitempty"`
	TopSources     json.RawMessage `json:"top_sources,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
