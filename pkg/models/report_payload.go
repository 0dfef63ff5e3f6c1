package models

// ReportPayload is the data block sent to the generator alongside the system message.
// Every field is populated: values that could not be retrieved carry a placeholder
// (NotAvailable, NoneDetected, HeadingNotFound) instead of being omitted.
// Fields typed any hold either the measured value or a placeholder string.
type ReportPayload struct {
	Analytics            AnalyticsSection     `json:"analytics"`
	WebsiteAudit         WebsiteAuditSection  `json:"website_audit"`
	Traffic              TrafficSection       `json:"traffic"`
	OnPageOptimization   OnPageSection        `json:"onpage_optimization"`
	TechnicalSEO         TechnicalSEOSection  `json:"technical_seo"`
	Geo                  GeoSection           `json:"geo"`
	CompetitorDetails    any                  `json:"competitor_details"`
	CompetitorComparison any                  `json:"competitor_comparison"`
	PriorInsights        PriorInsightsSection `json:"prior_insights"`
	StatusAudits         StatusAuditsSection  `json:"status_audits"`
}

type AnalyticsSection struct {
	RevenueLossDefinition string `json:"revenue_loss_definition"`
	RevenueLossPercent    any    `json:"revenue_loss_percent"`
	CTRLossPercent        any    `json:"ctr_loss_percent"`
}

type WebsiteAuditSection struct {
	LCP              any `json:"lcp"`
	CLS              any `json:"cls"`
	FCP              any `json:"fcp"`
	SpeedIndex       any `json:"speed_index"`
	TTI              any `json:"tti"`
	TBT              any `json:"tbt"`
	PerformanceScore any `json:"performance_score"`
}

type TrafficSection struct {
	AvgSessionDurationSeconds any `json:"avg_session_duration_in_seconds"`
	EngagementRate            any `json:"engagement_rate"`
	EngagedSessions           any `json:"engaged_sessions"`
	TotalVisitors             any `json:"total_visitors"`
	UniqueVisitors            any `json:"unique_visitors"`
	NewVsReturning            any `json:"new_vs_returning"`
	TopCountries              any `json:"top_countries"`
	TopDevices                any `json:"top_devices"`
}

type OnPageSection struct {
	Title                   any          `json:"title"`
	Description             any          `json:"description"`
	Keywords                any          `json:"keywords"`
	H1                      string       `json:"h1"`
	OG                      OpenGraphTag `json:"og"`
	HomepageAltTextCoverage any          `json:"homepage_alt_text_coverage"`
}

type OpenGraphTag struct {
	Title       any    `json:"title"`
	Description any    `json:"description"`
	Image       string `json:"image"`
}

type TechnicalSEOSection struct {
	Schema          any `json:"schema"`
	NoOfBrokenLinks any `json:"no_of_broken_links"`
	BrokenLinks     any `json:"broken_links"`
}

type GeoSection struct {
	Schema         any `json:"schema"`
	AIVisibility   any `json:"ai_discoverability"`
	TrafficSources any `json:"traffic_sources"`
}

// PriorInsightsSection carries the earlier dashboard recommendations.
type PriorInsightsSection struct {
	WebsiteAnalytics any `json:"website_analytics"`
	SocialMedia      any `json:"social_media"`
}

type StatusAuditsSection struct {
	WebsiteAudit any `json:"website_audit"`
	SEOAudit     any `json:"seo_audit"`
}
