package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmoonthego/cmo-engine/pkg/llm"
	"github.com/cmoonthego/cmo-engine/pkg/models"
	"github.com/cmoonthego/cmo-engine/pkg/prompts"
)

// ReportComposer turns aggregated inputs into a generation request.
type ReportComposer struct {
	temperature float64
	maxTokens   int
	now         func() time.Time
}

// NewReportComposer creates a ReportComposer. now supplies the report date;
// nil means time.Now.
func NewReportComposer(temperature float64, maxTokens int, now func() time.Time) *ReportComposer {
	if now == nil {
		now = time.Now
	}
	return &ReportComposer{
		temperature: temperature,
		maxTokens:   maxTokens,
		now:         now,
	}
}

// Compose builds the system message from the brand profile and the user
// message from the report payload.
func (c *ReportComposer) Compose(in *ReportInputs) (*llm.GenerationRequest, error) {
	payload, err := json.MarshalIndent(BuildReportPayload(in), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}

	return &llm.GenerationRequest{
		SystemMessage: prompts.BuildCMOReportSystemPrompt(brandContext(in), c.now()),
		Prompt:        string(payload),
		Temperature:   c.temperature,
		MaxTokens:     c.maxTokens,
	}, nil
}

func brandContext(in *ReportInputs) prompts.BrandContext {
	var bc prompts.BrandContext
	if in.Website != nil {
		bc.Website = in.Website.WebsiteURL
	}
	if p := in.Profile; p != nil {
		bc.Industry = deref(p.Industry)
		bc.RegionOfOperation = deref(p.RegionOfOperation)
		bc.TargetLocation = deref(p.TargetLocation)
		bc.TargetAudience = deref(p.TargetAudience)
		bc.PrimaryOffering = deref(p.PrimaryOffering)
		bc.USP = deref(p.USP)
	}
	return bc
}

// BuildReportPayload maps report inputs onto the payload sent to the generator.
// Every missing value is replaced by a placeholder.
func BuildReportPayload(in *ReportInputs) *models.ReportPayload {
	perf := in.Performance
	if perf == nil {
		perf = &models.PerformanceSnapshot{}
	}
	traffic := in.Traffic
	if traffic == nil {
		traffic = &models.TrafficSnapshot{}
	}
	dash := in.Dashboards
	if dash == nil {
		dash = &models.DashboardInsights{}
	}
	status := in.Status
	if status == nil {
		status = &models.AnalysisStatus{}
	}

	var revenueLoss any = models.NotAvailable
	if loss, ok := RevenueLossPercent(perf.LargestContentfulPaint, perf.TotalBlockingTime, perf.CumulativeLayoutShift); ok {
		revenueLoss = roundTo(loss, 2)
	}

	var aiVisibility any = models.NoneDetected
	if in.AIVisibility != nil && strings.TrimSpace(in.AIVisibility.GeoLLM) != "" {
		aiVisibility = in.AIVisibility.GeoLLM
	}

	heading := in.Heading
	if heading == "" {
		heading = models.HeadingNotFound
	}

	ogImage := models.ImageMissing
	if strings.TrimSpace(deref(perf.OGImage)) != "" {
		ogImage = models.ImagePresent
	}

	schema := rawOr(perf.SchemaAnalysis, models.NoneDetected)

	return &models.ReportPayload{
		Analytics: models.AnalyticsSection{
			RevenueLossDefinition: prompts.RevenueLossDefinition,
			RevenueLossPercent:    revenueLoss,
			CTRLossPercent:        floatOr(perf.CTRLossPercent),
		},
		WebsiteAudit: models.WebsiteAuditSection{
			LCP:              floatOr(perf.LargestContentfulPaint),
			CLS:              floatOr(perf.CumulativeLayoutShift),
			FCP:              floatOr(perf.FirstContentfulPaint),
			SpeedIndex:       floatOr(perf.SpeedIndex),
			TTI:              floatOr(perf.TimeToInteractive),
			TBT:              floatOr(perf.TotalBlockingTime),
			PerformanceScore: floatOr(perf.PerformanceScore),
		},
		Traffic: models.TrafficSection{
			AvgSessionDurationSeconds: floatOr(traffic.AvgSessionDuration),
			EngagementRate:            floatOr(traffic.EngagementRate),
			EngagedSessions:           int64Or(traffic.EngagedSessions),
			TotalVisitors:             int64Or(traffic.TotalVisitors),
			UniqueVisitors:            int64Or(traffic.UniqueVisitors),
			NewVsReturning:            rawOr(traffic.NewVsReturning, models.NotAvailable),
			TopCountries:              rawOr(traffic.TopCountries, models.NotAvailable),
			TopDevices:                rawOr(traffic.TopDevices, models.NotAvailable),
		},
		OnPageOptimization: models.OnPageSection{
			Title:       stringOr(perf.PageTitle),
			Description: stringOr(perf.MetaDescription),
			Keywords:    stringOr(perf.MetaKeywords),
			H1:          heading,
			OG: models.OpenGraphTag{
				Title:       stringOr(perf.OGTitle),
				Description: stringOr(perf.OGDescription),
				Image:       ogImage,
			},
			HomepageAltTextCoverage: floatOr(perf.HomepageAltTextCoverage),
		},
		TechnicalSEO: models.TechnicalSEOSection{
			Schema:          schema,
			NoOfBrokenLinks: intOr(perf.TotalBrokenLinks),
			BrokenLinks:     rawOr(perf.BrokenLinks, models.NotAvailable),
		},
		Geo: models.GeoSection{
			Schema:         schema,
			AIVisibility:   aiVisibility,
			TrafficSources: rawOr(traffic.TopSources, models.NotAvailable),
		},
		CompetitorDetails:    rawOr(status.CompetitorDetails, models.NotAvailable),
		CompetitorComparison: stringOr(dash.CompetitorAnalysis),
		PriorInsights: models.PriorInsightsSection{
			WebsiteAnalytics: stringOr(dash.WebsiteAnalytics),
			SocialMedia:      stringOr(dash.SocialMedia),
		},
		StatusAudits: models.StatusAuditsSection{
			WebsiteAudit: rawOr(status.WebsiteAudit, models.NotAvailable),
			SEOAudit:     rawOr(status.SEOAudit, models.NotAvailable),
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringOr(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return models.NotAvailable
	}
	return *s
}

func floatOr(v *float64) any {
	if v == nil {
		return models.NotAvailable
	}
	return *v
}

func intOr(v *int) any {
	if v == nil {
		return models.NotAvailable
	}
	return *v
}

func int64Or(v *int64) any {
	if v == nil {
		return models.NotAvailable
	}
	return *v
}

// rawOr returns raw unless it is empty or JSON null.
func rawOr(raw json.RawMessage, placeholder string) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return placeholder
	}
	return raw
}
