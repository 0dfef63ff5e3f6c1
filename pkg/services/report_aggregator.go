package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/logging"
	"github.com/cmoonthego/cmo-engine/pkg/markup"
	"github.com/cmoonthego/cmo-engine/pkg/models"
	"github.com/cmoonthego/cmo-engine/pkg/repositories"
)

// ReportInputs is everything known about a website when a report is composed.
// Any pointer may be nil: the source had no data or could not be read.
type ReportInputs struct {
	Website      *models.BrandWebsite
	Profile      *models.BrandProfile
	Dashboards   *models.DashboardInsights
	Status       *models.AnalysisStatus
	Performance  *models.PerformanceSnapshot
	Traffic      *models.TrafficSnapshot
	AIVisibility *models.AIVisibility

	// Heading is the first <h1> of the latest scraped homepage, or models.HeadingNotFound.
	Heading string
}

// ReportAggregator gathers report inputs from every data source.
type ReportAggregator interface {
	// Aggregate reads all sources concurrently. A source that fails or has no data
	// is left nil and logged; only cancellation of ctx makes Aggregate fail.
	Aggregate(ctx context.Context, userID, websiteID uuid.UUID) (*ReportInputs, error)
}

type reportAggregator struct {
	brandRepo    repositories.BrandRepository
	snapshotRepo repositories.SnapshotRepository
	derivedRepo  repositories.DerivedOutputRepository
	statusRepo   repositories.AnalysisStatusRepository
	logger       *zap.Logger
}

// NewReportAggregator creates a ReportAggregator.
func NewReportAggregator(
	brandRepo repositories.BrandRepository,
	snapshotRepo repositories.SnapshotRepository,
	derivedRepo repositories.DerivedOutputRepository,
	statusRepo repositories.AnalysisStatusRepository,
	logger *zap.Logger,
) ReportAggregator {
	return &reportAggregator{
		brandRepo:    brandRepo,
		snapshotRepo: snapshotRepo,
		derivedRepo:  derivedRepo,
		statusRepo:   statusRepo,
		logger:       logger.Named("report-aggregator"),
	}
}

var _ ReportAggregator = (*reportAggregator)(nil)

func (a *reportAggregator) Aggregate(ctx context.Context, userID, websiteID uuid.UUID) (*ReportInputs, error) {
	in := &ReportInputs{}

	var g errgroup.Group
	g.Go(fetchInto(ctx, a, "dashboards", websiteID, &in.Dashboards, func(ctx context.Context) (*models.DashboardInsights, error) {
		return a.derivedRepo.LatestDashboards(ctx, websiteID)
	}))
	g.Go(fetchInto(ctx, a, "website", websiteID, &in.Website, func(ctx context.Context) (*models.BrandWebsite, error) {
		return a.brandRepo.GetWebsite(ctx, websiteID)
	}))
	g.Go(fetchInto(ctx, a, "profile", websiteID, &in.Profile, func(ctx context.Context) (*models.BrandProfile, error) {
		return a.brandRepo.GetProfile(ctx, websiteID)
	}))
	g.Go(fetchInto(ctx, a, "analysis_status", websiteID, &in.Status, func(ctx context.Context) (*models.AnalysisStatus, error) {
		return a.statusRepo.Get(ctx, userID, websiteID)
	}))
	g.Go(fetchInto(ctx, a, "performance_snapshot", websiteID, &in.Performance, func(ctx context.Context) (*models.PerformanceSnapshot, error) {
		return a.snapshotRepo.LatestPerformance(ctx, websiteID)
	}))
	g.Go(fetchInto(ctx, a, "traffic_snapshot", websiteID, &in.Traffic, func(ctx context.Context) (*models.TrafficSnapshot, error) {
		return a.snapshotRepo.LatestTraffic(ctx, websiteID)
	}))
	g.Go(fetchInto(ctx, a, "ai_visibility", websiteID, &in.AIVisibility, func(ctx context.Context) (*models.AIVisibility, error) {
		return a.derivedRepo.LatestAIVisibility(ctx, websiteID)
	}))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate report inputs: %w", err)
	}

	in.Heading = models.HeadingNotFound
	if in.Performance != nil && in.Performance.RawHTML != nil {
		in.Heading = markup.FirstHeading(*in.Performance.RawHTML)
	}

	return in, nil
}

// fetchInto returns an errgroup task that stores fn's result in dst.
// Errors other than context cancellation are logged and swallowed.
func fetchInto[T any](
	ctx context.Context,
	a *reportAggregator,
	source string,
	websiteID uuid.UUID,
	dst **T,
	fn func(ctx context.Context) (*T, error),
) func() error {
	return func() error {
		v, err := fn(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			a.logDegradation(source, websiteID, err)
			return nil
		}
		*dst = v
		return nil
	}
}

func (a *reportAggregator) logDegradation(source string, websiteID uuid.UUID, err error) {
	reason := "failed"
	if errors.Is(err, apperrors.ErrNotFound) {
		reason = "missing"
	}
	a.logger.Warn("Report input unavailable, using placeholders",
		zap.String("source", source),
		zap.String("reason", reason),
		zap.String("website_id", websiteID.String()),
		zap.String("error", logging.SanitizeError(err)))
}
