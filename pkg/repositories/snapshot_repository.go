package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/database"
	"github.com/cmoonthego/cmo-engine/pkg/models"
)

// SnapshotRepository reads the most recent audit measurements for a website.
// Both methods return apperrors.ErrNotFound when no snapshot has been recorded.
type SnapshotRepository interface {
	LatestPerformance(ctx context.Context, websiteID uuid.UUID) (*models.PerformanceSnapshot, error)
	LatestTraffic(ctx context.Context, websiteID uuid.UUID) (*models.TrafficSnapshot, error)
}

type snapshotRepository struct {
	db *database.DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *database.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

var _ SnapshotRepository = (*snapshotRepository)(nil)

func (r *snapshotRepository) LatestPerformance(ctx context.Context, websiteID uuid.UUID) (*models.PerformanceSnapshot, error) {
	query := `
		SELECT id, website_id,
		       largest_contentful_paint, cumulative_layout_shift, first_contentful_paint,
		       speed_index, time_to_interactive, total_blocking_time, performance_score,
		       total_broken_links, broken_links,
		       raw_html, page_title, meta_description, meta_keywords,
		       og_title, og_description, og_image, schema_analysis,
		       homepage_alt_text_coverage, ctr_loss_percent, created_at
		FROM performance_snapshots
		WHERE website_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var s models.PerformanceSnapshot
	var brokenLinks, schemaAnalysis []byte
	err := r.db.Conn(ctx).QueryRow(ctx, query, websiteID).Scan(
		&s.ID,
		&s.WebsiteID,
		&s.LargestContentfulPaint,
		&s.CumulativeLayoutShift,
		&s.FirstContentfulPaint,
		&s.SpeedIndex,
		&s.TimeToInteractive,
		&s.TotalBlockingTime,
		&s.PerformanceScore,
		&s.TotalBrokenLinks,
		&brokenLinks,
		&s.RawHTML,
		&s.PageTitle,
		&s.MetaDescription,
		&s.MetaKeywords,
		&s.OGTitle,
		&s.OGDescription,
		&s.OGImage,
		&schemaAnalysis,
		&s.HomepageAltTextCoverage,
		&s.CTRLossPercent,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest performance snapshot: %w", err)
	}
	s.BrokenLinks = brokenLinks
	s.SchemaAnalysis = schemaAnalysis
	return &s, nil
}

func (r *snapshotRepository) LatestTraffic(ctx context.Context, websiteID uuid.UUID) (*models.TrafficSnapshot, error) {
	query := `
		SELECT id, website_id, avg_session_duration, engagement_rate, engaged_sessions,
		       total_visitors, unique_visitors,
		       new_vs_returning, top_countries, top_devices, top_sources, created_at
		FROM traffic_snapshots
		WHERE website_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var s models.TrafficSnapshot
	var newVsReturning, topCountries, topDevices, topSources []byte
	err := r.db.Conn(ctx).QueryRow(ctx, query, websiteID).Scan(
		&s.ID,
		&s.WebsiteID,
		&s.AvgSessionDuration,
		&s.EngagementRate,
		&s.EngagedSessions,
		&s.TotalVisitors,
		&s.UniqueVisitors,
		&newVsReturning,
		&topCountries,
		&topDevices,
		&topSources,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest traffic snapshot: %w", err)
	}
	s.NewVsReturning = newVsReturning
	s.TopCountries = topCountries
	s.TopDevices = topDevices
	s.TopSources = topSources
	return &s, nil
}
