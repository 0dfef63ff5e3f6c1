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

// DerivedOutputRepository reads outputs of earlier analysis stages. It never writes.
type DerivedOutputRepository interface {
	// LatestDashboards returns the dashboard recommendations of the newest derived output.
	LatestDashboards(ctx context.Context, websiteID uuid.UUID) (*models.DashboardInsights, error)
	// LatestAIVisibility returns the newest derived output that carries a geo_llm assessment.
	LatestAIVisibility(ctx context.Context, websiteID uuid.UUID) (*models.AIVisibility, error)
}

type derivedOutputRepository struct {
	db *database.DB
}

// NewDerivedOutputRepository creates a new derived output repository.
func NewDerivedOutputRepository(db *database.DB) DerivedOutputRepository {
	return &derivedOutputRepository{db: db}
}

var _ DerivedOutputRepository = (*derivedOutputRepository)(nil)

func (r *derivedOutputRepository) LatestDashboards(ctx context.Context, websiteID uuid.UUID) (*models.DashboardInsights, error) {
	query := `
		SELECT dashboard1, dashboard2, dashboard3
		FROM derived_outputs
		WHERE website_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var d models.DashboardInsights
	err := r.db.Conn(ctx).QueryRow(ctx, query, websiteID).Scan(
		&d.WebsiteAnalytics,
		&d.SocialMedia,
		&d.CompetitorAnalysis,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dashboard insights: %w", err)
	}
	return &d, nil
}

func (r *derivedOutputRepository) LatestAIVisibility(ctx context.Context, websiteID uuid.UUID) (*models.AIVisibility, error) {
	query := `
		SELECT website_id, geo_llm, created_at
		FROM derived_outputs
		WHERE website_id = $1 AND geo_llm IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1`

	var v models.AIVisibility
	err := r.db.Conn(ctx).QueryRow(ctx, query, websiteID).Scan(&v.WebsiteID, &v.GeoLLM, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ai visibility: %w", err)
	}
	return &v, nil
}
