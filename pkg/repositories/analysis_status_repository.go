package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/database"
	"github.com/cmoonthego/cmo-engine/pkg/models"
)

// AnalysisStatusRepository manages the per-(user, website) status record.
type AnalysisStatusRepository interface {
	Get(ctx context.Context, userID, websiteID uuid.UUID) (*models.AnalysisStatus, error)
	// UpsertRecommendation creates the record if absent, otherwise replaces
	// recommendation_by_cmo and refreshes updated_at. Other columns are untouched.
	UpsertRecommendation(ctx context.Context, userID, websiteID uuid.UUID, recommendation string) error
}

type analysisStatusRepository struct {
	db *database.DB
}

// NewAnalysisStatusRepository creates a new analysis status repository.
func NewAnalysisStatusRepository(db *database.DB) AnalysisStatusRepository {
	return &analysisStatusRepository{db: db}
}

var _ AnalysisStatusRepository = (*analysisStatusRepository)(nil)

func (r *analysisStatusRepository) Get(ctx context.Context, userID, websiteID uuid.UUID) (*models.AnalysisStatus, error) {
	query := `
		SELECT id, user_id, website_id, competitor_details, website_audit, seo_audit,
		       recommendation_by_cmo, created_at, updated_at
		FROM analysis_status
		WHERE user_id = $1 AND website_id = $2`

	var s models.AnalysisStatus
	var competitorDetails, websiteAudit, seoAudit []byte
	err := r.db.Conn(ctx).QueryRow(ctx, query, userID, websiteID).Scan(
		&s.ID,
		&s.UserID,
		&s.WebsiteID,
		&competitorDetails,
		&websiteAudit,
		&seoAudit,
		&s.RecommendationByCMO,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis status: %w", err)
	}
	s.CompetitorDetails = competitorDetails
	s.WebsiteAudit = websiteAudit
	s.SEOAudit = seoAudit
	return &s, nil
}

func (r *analysisStatusRepository) UpsertRecommendation(ctx context.Context, userID, websiteID uuid.UUID, recommendation string) error {
	now := time.Now()
	query := `
		INSERT INTO analysis_status (id, user_id, website_id, recommendation_by_cmo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, website_id) DO UPDATE
		SET recommendation_by_cmo = EXCLUDED.recommendation_by_cmo,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Conn(ctx).Exec(ctx, query, uuid.New(), userID, websiteID, recommendation, now)
	if err != nil {
		return fmt.Errorf("failed to upsert cmo recommendation: %w", err)
	}
	return nil
}
