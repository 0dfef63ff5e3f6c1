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

// ReportArtifactRepository stores the single current CMO report per website.
type ReportArtifactRepository interface {
	// Upsert inserts the artifact or overwrites the existing one for the same website.
	// On return artifact carries the stored ID and timestamps.
	Upsert(ctx context.Context, artifact *models.ReportArtifact) error
	GetByWebsite(ctx context.Context, websiteID uuid.UUID) (*models.ReportArtifact, error)
}

type reportArtifactRepository struct {
	db *database.DB
}

// NewReportArtifactRepository creates a new report artifact repository.
func NewReportArtifactRepository(db *database.DB) ReportArtifactRepository {
	return &reportArtifactRepository{db: db}
}

var _ ReportArtifactRepository = (*reportArtifactRepository)(nil)

func (r *reportArtifactRepository) Upsert(ctx context.Context, artifact *models.ReportArtifact) error {
	if artifact.ID == uuid.Nil {
		artifact.ID = uuid.New()
	}
	now := time.Now()

	query := `
		INSERT INTO report_artifacts (
			id, website_id, content, raw_response, provider, model,
			prompt_tokens, completion_tokens, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (website_id) DO UPDATE
		SET content = EXCLUDED.content,
		    raw_response = EXCLUDED.raw_response,
		    provider = EXCLUDED.provider,
		    model = EXCLUDED.model,
		    prompt_tokens = EXCLUDED.prompt_tokens,
		    completion_tokens = EXCLUDED.completion_tokens,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		artifact.ID,
		artifact.WebsiteID,
		artifact.Content,
		[]byte(artifact.RawResponse),
		artifact.Provider,
		artifact.Model,
		artifact.PromptTokens,
		artifact.CompletionTokens,
		now,
	).Scan(&artifact.ID, &artifact.CreatedAt, &artifact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert report artifact: %w", err)
	}
	return nil
}

func (r *reportArtifactRepository) GetByWebsite(ctx context.Context, websiteID uuid.UUID) (*models.ReportArtifact, error) {
	query := `
		SELECT id, website_id, content, raw_response, provider, model,
		       prompt_tokens, completion_tokens, created_at, updated_at
		FROM report_artifacts
		WHERE website_id = $1`

	var a models.ReportArtifact
	var raw []byte
	err := r.db.Conn(ctx).QueryRow(ctx, query, websiteID).Scan(
		&a.ID,
		&a.WebsiteID,
		&a.Content,
		&raw,
		&a.Provider,
		&a.Model,
		&a.PromptTokens,
		&a.CompletionTokens,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report artifact: %w", err)
	}
	a.RawResponse = raw
	return &a, nil
}
