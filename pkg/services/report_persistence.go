package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/database"
	"github.com/cmoonthego/cmo-engine/pkg/llm"
	"github.com/cmoonthego/cmo-engine/pkg/logging"
	"github.com/cmoonthego/cmo-engine/pkg/models"
	"github.com/cmoonthego/cmo-engine/pkg/repositories"
)

// ReportPersister stores a generated report.
type ReportPersister interface {
	// Persist upserts the website's report artifact and the user's recommendation
	// in one transaction. Failures are apperrors.KindPersistence errors.
	Persist(ctx context.Context, userID, websiteID uuid.UUID, gen *llm.Generation) (*models.ReportArtifact, error)
}

type reportPersister struct {
	tx           database.Transactor
	artifactRepo repositories.ReportArtifactRepository
	statusRepo   repositories.AnalysisStatusRepository
	logger       *zap.Logger
}

// NewReportPersister creates a ReportPersister.
func NewReportPersister(
	tx database.Transactor,
	artifactRepo repositories.ReportArtifactRepository,
	statusRepo repositories.AnalysisStatusRepository,
	logger *zap.Logger,
) ReportPersister {
	return &reportPersister{
		tx:           tx,
		artifactRepo: artifactRepo,
		statusRepo:   statusRepo,
		logger:       logger.Named("report-persister"),
	}
}

var _ ReportPersister = (*reportPersister)(nil)

func (p *reportPersister) Persist(ctx context.Context, userID, websiteID uuid.UUID, gen *llm.Generation) (*models.ReportArtifact, error) {
	artifact := &models.ReportArtifact{
		WebsiteID:        websiteID,
		Content:          gen.Content,
		RawResponse:      gen.RawResponse,
		Provider:         gen.Provider,
		Model:            gen.Model,
		PromptTokens:     gen.PromptTokens,
		CompletionTokens: gen.CompletionTokens,
	}

	// Writers for the same website are serialized so the artifact and the
	// recommendation always come from the same generation.
	err := p.tx.InTx(ctx, websiteID.String(), func(ctx context.Context) error {
		if err := p.artifactRepo.Upsert(ctx, artifact); err != nil {
			return err
		}
		return p.statusRepo.UpsertRecommendation(ctx, userID, websiteID, gen.Content)
	})
	if err != nil {
		p.logger.Error("Failed to persist CMO report",
			zap.String("website_id", websiteID.String()),
			zap.String("error", logging.SanitizeError(err)))
		return nil, apperrors.E(apperrors.KindPersistence, "persist cmo report", err)
	}

	p.logger.Info("Persisted CMO report",
		zap.String("website_id", websiteID.String()),
		zap.String("artifact_id", artifact.ID.String()))
	return artifact, nil
}
