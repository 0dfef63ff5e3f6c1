package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/llm"
	"github.com/cmoonthego/cmo-engine/pkg/logging"
	"github.com/cmoonthego/cmo-engine/pkg/models"
	"github.com/cmoonthego/cmo-engine/pkg/repositories"
)

// StoredReport is the latest persisted report for a website.
type StoredReport struct {
	Artifact *models.ReportArtifact
	// Document is the parsed artifact content, nil when the content is not a
	// valid report object.
	Document *models.ReportDocument
}

// CMOReportService runs the CMO report pipeline.
type CMOReportService interface {
	// Generate verifies ownership, gathers inputs, calls the generator once and
	// persists the result. Errors carry an apperrors.Kind.
	Generate(ctx context.Context, userID, websiteID uuid.UUID) (*models.CMOReportResult, error)

	// GetLatest returns the persisted report after verifying ownership.
	// Returns apperrors.ErrNotFound when no report has been generated yet.
	GetLatest(ctx context.Context, userID, websiteID uuid.UUID) (*StoredReport, error)
}

type cmoReportService struct {
	gate         OwnershipGate
	aggregator   ReportAggregator
	composer     *ReportComposer
	generator    llm.Generator
	persister    ReportPersister
	artifactRepo repositories.ReportArtifactRepository
	logger       *zap.Logger
}

// NewCMOReportService creates a CMOReportService.
func NewCMOReportService(
	gate OwnershipGate,
	aggregator ReportAggregator,
	composer *ReportComposer,
	generator llm.Generator,
	persister ReportPersister,
	artifactRepo repositories.ReportArtifactRepository,
	logger *zap.Logger,
) CMOReportService {
	return &cmoReportService{
		gate:         gate,
		aggregator:   aggregator,
		composer:     composer,
		generator:    generator,
		persister:    persister,
		artifactRepo: artifactRepo,
		logger:       logger.Named("cmo-report"),
	}
}

var _ CMOReportService = (*cmoReportService)(nil)

func (s *cmoReportService) Generate(ctx context.Context, userID, websiteID uuid.UUID) (*models.CMOReportResult, error) {
	start := time.Now()
	log := s.logger.With(
		zap.String("user_id", userID.String()),
		zap.String("website_id", websiteID.String()))

	if err := s.gate.Verify(ctx, userID, websiteID); err != nil {
		return nil, err
	}

	inputs, err := s.aggregator.Aggregate(ctx, userID, websiteID)
	if err != nil {
		return nil, err
	}

	req, err := s.composer.Compose(inputs)
	if err != nil {
		return nil, err
	}

	genStart := time.Now()
	gen, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.Error("CMO report generation failed",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Duration("elapsed", time.Since(genStart)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, apperrors.E(apperrors.KindGeneration, "generate cmo report", err)
	}
	log.Info("Generated CMO report",
		zap.String("provider", gen.Provider),
		zap.String("model", gen.Model),
		zap.Int("prompt_tokens", gen.PromptTokens),
		zap.Int("completion_tokens", gen.CompletionTokens),
		zap.Duration("elapsed", time.Since(genStart)))
	log.Debug("CMO report content", zap.String("preview", logging.Preview(gen.Content)))

	if _, err := s.persister.Persist(ctx, userID, websiteID, gen); err != nil {
		return nil, err
	}

	log.Info("CMO report pipeline complete", zap.Duration("elapsed", time.Since(start)))
	return &models.CMOReportResult{
		RecommendationText: gen.Content,
		RawResponse:        gen.RawResponse,
	}, nil
}

func (s *cmoReportService) GetLatest(ctx context.Context, userID, websiteID uuid.UUID) (*StoredReport, error) {
	if err := s.gate.Verify(ctx, userID, websiteID); err != nil {
		return nil, err
	}

	artifact, err := s.artifactRepo.GetByWebsite(ctx, websiteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("cmo report for website %s: %w", websiteID, apperrors.ErrNotFound)
		}
		return nil, apperrors.E(apperrors.KindPersistence, "load cmo report", err)
	}

	report := &StoredReport{Artifact: artifact}
	doc, err := ParseReportDocument(artifact.Content)
	if err != nil {
		s.logger.Debug("Stored CMO report is not a report document",
			zap.String("website_id", websiteID.String()),
			zap.Error(err))
	} else {
		report.Document = doc
	}
	return report, nil
}

// ParseReportDocument decodes generated report content into a ReportDocument.
// Surrounding prose and think tags are ignored.
func ParseReportDocument(content string) (*models.ReportDocument, error) {
	doc, err := llm.ParseJSONResponse[models.ReportDocument](content)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
