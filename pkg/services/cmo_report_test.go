package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/llm"
	"github.com/cmoonthego/cmo-engine/pkg/models"
)

const sampleReport = `{
  "brand": {"name": "Example", "website": "https://example.com"},
  "executive_summary": "Solid base, slow checkout.",
  "brand_health_overview": "Stable awareness.",
  "swot_analysis": {"strengths": ["loyal buyers"], "weaknesses": [], "opportunities": [], "threats": []},
  "growth_quadrant_vs_competitors": {"quadrant_type": "Growth-Share Matrix", "competitor_positions": []},
  "priority_fixes_bottom_funnel": [{"issue": "Slow LCP", "source": "website", "impact": "High", "recommended_fix": "Compress hero image"}],
  "brand_positioning_messaging_review": "Clear.",
  "channel_budget_suggestions": [],
  "campaign_planning_ideas": []
}`

// pipelineFixture wires a CMOReportService over mocks.
type pipelineFixture struct {
	brand     *mockBrandRepo
	snapshots *mockSnapshotRepo
	derived   *mockDerivedOutputRepo
	status    *mockAnalysisStatusRepo
	artifacts *mockReportArtifactRepo
	generator *llm.MockGenerator
	service   CMOReportService
}

func newPipelineFixture(ownerID uuid.UUID) *pipelineFixture {
	f := &pipelineFixture{
		brand:     &mockBrandRepo{ownerID: ownerID},
		snapshots: &mockSnapshotRepo{},
		derived:   &mockDerivedOutputRepo{},
		status:    &mockAnalysisStatusRepo{},
		artifacts: &mockReportArtifactRepo{},
		generator: llm.NewMockGenerator(sampleReport),
	}
	logger := zap.NewNop()
	f.service = NewCMOReportService(
		NewOwnershipGate(f.brand, logger),
		NewReportAggregator(f.brand, f.snapshots, f.derived, f.status, logger),
		NewReportComposer(0.5, 8000, fixedReportDate),
		f.generator,
		NewReportPersister(&mockTransactor{}, f.artifacts, f.status, logger),
		f.artifacts,
		logger,
	)
	return f
}

func (f *pipelineFixture) sourceReads() int32 {
	return f.brand.reads.Load() + f.snapshots.reads.Load() + f.derived.reads.Load() + f.status.reads.Load()
}

func TestCMOReportService_Generate(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	f := newPipelineFixture(userID)
	f.brand.website = &models.BrandWebsite{ID: websiteID, UserID: userID, WebsiteURL: "https://example.com"}

	result, err := f.service.Generate(context.Background(), userID, websiteID)
	require.NoError(t, err)

	assert.Equal(t, sampleReport, result.RecommendationText)
	assert.JSONEq(t, `{"id":"mock-response"}`, string(result.RawResponse))
	assert.Equal(t, 1, f.generator.Calls())
	assert.Equal(t, []string{sampleReport}, f.status.recommendations)
	require.NotNil(t, f.artifacts.stored)
	assert.Equal(t, websiteID, f.artifacts.stored.WebsiteID)
}

func TestCMOReportService_RejectsBeforeAnyAggregation(t *testing.T) {
	websiteID := uuid.New()

	t.Run("not the owner", func(t *testing.T) {
		f := newPipelineFixture(uuid.New())
		_, err := f.service.Generate(context.Background(), uuid.New(), websiteID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
		assert.Zero(t, f.sourceReads())
		assert.Zero(t, f.generator.Calls())
		assert.Nil(t, f.artifacts.stored)
	})

	t.Run("website does not exist", func(t *testing.T) {
		f := newPipelineFixture(uuid.Nil)
		f.brand.ownerErr = apperrors.ErrNotFound
		_, err := f.service.Generate(context.Background(), uuid.New(), websiteID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
		assert.Zero(t, f.sourceReads())
		assert.Zero(t, f.generator.Calls())
	})
}

func TestCMOReportService_GeneratesOnceWhenEverySourceIsMissing(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	f := newPipelineFixture(userID)
	boom := errors.New("statement timeout")
	f.snapshots.err = boom
	f.derived.err = boom
	f.status.getErr = boom

	result, err := f.service.Generate(context.Background(), userID, websiteID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, f.generator.Calls())
	req := f.generator.LastRequest()
	require.NotNil(t, req)
	assert.Contains(t, req.Prompt, `"revenue_loss_percent": "N/A"`)
	assert.Contains(t, req.Prompt, `"h1": "Not Found"`)
	assert.Equal(t, 1, f.artifacts.upserts)
}

func TestCMOReportService_GenerationFailure(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	f := newPipelineFixture(userID)
	f.generator.GenerateFunc = func(ctx context.Context, req *llm.GenerationRequest) (*llm.Generation, error) {
		return nil, llm.NewError(llm.ErrorTypeUnavailable, "service unavailable", true, nil)
	}

	_, err := f.service.Generate(context.Background(), userID, websiteID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGeneration, apperrors.KindOf(err))
	assert.Equal(t, llm.ErrorTypeUnavailable, llm.GetErrorType(err))
	assert.Nil(t, f.artifacts.stored)
	assert.Empty(t, f.status.recommendations)
}

func TestCMOReportService_PersistenceFailure(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	f := newPipelineFixture(userID)
	f.artifacts.upsertErr = errors.New("connection refused")

	result, err := f.service.Generate(context.Background(), userID, websiteID)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))
	assert.Equal(t, 1, f.generator.Calls())
}

func TestCMOReportService_GetLatest(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	f := newPipelineFixture(userID)

	_, err := f.service.GetLatest(context.Background(), userID, websiteID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.Generate(context.Background(), userID, websiteID)
	require.NoError(t, err)

	stored, err := f.service.GetLatest(context.Background(), userID, websiteID)
	require.NoError(t, err)
	require.NotNil(t, stored.Document)
	assert.Equal(t, "Example", stored.Document.Brand.Name)
	require.Len(t, stored.Document.PriorityFixesBottomFunnel, 1)
	assert.Equal(t, models.FixSourceWebsite, stored.Document.PriorityFixesBottomFunnel[0].Source)

	_, err = f.service.GetLatest(context.Background(), uuid.New(), websiteID)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestCMOReportService_GetLatestKeepsUnparseableContent(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	f := newPipelineFixture(userID)
	f.artifacts.stored = &models.ReportArtifact{ID: uuid.New(), WebsiteID: websiteID, Content: "not json at all"}

	stored, err := f.service.GetLatest(context.Background(), userID, websiteID)
	require.NoError(t, err)
	assert.Nil(t, stored.Document)
	assert.Equal(t, "not json at all", stored.Artifact.Content)
}

func TestParseReportDocument_ToleratesSurroundingText(t *testing.T) {
	doc, err := ParseReportDocument("Here is the report:\n" + sampleReport + "\nLet me know.")
	require.NoError(t, err)
	assert.Equal(t, "Solid base, slow checkout.", doc.ExecutiveSummary)
}

func TestParseReportDocument_NumericImpact(t *testing.T) {
	doc, err := ParseReportDocument(`{"priority_fixes_bottom_funnel":[{"issue":"Checkout form errors","source":"both","impact":9,"recommended_fix":"Add inline validation"}]}`)
	require.NoError(t, err)
	require.Len(t, doc.PriorityFixesBottomFunnel, 1)
	assert.Equal(t, "9", doc.PriorityFixesBottomFunnel[0].Impact.String())
}
