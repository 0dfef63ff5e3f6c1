package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/llm"
)

func testGeneration(content string) *llm.Generation {
	return &llm.Generation{
		Content:          content,
		RawResponse:      json.RawMessage(`{"id":"chatcmpl-1"}`),
		Provider:         llm.ProviderOpenAI,
		Model:            "gpt-4.1",
		PromptTokens:     1200,
		CompletionTokens: 900,
	}
}

func TestReportPersister_Persist(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	tx := &mockTransactor{}
	artifacts := &mockReportArtifactRepo{}
	status := &mockAnalysisStatusRepo{}

	p := NewReportPersister(tx, artifacts, status, zap.NewNop())
	artifact, err := p.Persist(context.Background(), userID, websiteID, testGeneration(`{"brand":{}}`))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, artifact.ID)
	assert.Equal(t, websiteID, artifact.WebsiteID)
	assert.Equal(t, `{"brand":{}}`, artifact.Content)
	assert.Equal(t, "gpt-4.1", artifact.Model)
	assert.Equal(t, 900, artifact.CompletionTokens)
	assert.Equal(t, []string{`{"brand":{}}`}, status.recommendations)
	assert.Equal(t, []string{websiteID.String()}, tx.lockKeys)
}

func TestReportPersister_SecondPersistReplacesFirst(t *testing.T) {
	userID, websiteID := uuid.New(), uuid.New()
	artifacts := &mockReportArtifactRepo{}
	p := NewReportPersister(&mockTransactor{}, artifacts, &mockAnalysisStatusRepo{}, zap.NewNop())

	first, err := p.Persist(context.Background(), userID, websiteID, testGeneration("first"))
	require.NoError(t, err)
	second, err := p.Persist(context.Background(), userID, websiteID, testGeneration("second"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "second", artifacts.stored.Content)
}

func TestReportPersister_ArtifactFailureSkipsRecommendation(t *testing.T) {
	status := &mockAnalysisStatusRepo{}
	p := NewReportPersister(&mockTransactor{},
		&mockReportArtifactRepo{upsertErr: errors.New("disk full")},
		status, zap.NewNop())

	_, err := p.Persist(context.Background(), uuid.New(), uuid.New(), testGeneration("x"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))
	assert.Empty(t, status.recommendations)
}

func TestReportPersister_RecommendationFailure(t *testing.T) {
	p := NewReportPersister(&mockTransactor{},
		&mockReportArtifactRepo{},
		&mockAnalysisStatusRepo{upsertErr: errors.New("deadlock detected")},
		zap.NewNop())

	_, err := p.Persist(context.Background(), uuid.New(), uuid.New(), testGeneration("x"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindPersistence))
	assert.Contains(t, err.Error(), "deadlock detected")
}
