package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/cmoonthego/cmo-engine/pkg/models"
	"github.com/cmoonthego/cmo-engine/pkg/services"
)

// mockCMOReportService records the IDs it was called with.
type mockCMOReportService struct {
	result    *models.CMOReportResult
	stored    *services.StoredReport
	err       error
	calls     int
	userID    uuid.UUID
	websiteID uuid.UUID
}

func (m *mockCMOReportService) Generate(ctx context.Context, userID, websiteID uuid.UUID) (*models.CMOReportResult, error) {
	m.calls++
	m.userID, m.websiteID = userID, websiteID
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockCMOReportService) GetLatest(ctx context.Context, userID, websiteID uuid.UUID) (*services.StoredReport, error) {
	m.calls++
	m.userID, m.websiteID = userID, websiteID
	if m.err != nil {
		return nil, m.err
	}
	return m.stored, nil
}

var _ services.CMOReportService = (*mockCMOReportService)(nil)

// mockPinger is a Pinger returning err.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}
