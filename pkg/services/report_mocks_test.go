package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/models"
)

// ============================================================================
// Repository mocks for the CMO report pipeline
// ============================================================================

type mockBrandRepo struct {
	ownerID    uuid.UUID
	ownerErr   error
	website    *models.BrandWebsite
	websiteErr error
	profile    *models.BrandProfile
	profileErr error
	barrier    *readBarrier

	reads atomic.Int32
}

func (m *mockBrandRepo) GetOwnerID(ctx context.Context, websiteID uuid.UUID) (uuid.UUID, error) {
	if m.ownerErr != nil {
		return uuid.Nil, m.ownerErr
	}
	return m.ownerID, nil
}

func (m *mockBrandRepo) GetWebsite(ctx context.Context, websiteID uuid.UUID) (*models.BrandWebsite, error) {
	m.reads.Add(1)
	if err := m.barrier.arrive(ctx); err != nil {
		return nil, err
	}
	if m.websiteErr != nil {
		return nil, m.websiteErr
	}
	if m.website == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.website, nil
}

func (m *mockBrandRepo) GetProfile(ctx context.Context, websiteID uuid.UUID) (*models.BrandProfile, error) {
	m.reads.Add(1)
	if err := m.barrier.arrive(ctx); err != nil {
		return nil, err
	}
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	if m.profile == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.profile, nil
}

type mockSnapshotRepo struct {
	performance *models.PerformanceSnapshot
	traffic     *models.TrafficSnapshot
	err         error
	// block makes every read wait for ctx to be done.
	block   bool
	barrier *readBarrier

	reads atomic.Int32
}

func (m *mockSnapshotRepo) LatestPerformance(ctx context.Context, websiteID uuid.UUID) (*models.PerformanceSnapshot, error) {
	m.reads.Add(1)
	if err := m.barrier.arrive(ctx); err != nil {
		return nil, err
	}
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.performance == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.performance, nil
}

func (m *mockSnapshotRepo) LatestTraffic(ctx context.Context, websiteID uuid.UUID) (*models.TrafficSnapshot, error) {
	m.reads.Add(1)
	if err := m.barrier.arrive(ctx); err != nil {
		return nil, err
	}
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.traffic == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.traffic, nil
}

type mockDerivedOutputRepo struct {
	dashboards   *models.DashboardInsights
	aiVisibility *models.AIVisibility
	err          error
	barrier      *readBarrier

	reads atomic.Int32
}

func (m *mockDerivedOutputRepo) LatestDashboards(ctx context.Context, websiteID uuid.UUID) (*models.DashboardInsights, error) {
	m.reads.Add(1)
	if err := m.barrier.arrive(ctx); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.dashboards == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.dashboards, nil
}

func (m *mockDerivedOutputRepo) LatestAIVisibility(ctx context.Context, websiteID uuid.UUID) (*models.AIVisibility, error) {
	m.reads.Add(1)
	if err := m.barrier.arrive(ctx); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.aiVisibility == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.aiVisibility, nil
}

type mockAnalysisStatusRepo struct {
	status    *models.AnalysisStatus
	getErr    error
	upsertErr error
	barrier   *readBarrier

	mu              sync.Mutex
	recommendations []string
	reads           atomic.Int32
}

func (m *mockAnalysisStatusRepo) Get(ctx context.Context, userID, websiteID uuid.UUID) (*models.AnalysisStatus, error) {
	m.reads.Add(1)
	if err := m.barrier.arrive(ctx); err != nil {
		return nil, err
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.status == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.status, nil
}

func (m *mockAnalysisStatusRepo) UpsertRecommendation(ctx context.Context, userID, websiteID uuid.UUID, recommendation string) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recommendations = append(m.recommendations, recommendation)
	return nil
}

type mockReportArtifactRepo struct {
	stored    *models.ReportArtifact
	getErr    error
	upsertErr error

	upserts int
}

func (m *mockReportArtifactRepo) Upsert(ctx context.Context, artifact *models.ReportArtifact) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	if m.stored == nil {
		artifact.ID = uuid.New()
	} else {
		artifact.ID = m.stored.ID
	}
	m.stored = artifact
	return nil
}

func (m *mockReportArtifactRepo) GetByWebsite(ctx context.Context, websiteID uuid.UUID) (*models.ReportArtifact, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.stored == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.stored, nil
}

// mockTransactor runs fn inline and records the lock keys it was given.
type mockTransactor struct {
	lockKeys []string
}

func (m *mockTransactor) InTx(ctx context.Context, lockKey string, fn func(ctx context.Context) error) error {
	m.lockKeys = append(m.lockKeys, lockKey)
	return fn(ctx)
}

// readBarrier releases its readers only once n of them are waiting at the same
// time. Sequential reads never get there and end with ctx's error.
type readBarrier struct {
	remaining atomic.Int32
	done      chan struct{}
}

func newReadBarrier(n int) *readBarrier {
	b := &readBarrier{done: make(chan struct{})}
	b.remaining.Store(int32(n))
	return b
}

func (b *readBarrier) arrive(ctx context.Context) error {
	if b == nil {
		return nil
	}
	if b.remaining.Add(-1) == 0 {
		close(b.done)
	}
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
