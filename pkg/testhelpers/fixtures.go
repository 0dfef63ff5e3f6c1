package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cmoonthego/cmo-engine/pkg/database"
)

// SeedWebsite inserts a brand website owned by userID and returns its ID.
// The website is deleted when the test ends; dependent rows go with it via ON DELETE CASCADE.
func SeedWebsite(t *testing.T, db *database.DB, userID uuid.UUID, url string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	websiteID := uuid.New()
	_, err := db.Exec(ctx,
		`INSERT INTO brand_websites (id, user_id, website_url) VALUES ($1, $2, $3)`,
		websiteID, userID, url)
	if err != nil {
		t.Fatalf("failed to seed website: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM brand_websites WHERE id = $1`, websiteID)
	})
	return websiteID
}

// SeedProfile inserts the onboarding profile for a website.
func SeedProfile(t *testing.T, db *database.DB, websiteID uuid.UUID, industry, audience string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO brand_profiles (id, website_id, industry, target_audience) VALUES ($1, $2, $3, $4)`,
		uuid.New(), websiteID, industry, audience)
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
}

// PerformanceSeed lists the columns SeedPerformance fills. Nil pointers are stored as NULL.
type PerformanceSeed struct {
	LCP, CLS, TBT *float64
	RawHTML       *string
	OGImage       *string
	CreatedAt     time.Time
}

// SeedPerformance inserts one performance snapshot.
func SeedPerformance(t *testing.T, db *database.DB, websiteID uuid.UUID, s PerformanceSeed) {
	t.Helper()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	_, err := db.Exec(context.Background(), `
		INSERT INTO performance_snapshots (
			id, website_id, largest_contentful_paint, cumulative_layout_shift,
			total_blocking_time, raw_html, og_image, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), websiteID, s.LCP, s.CLS, s.TBT, s.RawHTML, s.OGImage, s.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed performance snapshot: %v", err)
	}
}

// SeedTraffic inserts one traffic snapshot.
func SeedTraffic(t *testing.T, db *database.DB, websiteID uuid.UUID, totalVisitors int64, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO traffic_snapshots (id, website_id, total_visitors, top_sources, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), websiteID, totalVisitors, []byte(`[{"source":"google","visitors":10}]`), createdAt)
	if err != nil {
		t.Fatalf("failed to seed traffic snapshot: %v", err)
	}
}

// SeedDerivedOutput inserts one derived output row. Empty strings are stored as NULL.
func SeedDerivedOutput(t *testing.T, db *database.DB, websiteID uuid.UUID, dashboard1, geoLLM string, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO derived_outputs (id, website_id, dashboard1, geo_llm, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)`,
		uuid.New(), websiteID, dashboard1, geoLLM, createdAt)
	if err != nil {
		t.Fatalf("failed to seed derived output: %v", err)
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
