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

// BrandRepository reads brand websites and their onboarding profiles.
type BrandRepository interface {
	// GetOwnerID returns the user that owns the website, or apperrors.ErrNotFound.
	GetOwnerID(ctx context.Context, websiteID uuid.UUID) (uuid.UUID, error)
	GetWebsite(ctx context.Context, websiteID uuid.UUID) (*models.BrandWebsite, error)
	GetProfile(ctx context.Context, websiteID uuid.UUID) (*models.BrandProfile, error)
}

type brandRepository struct {
	db *database.DB
}

// NewBrandRepository creates a new brand repository.
func NewBrandRepository(db *database.DB) BrandRepository {
	return &brandRepository{db: db}
}

var _ BrandRepository = (*brandRepository)(nil)

func (r *brandRepository) GetOwnerID(ctx context.Context, websiteID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT user_id FROM brand_websites WHERE id = $1`, websiteID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperrors.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to get website owner: %w", err)
	}
	return ownerID, nil
}

func (r *brandRepository) GetWebsite(ctx context.Context, websiteID uuid.UUID) (*models.BrandWebsite, error) {
	query := `
		SELECT id, user_id, website_url, brand_name, created_at, updated_at
		FROM brand_websites
		WHERE id = $1`

	var w models.BrandWebsite
	err := r.db.Conn(ctx).QueryRow(ctx, query, websiteID).Scan(
		&w.ID,
		&w.UserID,
		&w.WebsiteURL,
		&w.BrandName,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	return &w, nil
}

func (r *brandRepository) GetProfile(ctx context.Context, websiteID uuid.UUID) (*models.BrandProfile, error) {
	query := `
		SELECT website_id, industry, region_of_operation, target_location,
		       target_audience, primary_offering, usp
		FROM brand_profiles
		WHERE website_id = $1`

	var p models.BrandProfile
	err := r.db.Conn(ctx).QueryRow(ctx, query, websiteID).Scan(
		&p.WebsiteID,
		&p.Industry,
		&p.RegionOfOperation,
		&p.TargetLocation,
		&p.TargetAudience,
		&p.PrimaryOffering,
		&p.USP,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get brand profile: %w", err)
	}
	return &p, nil
}
