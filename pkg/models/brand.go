// Package models contains domain types for cmo-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandWebsite is the analyzed brand. Stored in brand_websites; UserID is the owning actor.
type BrandWebsite struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	WebsiteURL string    `json:"website_url"`
	BrandName  *string   `json:"brand_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BrandProfile holds brand facts collected during onboarding. Every field is optional.
type BrandProfile struct {
	WebsiteID         uuid.UUID `json:"website_id"`
	Industry          *string   `json:"industry,omitempty"`
	RegionOfOperation *string   `json:"region_of_operation,omitempty"`
	TargetLocation    *string   `json:"target_location,omitempty"`
	TargetAudience    *string   `json:"target_audience,omitempty"`
	PrimaryOffering   *string   `json:"primary_offering,omitempty"`
	USP               *string   `json:"usp,omitempty"`
}
