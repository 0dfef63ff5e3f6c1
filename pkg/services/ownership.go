package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/apperrors"
	"github.com/cmoonthego/cmo-engine/pkg/logging"
	"github.com/cmoonthego/cmo-engine/pkg/repositories"
)

// OwnershipGate confirms that a user owns a website before any report work starts.
type OwnershipGate interface {
	// Verify returns nil when userID owns websiteID. Every failure, including a
	// missing website or a failed lookup, is an apperrors.KindAuthorization error.
	Verify(ctx context.Context, userID, websiteID uuid.UUID) error
}

type ownershipGate struct {
	brandRepo repositories.BrandRepository
	logger    *zap.Logger
}

// NewOwnershipGate creates an OwnershipGate backed by the brand repository.
func NewOwnershipGate(brandRepo repositories.BrandRepository, logger *zap.Logger) OwnershipGate {
	return &ownershipGate{
		brandRepo: brandRepo,
		logger:    logger.Named("ownership"),
	}
}

var _ OwnershipGate = (*ownershipGate)(nil)

func (g *ownershipGate) Verify(ctx context.Context, userID, websiteID uuid.UUID) error {
	const op = "verify ownership"

	ownerID, err := g.brandRepo.GetOwnerID(ctx, websiteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.E(apperrors.KindAuthorization, op,
				fmt.Errorf("website %s: %w", websiteID, apperrors.ErrNotFound))
		}
		g.logger.Error("Failed to read website owner",
			zap.String("website_id", websiteID.String()),
			zap.String("error", logging.SanitizeError(err)))
		return apperrors.E(apperrors.KindAuthorization, op, err)
	}

	if ownerID != userID {
		g.logger.Warn("Website ownership mismatch",
			zap.String("user_id", userID.String()),
			zap.String("website_id", websiteID.String()))
		return apperrors.E(apperrors.KindAuthorization, op, apperrors.ErrForbidden)
	}
	return nil
}
