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
)

func TestOwnershipGate_Verify(t *testing.T) {
	owner := uuid.New()
	websiteID := uuid.New()

	tests := []struct {
		name     string
		repo     *mockBrandRepo
		userID   uuid.UUID
		wantErr  bool
		wantWrap error
	}{
		{
			name:   "owner passes",
			repo:   &mockBrandRepo{ownerID: owner},
			userID: owner,
		},
		{
			name:     "other user is rejected",
			repo:     &mockBrandRepo{ownerID: owner},
			userID:   uuid.New(),
			wantErr:  true,
			wantWrap: apperrors.ErrForbidden,
		},
		{
			name:     "missing website is rejected",
			repo:     &mockBrandRepo{ownerErr: apperrors.ErrNotFound},
			userID:   owner,
			wantErr:  true,
			wantWrap: apperrors.ErrNotFound,
		},
		{
			name:    "lookup failure is rejected",
			repo:    &mockBrandRepo{ownerErr: errors.New("connection reset")},
			userID:  owner,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewOwnershipGate(tt.repo, zap.NewNop())

			err := gate.Verify(context.Background(), tt.userID, websiteID)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
			if tt.wantWrap != nil {
				assert.ErrorIs(t, err, tt.wantWrap)
			}
		})
	}
}
