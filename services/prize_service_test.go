package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

func TestAcknowledgePrize(t *testing.T) {
	t.Run("winner acknowledgement is recorded", func(t *testing.T) {
		prizeRepo := &fakePrizeRepo{
			HasWinnerFunc: func(ctx context.Context, prizeID, userID int) (bool, error) {
				return true, nil
			},
			UpsertAcknowledgedFunc: func(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
				return &models.PrizeClaim{PrizeID: prizeID, UserID: userID, Acknowledged: true}, nil
			},
		}
		svc := NewPrizeService(prizeRepo, nil, discardLogger())
		claim, err := svc.Acknowledge(context.Background(), 5, 42)
		require.NoError(t, err)
		assert.True(t, claim.Acknowledged)
	})

	t.Run("acknowledging a prize the user never won fails", func(t *testing.T) {
		prizeRepo := &fakePrizeRepo{
			HasWinnerFunc: func(ctx context.Context, prizeID, userID int) (bool, error) {
				return false, nil
			},
		}
		svc := NewPrizeService(prizeRepo, nil, discardLogger())
		_, err := svc.Acknowledge(context.Background(), 5, 42)
		assert.ErrorIs(t, err, ErrPrizeNotWon)
	})
}

func TestUploadPrizePhotoWithoutStorage(t *testing.T) {
	prizeRepo := &fakePrizeRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.Prize, error) {
			return &models.Prize{ID: id}, nil
		},
	}
	svc := NewPrizeService(prizeRepo, nil, discardLogger())
	_, err := svc.UploadPhoto(context.Background(), 5, "cup.jpg", "image/jpeg", strings.NewReader("jpg"))
	assert.ErrorIs(t, err, ErrUploadsDisabled)
}

func TestClaimPrize(t *testing.T) {
	claimedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("acknowledged prize can be claimed once", func(t *testing.T) {
		prizeRepo := &fakePrizeRepo{
			HasWinnerFunc: func(ctx context.Context, prizeID, userID int) (bool, error) {
				return true, nil
			},
			GetClaimFunc: func(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
				return &models.PrizeClaim{PrizeID: prizeID, UserID: userID, Acknowledged: true}, nil
			},
			SetClaimedFunc: func(ctx context.Context, prizeID, userID int, at time.Time) (*models.PrizeClaim, error) {
				return &models.PrizeClaim{PrizeID: prizeID, UserID: userID, Acknowledged: true, ClaimedAt: &at}, nil
			},
		}
		svc := NewPrizeService(prizeRepo, nil, discardLogger())
		claim, err := svc.Claim(context.Background(), 5, 42)
		require.NoError(t, err)
		assert.NotNil(t, claim.ClaimedAt)
	})

	t.Run("double claim is rejected", func(t *testing.T) {
		prizeRepo := &fakePrizeRepo{
			HasWinnerFunc: func(ctx context.Context, prizeID, userID int) (bool, error) {
				return true, nil
			},
			GetClaimFunc: func(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
				return &models.PrizeClaim{PrizeID: prizeID, UserID: userID, Acknowledged: true, ClaimedAt: &claimedAt}, nil
			},
		}
		svc := NewPrizeService(prizeRepo, nil, discardLogger())
		_, err := svc.Claim(context.Background(), 5, 42)
		assert.ErrorIs(t, err, ErrPrizeAlreadyClaimed)
	})

	t.Run("claiming without a win is rejected", func(t *testing.T) {
		prizeRepo := &fakePrizeRepo{
			HasWinnerFunc: func(ctx context.Context, prizeID, userID int) (bool, error) {
				return false, nil
			},
		}
		svc := NewPrizeService(prizeRepo, nil, discardLogger())
		_, err := svc.Claim(context.Background(), 5, 42)
		assert.ErrorIs(t, err, ErrPrizeNotWon)
	})

	t.Run("claiming before acknowledging records both", func(t *testing.T) {
		acknowledged := false
		prizeRepo := &fakePrizeRepo{
			HasWinnerFunc: func(ctx context.Context, prizeID, userID int) (bool, error) {
				return true, nil
			},
			GetClaimFunc: func(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
				return nil, repositories.ErrPrizeClaimNotFound
			},
			UpsertAcknowledgedFunc: func(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
				acknowledged = true
				return &models.PrizeClaim{PrizeID: prizeID, UserID: userID, Acknowledged: true}, nil
			},
			SetClaimedFunc: func(ctx context.Context, prizeID, userID int, at time.Time) (*models.PrizeClaim, error) {
				if !acknowledged {
					return nil, repositories.ErrPrizeClaimNotFound
				}
				return &models.PrizeClaim{PrizeID: prizeID, UserID: userID, Acknowledged: true, ClaimedAt: &at}, nil
			},
		}
		svc := NewPrizeService(prizeRepo, nil, discardLogger())
		claim, err := svc.Claim(context.Background(), 5, 42)
		require.NoError(t, err)
		assert.True(t, claim.Acknowledged)
		assert.NotNil(t, claim.ClaimedAt)
	})
}
