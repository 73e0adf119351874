package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

func TestGrantPointsValidation(t *testing.T) {
	tests := []struct {
		name  string
		input GrantPointsInput
	}{
		{"missing user", GrantPointsInput{Amount: 50, Reason: "Sprint bonus"}},
		{"zero amount", GrantPointsInput{UserID: 7, Reason: "Sprint bonus"}},
		{"blank reason", GrantPointsInput{UserID: 7, Amount: 50, Reason: "   "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewPointsService(nil, &fakePointsRepo{}, &fakeUserRepo{})
			_, err := svc.Grant(context.Background(), tc.input)
			assert.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestGrantPoints(t *testing.T) {
	tx := &fakeTx{}
	var entry *models.PointsEntry
	pointsRepo := &fakePointsRepo{
		CreateFunc: func(ctx context.Context, exec repositories.SQLExecutor, e *models.PointsEntry) error {
			entry = e
			return nil
		},
	}
	userRepo := &fakeUserRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, PointsBalance: 100}, nil
		},
		AdjustPointsBalanceFunc: func(ctx context.Context, exec repositories.SQLExecutor, userID int, delta int) (int, error) {
			assert.Equal(t, 50, delta)
			return 150, nil
		},
	}
	svc := NewPointsService(nil, pointsRepo, userRepo).(*pointsService)
	svc.beginTx = useTx(tx)

	result, err := svc.Grant(context.Background(), GrantPointsInput{UserID: 7, Amount: 50, Reason: "Sprint bonus"})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 50, entry.Amount)
	assert.False(t, entry.IsReward)
	require.NotNil(t, result.User)
	assert.Equal(t, 150, result.User.PointsBalance)
	assert.True(t, tx.committed)
}

func TestGrantPointsUnknownUser(t *testing.T) {
	userRepo := &fakeUserRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
			return nil, repositories.ErrUserNotFound
		},
	}
	svc := NewPointsService(nil, &fakePointsRepo{}, userRepo)
	_, err := svc.Grant(context.Background(), GrantPointsInput{UserID: 99, Amount: 50, Reason: "Sprint bonus"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSpin(t *testing.T) {
	t.Run("short balance rejects before anything is written", func(t *testing.T) {
		tx := &fakeTx{}
		var written []models.PointsEntry
		pointsRepo := &fakePointsRepo{
			CreateFunc: func(ctx context.Context, exec repositories.SQLExecutor, e *models.PointsEntry) error {
				written = append(written, *e)
				return nil
			},
		}
		userRepo := &fakeUserRepo{
			GetBalanceForUpdateFunc: func(ctx context.Context, exec repositories.SQLExecutor, userID int) (int, error) {
				return 5, nil
			},
		}
		svc := NewPointsService(nil, pointsRepo, userRepo).(*pointsService)
		svc.beginTx = useTx(tx)

		_, err := svc.Spin(context.Background(), 7)
		assert.ErrorIs(t, err, ErrNotEnoughPoints)
		assert.Empty(t, written)
		assert.False(t, tx.committed)
	})

	t.Run("winning spin writes the cost and win rows and settles the balance", func(t *testing.T) {
		tx := &fakeTx{}
		var written []models.PointsEntry
		pointsRepo := &fakePointsRepo{
			CreateFunc: func(ctx context.Context, exec repositories.SQLExecutor, e *models.PointsEntry) error {
				written = append(written, *e)
				return nil
			},
		}
		userRepo := &fakeUserRepo{
			GetBalanceForUpdateFunc: func(ctx context.Context, exec repositories.SQLExecutor, userID int) (int, error) {
				return 50, nil
			},
			AdjustPointsBalanceFunc: func(ctx context.Context, exec repositories.SQLExecutor, userID int, delta int) (int, error) {
				assert.Equal(t, 190, delta)
				return 240, nil
			},
		}
		svc := NewPointsService(nil, pointsRepo, userRepo).(*pointsService)
		svc.beginTx = useTx(tx)
		svc.pick = func(n int) int { return 2 } // segment 2 pays 200

		result, err := svc.Spin(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Segment)
		assert.Equal(t, 200, result.Points)
		assert.Equal(t, 240, result.Balance)
		require.Len(t, written, 2)
		assert.Equal(t, -10, written[0].Amount)
		assert.Equal(t, "Lucky Wheel Spin", written[0].Reason)
		assert.Equal(t, 200, written[1].Amount)
		assert.True(t, tx.committed)
	})
}

func TestPointsHistory(t *testing.T) {
	t.Run("entries pass through", func(t *testing.T) {
		pointsRepo := &fakePointsRepo{
			ListByUserFunc: func(ctx context.Context, userID int) ([]models.PointsEntry, error) {
				return []models.PointsEntry{{UserID: userID, Amount: 50, Reason: "Sprint bonus"}}, nil
			},
		}
		svc := NewPointsService(nil, pointsRepo, &fakeUserRepo{})
		entries, err := svc.History(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 50, entries[0].Amount)
	})

	t.Run("no entries yields an empty slice", func(t *testing.T) {
		pointsRepo := &fakePointsRepo{
			ListByUserFunc: func(ctx context.Context, userID int) ([]models.PointsEntry, error) {
				return nil, nil
			},
		}
		svc := NewPointsService(nil, pointsRepo, &fakeUserRepo{})
		entries, err := svc.History(context.Background(), 7)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}
