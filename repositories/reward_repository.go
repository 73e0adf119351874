package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amuzant/Crewmates/models"
)

var ErrRewardNotFound = errors.New("reward not found")

type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	GetByID(ctx context.Context, id int) (*models.Reward, error)
	ListActive(ctx context.Context) ([]models.Reward, error)
	CreateClaim(ctx context.Context, exec SQLExecutor, claim *models.RewardClaim) error
}

type postgresRewardRepository struct {
	db *sql.DB
}

func NewPostgresRewardRepository(db *sql.DB) RewardRepository {
	return &postgresRewardRepository{db: db}
}

func (r *postgresRewardRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO rewards (name, description, cost, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, is_active, created_at`,
		reward.Name, reward.Description, reward.Cost,
	).Scan(&reward.ID, &reward.IsActive, &reward.CreatedAt)
}

func (r *postgresRewardRepository) GetByID(ctx context.Context, id int) (*models.Reward, error) {
	reward := &models.Reward{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, cost, is_active, created_at
		FROM rewards WHERE id = $1`, id,
	).Scan(&reward.ID, &reward.Name, &reward.Description, &reward.Cost, &reward.IsActive, &reward.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return reward, nil
}

func (r *postgresRewardRepository) ListActive(ctx context.Context) ([]models.Reward, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rw.id, rw.name, rw.description, rw.cost, rw.is_active, rw.created_at,
		       (SELECT COUNT(*) FROM reward_claims c WHERE c.reward_id = rw.id)
		FROM rewards rw
		WHERE rw.is_active
		ORDER BY rw.cost ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		var rw models.Reward
		if err := rows.Scan(&rw.ID, &rw.Name, &rw.Description, &rw.Cost,
			&rw.IsActive, &rw.CreatedAt, &rw.ClaimCount); err != nil {
			return nil, err
		}
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}

func (r *postgresRewardRepository) CreateClaim(ctx context.Context, exec SQLExecutor, claim *models.RewardClaim) error {
	executor := r.getExecutor(exec)
	return executor.QueryRowContext(ctx, `
		INSERT INTO reward_claims (reward_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		claim.RewardID, claim.UserID,
	).Scan(&claim.ID, &claim.CreatedAt)
}
