package repositories

import (
	"context"
	"database/sql"

	"github.com/amuzant/Crewmates/models"
)

type PointsRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.PointsEntry) error
	ListByUser(ctx context.Context, userID int) ([]models.PointsEntry, error)
	SumByUser(ctx context.Context, userID int) (int, error)
}

type postgresPointsRepository struct {
	db *sql.DB
}

func NewPostgresPointsRepository(db *sql.DB) PointsRepository {
	return &postgresPointsRepository{db: db}
}

func (r *postgresPointsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPointsRepository) Create(ctx context.Context, exec SQLExecutor, e *models.PointsEntry) error {
	executor := r.getExecutor(exec)
	err := executor.QueryRowContext(ctx, `
		INSERT INTO points (user_id, amount, reason, is_reward)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.UserID, e.Amount, e.Reason, e.IsReward,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return ErrUserNotFound
	}
	return err
}

func (r *postgresPointsRepository) ListByUser(ctx context.Context, userID int) ([]models.PointsEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.amount, p.reason, p.is_reward, p.created_at,
		       u.id, u.username, u.display_name
		FROM points p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.PointsEntry
	for rows.Next() {
		var (
			e   models.PointsEntry
			ref models.UserRef
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.IsReward, &e.CreatedAt,
			&ref.ID, &ref.Username, &ref.DisplayName); err != nil {
			return nil, err
		}
		e.User = &ref
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SumByUser recomputes the balance from the ledger, the source of truth the
// denormalized users.points_balance column is expected to match.
func (r *postgresPointsRepository) SumByUser(ctx context.Context, userID int) (int, error) {
	var sum int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM points WHERE user_id = $1`, userID).Scan(&sum)
	return sum, err
}
