package repositories

import (
	"context"
	"database/sql"

	"github.com/amuzant/Crewmates/models"
)

type BadgeRepository interface {
	GrantIfAbsent(ctx context.Context, badge *models.Badge) (bool, error)
	ListByUser(ctx context.Context, userID int) ([]models.Badge, error)
}

type postgresBadgeRepository struct {
	db *sql.DB
}

func NewPostgresBadgeRepository(db *sql.DB) BadgeRepository {
	return &postgresBadgeRepository{db: db}
}

// GrantIfAbsent inserts the badge unless the user already holds one of that
// type. The (user_id, type) unique constraint turns a concurrent double grant
// into a no-op rather than a duplicate row. Reports whether a row was created.
func (r *postgresBadgeRepository) GrantIfAbsent(ctx context.Context, b *models.Badge) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (user_id, type, name, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, type) DO NOTHING`,
		b.UserID, b.Type, b.Name, b.Description)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *postgresBadgeRepository) ListByUser(ctx context.Context, userID int) ([]models.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, name, description, created_at
		FROM badges
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.Type, &b.Name, &b.Description, &b.CreatedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
