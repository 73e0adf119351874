package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amuzant/Crewmates/models"
)

var ErrProgressNotFound = errors.New("progress not found")

type ProgressRepository interface {
	Upsert(ctx context.Context, progress *models.Progress) error
	Update(ctx context.Context, projectID, userID int, content string, at time.Time) (*models.Progress, error)
	Delete(ctx context.Context, projectID, userID int) error
	ListByProject(ctx context.Context, projectID int) ([]models.Progress, error)
}

type postgresProgressRepository struct {
	db *sql.DB
}

func NewPostgresProgressRepository(db *sql.DB) ProgressRepository {
	return &postgresProgressRepository{db: db}
}

// Upsert creates the member's progress note or replaces it in place; one row
// per (project, user).
func (r *postgresProgressRepository) Upsert(ctx context.Context, p *models.Progress) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO progress (project_id, user_id, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id)
		DO UPDATE SET content = EXCLUDED.content, updated_at = now()
		RETURNING id, created_at, updated_at`,
		p.ProjectID, p.UserID, p.Content,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return ErrProjectNotFound
	}
	return err
}

func (r *postgresProgressRepository) Update(ctx context.Context, projectID, userID int, content string, at time.Time) (*models.Progress, error) {
	p := &models.Progress{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE progress SET content = $3, updated_at = $4
		WHERE project_id = $1 AND user_id = $2
		RETURNING id, project_id, user_id, content, created_at, updated_at`,
		projectID, userID, content, at,
	).Scan(&p.ID, &p.ProjectID, &p.UserID, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresProgressRepository) Delete(ctx context.Context, projectID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM progress WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProgressNotFound)
}

func (r *postgresProgressRepository) ListByProject(ctx context.Context, projectID int) ([]models.Progress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.project_id, p.user_id, p.content, p.created_at, p.updated_at,
		       u.id, u.username, u.display_name
		FROM progress p
		JOIN users u ON u.id = p.user_id
		WHERE p.project_id = $1
		ORDER BY p.updated_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Progress
	for rows.Next() {
		var (
			p   models.Progress
			ref models.UserRef
		)
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.UserID, &p.Content, &p.CreatedAt, &p.UpdatedAt,
			&ref.ID, &ref.Username, &ref.DisplayName); err != nil {
			return nil, err
		}
		p.User = &ref
		entries = append(entries, p)
	}
	return entries, rows.Err()
}
