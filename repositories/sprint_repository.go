package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amuzant/Crewmates/models"
)

var ErrSprintNotFound = errors.New("sprint not found")

type SprintRepository interface {
	Create(ctx context.Context, sprint *models.Sprint) error
	GetByID(ctx context.Context, id int) (*models.Sprint, error)
	GetByIDWithPrize(ctx context.Context, id int) (*models.Sprint, error)
	List(ctx context.Context) ([]models.Sprint, error)
	FindOverlapping(ctx context.Context, start, end time.Time) (*models.Sprint, error)
	MarkCompleted(ctx context.Context, exec SQLExecutor, id int, at time.Time) error
}

type postgresSprintRepository struct {
	db *sql.DB
}

func NewPostgresSprintRepository(db *sql.DB) SprintRepository {
	return &postgresSprintRepository{db: db}
}

func (r *postgresSprintRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const sprintColumns = `id, name, start_date, end_date, is_completed, has_prize, prize_id, last_updated, created_at, updated_at`

func scanSprint(row interface{ Scan(...interface{}) error }, s *models.Sprint) error {
	return row.Scan(
		&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsCompleted,
		&s.HasPrize, &s.PrizeID, &s.LastUpdated, &s.CreatedAt, &s.UpdatedAt,
	)
}

func (r *postgresSprintRepository) Create(ctx context.Context, s *models.Sprint) error {
	query := `
		INSERT INTO sprints (name, start_date, end_date, has_prize, prize_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_completed, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		s.Name, s.StartDate, s.EndDate, s.HasPrize, s.PrizeID,
	).Scan(&s.ID, &s.IsCompleted, &s.CreatedAt, &s.UpdatedAt)
}

func (r *postgresSprintRepository) GetByID(ctx context.Context, id int) (*models.Sprint, error) {
	s := &models.Sprint{}
	err := scanSprint(r.db.QueryRowContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE id = $1`, id), s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresSprintRepository) GetByIDWithPrize(ctx context.Context, id int) (*models.Sprint, error) {
	query := `
		SELECT s.id, s.name, s.start_date, s.end_date, s.is_completed, s.has_prize,
		       s.prize_id, s.last_updated, s.created_at, s.updated_at,
		       p.id, p.name, p.description, p.photo_key, p.created_at
		FROM sprints s
		LEFT JOIN prizes p ON p.id = s.prize_id
		WHERE s.id = $1`

	s := &models.Sprint{}
	var (
		prizeID        sql.NullInt64
		prizeName      sql.NullString
		prizeDesc      sql.NullString
		prizePhotoKey  sql.NullString
		prizeCreatedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsCompleted, &s.HasPrize,
		&s.PrizeID, &s.LastUpdated, &s.CreatedAt, &s.UpdatedAt,
		&prizeID, &prizeName, &prizeDesc, &prizePhotoKey, &prizeCreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	if prizeID.Valid {
		prize := &models.Prize{
			ID:        int(prizeID.Int64),
			Name:      prizeName.String,
			CreatedAt: prizeCreatedAt.Time,
		}
		if prizeDesc.Valid {
			prize.Description = &prizeDesc.String
		}
		if prizePhotoKey.Valid {
			prize.PhotoKey = &prizePhotoKey.String
		}
		s.Prize = prize
	}
	return s, nil
}

func (r *postgresSprintRepository) List(ctx context.Context) ([]models.Sprint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sprints []models.Sprint
	for rows.Next() {
		var s models.Sprint
		if err := scanSprint(rows, &s); err != nil {
			return nil, err
		}
		sprints = append(sprints, s)
	}
	return sprints, rows.Err()
}

// FindOverlapping returns any sprint whose [start_date, end_date] interval
// intersects [start, end], or nil when the range is free.
func (r *postgresSprintRepository) FindOverlapping(ctx context.Context, start, end time.Time) (*models.Sprint, error) {
	s := &models.Sprint{}
	err := scanSprint(r.db.QueryRowContext(ctx, `
		SELECT `+sprintColumns+` FROM sprints
		WHERE start_date <= $2 AND end_date >= $1
		LIMIT 1`, start, end), s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresSprintRepository) MarkCompleted(ctx context.Context, exec SQLExecutor, id int, at time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE sprints
		SET is_completed = TRUE, last_updated = $2, updated_at = $2
		WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSprintNotFound)
}
