package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amuzant/Crewmates/models"
)

var (
	ErrRankingNotFound       = errors.New("ranking not found")
	ErrRankingUnknownProject = errors.New("ranking references an unknown project")
)

type RankingRepository interface {
	DeleteBySprint(ctx context.Context, exec SQLExecutor, sprintID int) error
	Create(ctx context.Context, exec SQLExecutor, ranking *models.Ranking) error
	ListBySprint(ctx context.Context, sprintID int) ([]models.Ranking, error)
}

type postgresRankingRepository struct {
	db *sql.DB
}

func NewPostgresRankingRepository(db *sql.DB) RankingRepository {
	return &postgresRankingRepository{db: db}
}

func (r *postgresRankingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRankingRepository) DeleteBySprint(ctx context.Context, exec SQLExecutor, sprintID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM rankings WHERE sprint_id = $1`, sprintID)
	return err
}

func (r *postgresRankingRepository) Create(ctx context.Context, exec SQLExecutor, ranking *models.Ranking) error {
	executor := r.getExecutor(exec)
	err := executor.QueryRowContext(ctx, `
		INSERT INTO rankings (sprint_id, project_id, rank)
		VALUES ($1, $2, $3)
		RETURNING id`,
		ranking.SprintID, ranking.ProjectID, ranking.Rank,
	).Scan(&ranking.ID)
	if isForeignKeyViolation(err) {
		return ErrRankingUnknownProject
	}
	return err
}

// ListBySprint returns the sprint's ranking rows ordered by rank with the
// nested project reference attached.
func (r *postgresRankingRepository) ListBySprint(ctx context.Context, sprintID int) ([]models.Ranking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.sprint_id, r.project_id, r.rank, p.id, p.name, p.description
		FROM rankings r
		JOIN projects p ON p.id = r.project_id
		WHERE r.sprint_id = $1
		ORDER BY r.rank ASC`, sprintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rankings []models.Ranking
	for rows.Next() {
		var (
			rk  models.Ranking
			ref models.ProjectRef
		)
		if err := rows.Scan(&rk.ID, &rk.SprintID, &rk.ProjectID, &rk.Rank,
			&ref.ID, &ref.Name, &ref.Description); err != nil {
			return nil, err
		}
		rk.Project = &ref
		rankings = append(rankings, rk)
	}
	return rankings, rows.Err()
}
