package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amuzant/Crewmates/models"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectMemberConflict = errors.New("user is already a member of the project")
	ErrProjectMemberNotFound = errors.New("user is not a member of the project")
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project, leaderID int) error
	GetByID(ctx context.Context, id int) (*models.Project, error)
	Delete(ctx context.Context, id int) error
	ListAll(ctx context.Context) ([]models.Project, error)
	ListForUser(ctx context.Context, userID int) ([]models.Project, error)
	ListUnrankedBySprint(ctx context.Context, sprintID int) ([]models.Project, error)
	ListMembers(ctx context.Context, projectID int) ([]models.User, error)
	ListLeaders(ctx context.Context, projectID int) ([]models.User, error)
	AddMember(ctx context.Context, projectID, userID int) error
	RemoveMember(ctx context.Context, projectID, userID int) error
	IsMember(ctx context.Context, projectID, userID int) (bool, error)
	IsLeader(ctx context.Context, projectID, userID int) (bool, error)
}

type postgresProjectRepository struct {
	db *sql.DB
}

func NewPostgresProjectRepository(db *sql.DB) ProjectRepository {
	return &postgresProjectRepository{db: db}
}

const projectColumns = `id, name, description, sprint_id, created_at`

func scanProject(row interface{ Scan(...interface{}) error }, p *models.Project) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.SprintID, &p.CreatedAt)
}

// Create inserts the project and records the creator as its first leader and
// member in one transaction.
func (r *postgresProjectRepository) Create(ctx context.Context, p *models.Project, leaderID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO projects (name, description, sprint_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		p.Name, p.Description, p.SprintID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO project_leaders (project_id, user_id) VALUES ($1, $2)`,
		p.ID, leaderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`,
		p.ID, leaderID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	p := &models.Project{}
	err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresProjectRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProjectNotFound)
}

func (r *postgresProjectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *postgresProjectRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	return r.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
}

// ListForUser returns projects the user leads or belongs to.
func (r *postgresProjectRepository) ListForUser(ctx context.Context, userID int) ([]models.Project, error) {
	return r.queryProjects(ctx, `
		SELECT DISTINCT p.id, p.name, p.description, p.sprint_id, p.created_at
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id
		LEFT JOIN project_leaders l ON l.project_id = p.id
		WHERE m.user_id = $1 OR l.user_id = $1
		ORDER BY p.created_at DESC`, userID)
}

// ListUnrankedBySprint returns the sprint's projects that have no ranking row
// yet, the source list for the drag-and-drop ranking board.
func (r *postgresProjectRepository) ListUnrankedBySprint(ctx context.Context, sprintID int) ([]models.Project, error) {
	return r.queryProjects(ctx, `
		SELECT `+projectColumns+` FROM projects p
		WHERE p.sprint_id = $1
		  AND NOT EXISTS (SELECT 1 FROM rankings r WHERE r.project_id = p.id AND r.sprint_id = $1)
		ORDER BY p.name`, sprintID)
}

func (r *postgresProjectRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresProjectRepository) ListMembers(ctx context.Context, projectID int) ([]models.User, error) {
	return r.queryUsers(ctx, `
		SELECT u.id, u.email, u.username, u.display_name, u.password_hash,
		       u.role, u.points_balance, u.avatar_key, u.created_at
		FROM users u
		JOIN project_members m ON m.user_id = u.id
		WHERE m.project_id = $1
		ORDER BY u.username`, projectID)
}

func (r *postgresProjectRepository) ListLeaders(ctx context.Context, projectID int) ([]models.User, error) {
	return r.queryUsers(ctx, `
		SELECT u.id, u.email, u.username, u.display_name, u.password_hash,
		       u.role, u.points_balance, u.avatar_key, u.created_at
		FROM users u
		JOIN project_leaders l ON l.user_id = u.id
		WHERE l.project_id = $1
		ORDER BY u.username`, projectID)
}

func (r *postgresProjectRepository) AddMember(ctx context.Context, projectID, userID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`,
		projectID, userID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrProjectMemberConflict
		}
		if isForeignKeyViolation(err) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

// RemoveMember drops both membership and, if present, leadership.
func (r *postgresProjectRepository) RemoveMember(ctx context.Context, projectID, userID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return err
	}
	if err := checkAffectedRows(result, ErrProjectMemberNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM project_leaders WHERE project_id = $1 AND user_id = $2`,
		projectID, userID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresProjectRepository) IsMember(ctx context.Context, projectID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID).Scan(&exists)
	return exists, err
}

func (r *postgresProjectRepository) IsLeader(ctx context.Context, projectID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM project_leaders WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID).Scan(&exists)
	return exists, err
}
