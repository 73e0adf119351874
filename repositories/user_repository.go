package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amuzant/Crewmates/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailConflict    = errors.New("email is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int, displayName string) (*models.User, error)
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error
	GetBalanceForUpdate(ctx context.Context, exec SQLExecutor, userID int) (int, error)
	AdjustPointsBalance(ctx context.Context, exec SQLExecutor, userID int, delta int) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `id, email, username, display_name, password_hash, role, points_balance, avatar_key, created_at`

func scanUser(row interface{ Scan(...interface{}) error }, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash,
		&u.Role, &u.PointsBalance, &u.AvatarKey, &u.CreatedAt,
	)
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, display_name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, points_balance, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Username, user.DisplayName, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.PointsBalance, &user.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, "users_email_key"):
			return ErrUserEmailConflict
		case isUniqueViolation(err, "users_username_key"):
			return ErrUserUsernameConflict
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username`)
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

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, id int, displayName string) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users SET display_name = $2 WHERE id = $1
		RETURNING `+userColumns, id, displayName), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar_key = $2 WHERE id = $1`, id, avatarKey)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

// GetBalanceForUpdate reads the balance under a row lock so a concurrent
// deduction in another transaction cannot slip between check and write.
func (r *postgresUserRepository) GetBalanceForUpdate(ctx context.Context, exec SQLExecutor, userID int) (int, error) {
	executor := r.getExecutor(exec)
	var balance int
	err := executor.QueryRowContext(ctx,
		`SELECT points_balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// AdjustPointsBalance applies a signed delta to the denormalized balance and
// returns the new value. Callers run it inside the same transaction as the
// matching points ledger insert.
func (r *postgresUserRepository) AdjustPointsBalance(ctx context.Context, exec SQLExecutor, userID int, delta int) (int, error) {
	executor := r.getExecutor(exec)
	var balance int
	err := executor.QueryRowContext(ctx, `
		UPDATE users SET points_balance = points_balance + $2
		WHERE id = $1
		RETURNING points_balance`, userID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}
