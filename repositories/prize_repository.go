package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amuzant/Crewmates/models"
)

var (
	ErrPrizeNotFound      = errors.New("prize not found")
	ErrPrizeClaimNotFound = errors.New("prize claim not found")
)

type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	GetByID(ctx context.Context, id int) (*models.Prize, error)
	List(ctx context.Context) ([]models.Prize, error)
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error

	AddWinnerIfAbsent(ctx context.Context, prizeID, userID int) (bool, error)
	HasWinner(ctx context.Context, prizeID, userID int) (bool, error)
	ListUnacknowledgedByUser(ctx context.Context, userID int) ([]models.Prize, error)

	GetClaim(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error)
	UpsertAcknowledged(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error)
	SetClaimed(ctx context.Context, prizeID, userID int, at time.Time) (*models.PrizeClaim, error)
}

type postgresPrizeRepository struct {
	db *sql.DB
}

func NewPostgresPrizeRepository(db *sql.DB) PrizeRepository {
	return &postgresPrizeRepository{db: db}
}

const prizeColumns = `id, name, description, photo_key, created_at`

func scanPrize(row interface{ Scan(...interface{}) error }, p *models.Prize) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.PhotoKey, &p.CreatedAt)
}

func (r *postgresPrizeRepository) Create(ctx context.Context, p *models.Prize) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO prizes (name, description, photo_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		p.Name, p.Description, p.PhotoKey,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *postgresPrizeRepository) GetByID(ctx context.Context, id int) (*models.Prize, error) {
	p := &models.Prize{}
	err := scanPrize(r.db.QueryRowContext(ctx,
		`SELECT `+prizeColumns+` FROM prizes WHERE id = $1`, id), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrizeNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPrizeRepository) List(ctx context.Context) ([]models.Prize, error) {
	return r.queryPrizes(ctx,
		`SELECT `+prizeColumns+` FROM prizes ORDER BY created_at DESC`)
}

func (r *postgresPrizeRepository) queryPrizes(ctx context.Context, query string, args ...interface{}) ([]models.Prize, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prizes []models.Prize
	for rows.Next() {
		var p models.Prize
		if err := scanPrize(rows, &p); err != nil {
			return nil, err
		}
		prizes = append(prizes, p)
	}
	return prizes, rows.Err()
}

func (r *postgresPrizeRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE prizes SET photo_key = $2 WHERE id = $1`, id, photoKey)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPrizeNotFound)
}

// AddWinnerIfAbsent records the win. The primary key on (prize_id, user_id)
// makes re-running an award a no-op. Reports whether a row was created.
func (r *postgresPrizeRepository) AddWinnerIfAbsent(ctx context.Context, prizeID, userID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO prize_winners (prize_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, prizeID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrPrizeNotFound
		}
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *postgresPrizeRepository) HasWinner(ctx context.Context, prizeID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM prize_winners WHERE prize_id = $1 AND user_id = $2)`,
		prizeID, userID).Scan(&exists)
	return exists, err
}

// ListUnacknowledgedByUser returns prizes the user has won but not yet
// acknowledged, the ones the client shows a notification for.
func (r *postgresPrizeRepository) ListUnacknowledgedByUser(ctx context.Context, userID int) ([]models.Prize, error) {
	return r.queryPrizes(ctx, `
		SELECT p.id, p.name, p.description, p.photo_key, p.created_at
		FROM prizes p
		JOIN prize_winners w ON w.prize_id = p.id AND w.user_id = $1
		WHERE NOT EXISTS (
			SELECT 1 FROM prize_claims c
			WHERE c.prize_id = p.id AND c.user_id = $1 AND c.acknowledged
		)
		ORDER BY p.created_at DESC`, userID)
}

const claimColumns = `id, prize_id, user_id, acknowledged, claimed_at, created_at`

func scanClaim(row interface{ Scan(...interface{}) error }, c *models.PrizeClaim) error {
	return row.Scan(&c.ID, &c.PrizeID, &c.UserID, &c.Acknowledged, &c.ClaimedAt, &c.CreatedAt)
}

func (r *postgresPrizeRepository) GetClaim(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
	c := &models.PrizeClaim{}
	err := scanClaim(r.db.QueryRowContext(ctx, `
		SELECT `+claimColumns+` FROM prize_claims
		WHERE prize_id = $1 AND user_id = $2`, prizeID, userID), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrizeClaimNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresPrizeRepository) UpsertAcknowledged(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
	c := &models.PrizeClaim{}
	err := scanClaim(r.db.QueryRowContext(ctx, `
		INSERT INTO prize_claims (prize_id, user_id, acknowledged)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (prize_id, user_id) DO UPDATE SET acknowledged = TRUE
		RETURNING `+claimColumns, prizeID, userID), c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresPrizeRepository) SetClaimed(ctx context.Context, prizeID, userID int, at time.Time) (*models.PrizeClaim, error) {
	c := &models.PrizeClaim{}
	err := scanClaim(r.db.QueryRowContext(ctx, `
		UPDATE prize_claims SET claimed_at = $3
		WHERE prize_id = $1 AND user_id = $2
		RETURNING `+claimColumns, prizeID, userID, at), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrizeClaimNotFound
		}
		return nil, err
	}
	return c, nil
}
