package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/amuzant/Crewmates/models"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, exec SQLExecutor, kind models.OutboxTaskKind, payload interface{}) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.OutboxTask, error)
	MarkDone(ctx context.Context, id int64) error
	Reschedule(ctx context.Context, id int64, nextAttempt time.Time, taskErr string) error
	MarkFailed(ctx context.Context, id int64, taskErr string) error
}

type postgresOutboxRepository struct {
	db *sql.DB
}

func NewPostgresOutboxRepository(db *sql.DB) OutboxRepository {
	return &postgresOutboxRepository{db: db}
}

func (r *postgresOutboxRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Enqueue writes a pending task. Callers pass the transaction of the state
// change that produced the task, so task and change commit or abort together.
func (r *postgresOutboxRepository) Enqueue(ctx context.Context, exec SQLExecutor, kind models.OutboxTaskKind, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	executor := r.getExecutor(exec)
	_, err = executor.ExecContext(ctx, `
		INSERT INTO outbox_tasks (kind, payload) VALUES ($1, $2)`, kind, body)
	return err
}

// ClaimDue picks up to limit pending tasks whose next attempt is due, bumping
// the attempt counter so a crashed dispatcher run still counts against the
// retry budget. FOR UPDATE SKIP LOCKED keeps concurrent dispatchers from
// claiming the same row.
func (r *postgresOutboxRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.OutboxTask, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE outbox_tasks SET attempts = attempts + 1, updated_at = $1
		WHERE id IN (
			SELECT id FROM outbox_tasks
			WHERE status = 'pending' AND next_attempt_at <= $1
			ORDER BY next_attempt_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, payload, status, attempts, next_attempt_at, last_error, created_at, updated_at`,
		now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.OutboxTask
	for rows.Next() {
		var t models.OutboxTask
		if err := rows.Scan(&t.ID, &t.Kind, &t.Payload, &t.Status, &t.Attempts,
			&t.NextAttemptAt, &t.LastError, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *postgresOutboxRepository) MarkDone(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox_tasks SET status = 'done', last_error = NULL, updated_at = now()
		WHERE id = $1`, id)
	return err
}

func (r *postgresOutboxRepository) Reschedule(ctx context.Context, id int64, nextAttempt time.Time, taskErr string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox_tasks SET next_attempt_at = $2, last_error = $3, updated_at = now()
		WHERE id = $1`, id, nextAttempt, taskErr)
	return err
}

func (r *postgresOutboxRepository) MarkFailed(ctx context.Context, id int64, taskErr string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox_tasks SET status = 'failed', last_error = $2, updated_at = now()
		WHERE id = $1`, id, taskErr)
	return err
}
