package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amuzant/Crewmates/models"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int) (*models.Message, error)
	ListDirect(ctx context.Context, userA, userB int) ([]models.Message, error)
	ListByChat(ctx context.Context, chatID int) ([]models.Message, error)
	UpdateContent(ctx context.Context, id, senderID int, content string, at time.Time) (*models.Message, error)
	SoftDelete(ctx context.Context, id, senderID int) error
}

type postgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) Create(ctx context.Context, m *models.Message) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (content, sender_id, receiver_id, chat_id, is_group_message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		m.Content, m.SenderID, m.ReceiverID, m.ChatID, m.IsGroupMessage,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return ErrUserNotFound
	}
	return err
}

func (r *postgresMessageRepository) GetByID(ctx context.Context, id int) (*models.Message, error) {
	m := &models.Message{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, content, sender_id, receiver_id, chat_id, is_group_message, is_deleted, created_at, updated_at
		FROM messages WHERE id = $1`, id).Scan(
		&m.ID, &m.Content, &m.SenderID, &m.ReceiverID, &m.ChatID,
		&m.IsGroupMessage, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

const messageWithSenderQuery = `
	SELECT m.id, m.content, m.sender_id, m.receiver_id, m.chat_id,
	       m.is_group_message, m.created_at, m.updated_at,
	       u.id, u.username, u.display_name
	FROM messages m
	JOIN users u ON u.id = m.sender_id`

func (r *postgresMessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var (
			m   models.Message
			ref models.UserRef
		)
		if err := rows.Scan(&m.ID, &m.Content, &m.SenderID, &m.ReceiverID, &m.ChatID,
			&m.IsGroupMessage, &m.CreatedAt, &m.UpdatedAt,
			&ref.ID, &ref.Username, &ref.DisplayName); err != nil {
			return nil, err
		}
		m.Sender = &ref
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListDirect returns the two users' direct thread in both directions,
// tombstones excluded, oldest first.
func (r *postgresMessageRepository) ListDirect(ctx context.Context, userA, userB int) ([]models.Message, error) {
	return r.queryMessages(ctx, messageWithSenderQuery+`
		WHERE NOT m.is_group_message AND NOT m.is_deleted
		  AND ((m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1))
		ORDER BY m.created_at ASC`, userA, userB)
}

func (r *postgresMessageRepository) ListByChat(ctx context.Context, chatID int) ([]models.Message, error) {
	return r.queryMessages(ctx, messageWithSenderQuery+`
		WHERE m.chat_id = $1 AND m.is_group_message AND NOT m.is_deleted
		ORDER BY m.created_at ASC`, chatID)
}

func (r *postgresMessageRepository) UpdateContent(ctx context.Context, id, senderID int, content string, at time.Time) (*models.Message, error) {
	m := &models.Message{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE messages SET content = $3, updated_at = $4
		WHERE id = $1 AND sender_id = $2 AND NOT is_deleted
		RETURNING id, content, sender_id, receiver_id, chat_id, is_group_message, is_deleted, created_at, updated_at`,
		id, senderID, content, at,
	).Scan(&m.ID, &m.Content, &m.SenderID, &m.ReceiverID, &m.ChatID,
		&m.IsGroupMessage, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMessageRepository) SoftDelete(ctx context.Context, id, senderID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND sender_id = $2 AND NOT is_deleted`, id, senderID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMessageNotFound)
}
