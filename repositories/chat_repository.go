package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amuzant/Crewmates/models"
)

var (
	ErrChatNotFound     = errors.New("chat not found")
	ErrChatNameConflict = errors.New("group name already exists")
)

type ChatRepository interface {
	CreateGroup(ctx context.Context, chat *models.Chat, memberIDs []int) error
	GetByID(ctx context.Context, id int) (*models.Chat, error)
	NameExists(ctx context.Context, name string) (bool, error)
	ListForUser(ctx context.Context, userID int) ([]models.Chat, error)
	ListMembers(ctx context.Context, chatID int) ([]models.ChatMember, error)
	IsMember(ctx context.Context, chatID, userID int) (bool, error)
}

type postgresChatRepository struct {
	db *sql.DB
}

func NewPostgresChatRepository(db *sql.DB) ChatRepository {
	return &postgresChatRepository{db: db}
}

// CreateGroup inserts the chat and all memberships in one transaction. The
// creator becomes the chat admin regardless of the member list.
func (r *postgresChatRepository) CreateGroup(ctx context.Context, chat *models.Chat, memberIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO chats (name, creator_id)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		chat.Name, chat.CreatorID,
	).Scan(&chat.ID, &chat.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "chats_name_key") {
			return ErrChatNameConflict
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_members (chat_id, user_id, is_admin) VALUES ($1, $2, TRUE)`,
		chat.ID, chat.CreatorID); err != nil {
		return err
	}
	for _, id := range memberIDs {
		if id == chat.CreatorID {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chat_members (chat_id, user_id, is_admin)
			VALUES ($1, $2, FALSE)
			ON CONFLICT DO NOTHING`,
			chat.ID, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *postgresChatRepository) GetByID(ctx context.Context, id int) (*models.Chat, error) {
	c := &models.Chat{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, creator_id, created_at FROM chats WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatorID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresChatRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM chats WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *postgresChatRepository) ListForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.creator_id, c.created_at,
		       (SELECT COUNT(*) FROM messages msg WHERE msg.chat_id = c.id AND NOT msg.is_deleted)
		FROM chats c
		JOIN chat_members m ON m.chat_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatorID, &c.CreatedAt, &c.MessageCount); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (r *postgresChatRepository) ListMembers(ctx context.Context, chatID int) ([]models.ChatMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.chat_id, m.user_id, m.is_admin, u.id, u.username, u.display_name
		FROM chat_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.chat_id = $1
		ORDER BY u.username`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.ChatMember
	for rows.Next() {
		var (
			m   models.ChatMember
			ref models.UserRef
		)
		if err := rows.Scan(&m.ChatID, &m.UserID, &m.IsAdmin,
			&ref.ID, &ref.Username, &ref.DisplayName); err != nil {
			return nil, err
		}
		m.User = &ref
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresChatRepository) IsMember(ctx context.Context, chatID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM chat_members WHERE chat_id = $1 AND user_id = $2)`,
		chatID, userID).Scan(&exists)
	return exists, err
}
