package models

import "time"

// Message is a chat message, either direct (receiver_id set) or group
// (chat_id set, is_group_message true). Deleted messages are kept as
// tombstones and filtered from reads.
type Message struct {
	ID             int       `json:"id" db:"id"`
	Content        string    `json:"content" db:"content"`
	SenderID       int       `json:"sender_id" db:"sender_id"`
	ReceiverID     *int      `json:"receiver_id,omitempty" db:"receiver_id"`
	ChatID         *int      `json:"chat_id,omitempty" db:"chat_id"`
	IsGroupMessage bool      `json:"is_group_message" db:"is_group_message"`
	IsDeleted      bool      `json:"-" db:"is_deleted"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	Sender *UserRef `json:"sender,omitempty" db:"-"`
}
