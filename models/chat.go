package models

import "time"

type Chat struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatorID int       `json:"creator_id" db:"creator_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Members      []ChatMember `json:"members,omitempty" db:"-"`
	MessageCount int          `json:"message_count" db:"-"`
}

type ChatMember struct {
	ChatID  int  `json:"chat_id" db:"chat_id"`
	UserID  int  `json:"user_id" db:"user_id"`
	IsAdmin bool `json:"is_admin" db:"is_admin"`

	User *UserRef `json:"user,omitempty" db:"-"`
}
