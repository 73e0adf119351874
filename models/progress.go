package models

import "time"

// Progress is a member's status note for a project, one row per
// (project, user), replaced in place on re-post.
type Progress struct {
	ID        int       `json:"id" db:"id"`
	ProjectID int       `json:"project_id" db:"project_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	User *UserRef `json:"user,omitempty" db:"-"`
}
