package models

import "time"

// UserRole mirrors the user_role ENUM in the database.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleTeamLeader UserRole = "TEAM_LEADER"
	RoleTeamMember UserRole = "TEAM_MEMBER"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeamLeader, RoleTeamMember:
		return true
	}
	return false
}

type User struct {
	ID            int       `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	Username      string    `json:"username" db:"username"`
	DisplayName   string    `json:"display_name" db:"display_name"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Role          UserRole  `json:"role" db:"role"`
	PointsBalance int       `json:"points_balance" db:"points_balance"`
	AvatarKey     *string   `json:"-" db:"avatar_key"`
	AvatarURL     *string   `json:"avatar_url,omitempty" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Badges []Badge `json:"badges,omitempty" db:"-"`
}

// UserRef is the trimmed representation embedded in messages, progress
// entries and similar payloads.
type UserRef struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}
