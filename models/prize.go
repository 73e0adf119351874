package models

import "time"

type Prize struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	PhotoKey    *string   `json:"-" db:"photo_key"`
	PhotoURL    *string   `json:"photo,omitempty" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PrizeClaim tracks the won -> acknowledged -> claimed lifecycle of a prize
// for one winner. States only move forward. Unique on (prize_id, user_id).
type PrizeClaim struct {
	ID           int        `json:"id" db:"id"`
	PrizeID      int        `json:"prize_id" db:"prize_id"`
	UserID       int        `json:"user_id" db:"user_id"`
	Acknowledged bool       `json:"acknowledged" db:"acknowledged"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty" db:"claimed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
