package models

import "time"

// Reward is a point-shop item defined by an admin. Claiming one deducts its
// cost from the claimant's balance.
type Reward struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Cost        int       `json:"cost" db:"cost"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	ClaimCount int `json:"claim_count" db:"-"`
}

type RewardClaim struct {
	ID        int       `json:"id" db:"id"`
	RewardID  int       `json:"reward_id" db:"reward_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
