package models

import "time"

// PointsEntry is one row of the append-only points ledger. The denormalized
// users.points_balance column is adjusted in the same transaction as every
// insert, so balance == sum(amount) holds under sequential operations.
type PointsEntry struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Amount    int       `json:"amount" db:"amount"`
	Reason    string    `json:"reason" db:"reason"`
	IsReward  bool      `json:"is_reward" db:"is_reward"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *UserRef `json:"user,omitempty" db:"-"`
}
