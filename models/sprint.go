package models

import "time"

// Sprint is a fixed time-boxed period against which projects are ranked.
// Date ranges of different sprints never overlap.
type Sprint struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     time.Time  `json:"end_date" db:"end_date"`
	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	HasPrize    bool       `json:"has_prize" db:"has_prize"`
	PrizeID     *int       `json:"prize_id,omitempty" db:"prize_id"`
	LastUpdated *time.Time `json:"last_updated,omitempty" db:"last_updated"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	Prize *Prize `json:"prize,omitempty" db:"-"`
}
