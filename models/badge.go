package models

import "time"

// BadgeType mirrors the badge_type ENUM in the database.
type BadgeType string

const (
	BadgeGoldTrophy   BadgeType = "GOLD_TROPHY"
	BadgeSilverTrophy BadgeType = "SILVER_TROPHY"
	BadgeBronzeTrophy BadgeType = "BRONZE_TROPHY"
)

// BadgeTypeForRank maps a top-3 sprint rank to its trophy. Ranks outside 1..3
// earn nothing.
func BadgeTypeForRank(rank int) (BadgeType, bool) {
	switch rank {
	case 1:
		return BadgeGoldTrophy, true
	case 2:
		return BadgeSilverTrophy, true
	case 3:
		return BadgeBronzeTrophy, true
	}
	return "", false
}

func (t BadgeType) DisplayName() string {
	switch t {
	case BadgeGoldTrophy:
		return "Gold Trophy"
	case BadgeSilverTrophy:
		return "Silver Trophy"
	case BadgeBronzeTrophy:
		return "Bronze Trophy"
	}
	return string(t)
}

func (t BadgeType) Description() string {
	switch t {
	case BadgeGoldTrophy:
		return "Awarded for achieving first place in a sprint"
	case BadgeSilverTrophy:
		return "Awarded for achieving second place in a sprint"
	case BadgeBronzeTrophy:
		return "Awarded for achieving third place in a sprint"
	}
	return ""
}

// Badge is a permanent per-user award. A user holds at most one badge of a
// given type, enforced by a unique constraint on (user_id, type).
type Badge struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Type        BadgeType `json:"type" db:"type"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
