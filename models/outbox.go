package models

import (
	"encoding/json"
	"time"
)

type OutboxTaskKind string

const (
	TaskAwardBadges OutboxTaskKind = "award_badges"
	TaskAwardPrize  OutboxTaskKind = "award_prize"
)

type OutboxTaskStatus string

const (
	TaskPending OutboxTaskStatus = "pending"
	TaskDone    OutboxTaskStatus = "done"
	TaskFailed  OutboxTaskStatus = "failed"
)

// OutboxTask is a unit of deferred work committed in the same transaction as
// the state change that produced it. The dispatcher polls pending tasks and
// retries with backoff until they succeed or run out of attempts.
type OutboxTask struct {
	ID            int64            `json:"id" db:"id"`
	Kind          OutboxTaskKind   `json:"kind" db:"kind"`
	Payload       json.RawMessage  `json:"payload" db:"payload"`
	Status        OutboxTaskStatus `json:"status" db:"status"`
	Attempts      int              `json:"attempts" db:"attempts"`
	NextAttemptAt time.Time        `json:"next_attempt_at" db:"next_attempt_at"`
	LastError     *string          `json:"last_error,omitempty" db:"last_error"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// AwardBadgesPayload is the payload of a TaskAwardBadges task.
type AwardBadgesPayload struct {
	ProjectID int       `json:"project_id"`
	Rank      int       `json:"rank"`
	BadgeType BadgeType `json:"badge_type"`
}

// AwardPrizePayload is the payload of a TaskAwardPrize task.
type AwardPrizePayload struct {
	ProjectID int `json:"project_id"`
	SprintID  int `json:"sprint_id"`
}
