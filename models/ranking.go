package models

// Ranking places a project within a completed sprint. For a given sprint the
// rank values form a dense sequence starting at 1, one row per project; the
// whole set is replaced on every submission.
type Ranking struct {
	ID        int `json:"id" db:"id"`
	SprintID  int `json:"sprint_id" db:"sprint_id"`
	ProjectID int `json:"project_id" db:"project_id"`
	Rank      int `json:"rank" db:"rank"`

	Project *ProjectRef `json:"project,omitempty" db:"-"`
}
