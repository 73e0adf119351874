package models

import "time"

type Project struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	SprintID    *int      `json:"sprint_id,omitempty" db:"sprint_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Sprint  *Sprint `json:"sprint,omitempty" db:"-"`
	Members []User  `json:"members,omitempty" db:"-"`
	Leaders []User  `json:"leaders,omitempty" db:"-"`
}

// ProjectRef is the trimmed representation nested inside ranking rows.
type ProjectRef struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (p *Project) Ref() ProjectRef {
	return ProjectRef{ID: p.ID, Name: p.Name, Description: p.Description}
}
