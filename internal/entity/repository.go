package entity

import "time"

// Repository is a source-control repository as listed by the hosting provider.
type Repository struct {
	Name        string
	Description string
	HTMLURL     string
	Homepage    string
	IsFork      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Repository) HasHomepage() bool { return r.Homepage != "" }

// RepositoryTeaser is the censored, publicly listable view of a Repository.
type RepositoryTeaser struct {
	ID          ID        `json:"id"`
	DisplayName string    `json:"displayName"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
