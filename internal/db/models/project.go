package models

import (
	"time"
)

// Project groups tasks under a named bucket. Tasks reference projects by
// id only; nothing cascades when a project goes away.
type Project struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateProjectInput carries the caller-supplied fields for a new project.
type CreateProjectInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon"`
}
