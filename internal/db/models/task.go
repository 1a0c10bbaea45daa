package models

import (
	"time"
)

// Priority is the urgency bucket of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the domain shape of a to-do item. The store assigns ID,
// CreatedAt and UpdatedAt; UserID never changes after creation.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	ProjectID   string     `json:"projectId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the task. The sync cache hands copies to
// callers so nobody can mutate cached state behind its back.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}

// CreateTaskInput carries the caller-supplied fields for a new task.
// Tag order is preserved as given; duplicates are kept.
type CreateTaskInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
	ProjectID   string     `json:"projectId"`
}

// UpdateTaskInput is a partial update: nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string    `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *Priority  `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        *[]string  `json:"tags"`
	ProjectID   *string    `json:"projectId"`
}

// Empty reports whether the patch touches nothing.
func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Completed == nil &&
		in.Priority == nil && in.DueDate == nil && in.Tags == nil && in.ProjectID == nil
}

// ApplyTo overlays the present fields onto t and bumps UpdatedAt.
func (in UpdateTaskInput) ApplyTo(t *Task, now time.Time) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		d := *in.DueDate
		t.DueDate = &d
	}
	if in.Tags != nil {
		t.Tags = append([]string(nil), *in.Tags...)
	}
	if in.ProjectID != nil {
		t.ProjectID = *in.ProjectID
	}
	t.UpdatedAt = now
}
