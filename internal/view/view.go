// Package view derives filtered projections and aggregates from a task
// collection. Everything here is pure: no I/O, no mutation of the
// input, and the input order (newest first) is always preserved.
package view

import (
	"strings"
	"time"

	"taskdeck/internal/db/models"
)

// PriorityFilter selects tasks by priority bucket.
type PriorityFilter string

const (
	PriorityAll    PriorityFilter = "all"
	PriorityLow    PriorityFilter = "low"
	PriorityMedium PriorityFilter = "medium"
	PriorityHigh   PriorityFilter = "high"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// Filter is the view configuration. Zero values mean "no filtering":
// empty search matches everything, empty priority/status behave as
// "all", nil Day disables the calendar restriction.
type Filter struct {
	Search   string
	Priority PriorityFilter
	Status   StatusFilter
	Day      *time.Time
}

// sameDay compares by calendar day, ignoring time of day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Apply returns the tasks matching the filter, in the input order. The
// individual criteria compose independently; their combined effect does
// not depend on the order they are written here.
func Apply(tasks []models.Task, f Filter) []models.Task {
	search := strings.ToLower(f.Search)

	out := []models.Task{}
	for _, t := range tasks {
		if f.Day != nil {
			if t.DueDate == nil || !sameDay(*t.DueDate, *f.Day) {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		switch f.Priority {
		case "", PriorityAll:
		default:
			if string(t.Priority) != string(f.Priority) {
				continue
			}
		}
		switch f.Status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Stats are the aggregate counts shown alongside the list.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Active     int `json:"active"`
	HighActive int `json:"highPriorityActive"`
}

// Count derives the aggregate counts for the full collection.
func Count(tasks []models.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			continue
		}
		s.Active++
		if t.Priority == models.PriorityHigh {
			s.HighActive++
		}
	}
	return s
}

// DueDays returns the distinct calendar days (midnight UTC) that have
// at least one task with a due date, for calendar highlighting.
func DueDays(tasks []models.Task) []time.Time {
	seen := map[time.Time]bool{}
	days := []time.Time{}
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		y, m, d := t.DueDate.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}
