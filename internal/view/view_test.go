package view

import (
	"testing"
	"time"

	"taskdeck/internal/db/models"
)

func taskFixture() []models.Task {
	due := time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)
	return []models.Task{
		{ID: "1", Title: "A", Priority: models.PriorityHigh, Completed: false},
		{ID: "2", Title: "B", Priority: models.PriorityLow, Completed: true},
		{ID: "3", Title: "Groceries", Description: "Buy milk and bread", Priority: models.PriorityMedium, DueDate: &due},
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyFilters(t *testing.T) {
	tasks := taskFixture()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"1", "2", "3"}},
		{"high and active", Filter{Priority: PriorityHigh, Status: StatusActive}, []string{"1"}},
		{"search case-insensitive title", Filter{Search: "b"}, []string{"2", "3"}},
		{"search matches description", Filter{Search: "MILK"}, []string{"3"}},
		{"status completed", Filter{Status: StatusCompleted}, []string{"2"}},
		{"status active", Filter{Status: StatusActive}, []string{"1", "3"}},
		{"priority all is no filter", Filter{Priority: PriorityAll}, []string{"1", "2", "3"}},
		{"no match", Filter{Search: "nonexistent"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(tasks, tt.filter))
			if !equalIDs(got, tt.want...) {
				t.Errorf("Apply(%+v): got %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestApplyDayFilter(t *testing.T) {
	tasks := taskFixture()

	// Same calendar day, different time of day
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	got := ids(Apply(tasks, Filter{Day: &day}))
	if !equalIDs(got, "3") {
		t.Errorf("day filter: got %v, want [3]", got)
	}

	other := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	got = ids(Apply(tasks, Filter{Day: &other}))
	if len(got) != 0 {
		t.Errorf("day filter for empty day: got %v, want none", got)
	}
}

func TestFiltersComposeIndependently(t *testing.T) {
	tasks := taskFixture()

	// Applying a status filter and then resetting it to "all" must give
	// the same result as never setting it, with other criteria intact.
	base := Filter{Search: "b", Priority: PriorityAll}

	narrowed := base
	narrowed.Status = StatusCompleted
	widened := narrowed
	widened.Status = StatusAll

	if got, want := ids(Apply(tasks, widened)), ids(Apply(tasks, base)); !equalIDs(got, want...) {
		t.Errorf("status all after completed: got %v, want %v", got, want)
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	tasks := []models.Task{
		{ID: "z", Title: "same"},
		{ID: "a", Title: "same"},
		{ID: "m", Title: "same"},
	}
	got := ids(Apply(tasks, Filter{Search: "same"}))
	if !equalIDs(got, "z", "a", "m") {
		t.Errorf("order not preserved: got %v", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	tasks := taskFixture()
	Apply(tasks, Filter{Status: StatusCompleted})
	if !equalIDs(ids(tasks), "1", "2", "3") {
		t.Errorf("input mutated: %v", ids(tasks))
	}
}

func TestCount(t *testing.T) {
	stats := Count(taskFixture())
	if stats.Total != 3 {
		t.Errorf("Total: got %d, want 3", stats.Total)
	}
	if stats.Completed != 1 {
		t.Errorf("Completed: got %d, want 1", stats.Completed)
	}
	if stats.Active != 2 {
		t.Errorf("Active: got %d, want 2", stats.Active)
	}
	if stats.HighActive != 1 {
		t.Errorf("HighActive: got %d, want 1", stats.HighActive)
	}
}

func TestDueDays(t *testing.T) {
	morning := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC)
	next := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{ID: "1", DueDate: &morning},
		{ID: "2", DueDate: &evening},
		{ID: "3", DueDate: &next},
		{ID: "4"},
	}

	days := DueDays(tasks)
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	if !days[0].Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first day: got %v", days[0])
	}
	if !days[1].Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second day: got %v", days[1])
	}
}
