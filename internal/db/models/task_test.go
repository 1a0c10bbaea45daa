package models

import (
	"strings"
	"testing"
	"time"
)

func TestCreateTaskInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr bool
	}{
		{"valid minimal", CreateTaskInput{Title: "Buy milk"}, false},
		{"empty title", CreateTaskInput{Title: ""}, true},
		{"title at limit", CreateTaskInput{Title: strings.Repeat("x", 200)}, false},
		{"title over limit", CreateTaskInput{Title: strings.Repeat("x", 201)}, true},
		{"valid priority", CreateTaskInput{Title: "t", Priority: PriorityHigh}, false},
		{"invalid priority", CreateTaskInput{Title: "t", Priority: "urgent"}, true},
		{"empty priority allowed", CreateTaskInput{Title: "t", Priority: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("error is not a ValidationError: %v", err)
			}
		})
	}
}

func TestUpdateTaskInputValidate(t *testing.T) {
	long := strings.Repeat("x", 201)
	empty := ""
	ok := "new title"
	bad := Priority("urgent")

	tests := []struct {
		name    string
		input   UpdateTaskInput
		wantErr bool
	}{
		{"nothing set", UpdateTaskInput{}, false},
		{"valid title", UpdateTaskInput{Title: &ok}, false},
		{"empty title rejected", UpdateTaskInput{Title: &empty}, true},
		{"long title rejected", UpdateTaskInput{Title: &long}, true},
		{"invalid priority rejected", UpdateTaskInput{Priority: &bad}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateTaskInputApplyToTouchesOnlyPresentFields(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "1",
		Title:       "original",
		Description: "keep me",
		Priority:    PriorityHigh,
		Tags:        []string{"a", "b"},
		DueDate:     &due,
	}

	low := PriorityLow
	in := UpdateTaskInput{Priority: &low}
	now := time.Now()
	in.ApplyTo(&task, now)

	if task.Priority != PriorityLow {
		t.Errorf("priority not applied: %v", task.Priority)
	}
	if task.Title != "original" || task.Description != "keep me" {
		t.Errorf("unrelated fields touched: %+v", task)
	}
	if len(task.Tags) != 2 || task.Tags[0] != "a" {
		t.Errorf("tags touched: %v", task.Tags)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("due date touched: %v", task.DueDate)
	}
	if !task.UpdatedAt.Equal(now) {
		t.Errorf("updatedAt not bumped: %v", task.UpdatedAt)
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	due := time.Now()
	task := Task{ID: "1", Tags: []string{"a"}, DueDate: &due}

	clone := task.Clone()
	clone.Tags[0] = "changed"
	*clone.DueDate = due.Add(time.Hour)

	if task.Tags[0] != "a" {
		t.Errorf("tags shared between clone and original")
	}
	if !task.DueDate.Equal(due) {
		t.Errorf("due date shared between clone and original")
	}
}

func TestUpdateTaskInputEmpty(t *testing.T) {
	if !(UpdateTaskInput{}).Empty() {
		t.Error("zero patch should be empty")
	}
	done := true
	if (UpdateTaskInput{Completed: &done}).Empty() {
		t.Error("patch with a field should not be empty")
	}
}
