package domain

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

type Task struct {
	ID             string
	ProjectID      string
	OrganizationID string // copied from the project at creation
	Title          string
	Description    string
	CreatedBy      string
	AssignedTo     string // empty when unassigned
	Status         TaskStatus
	Priority       Priority
	DueDate        *time.Time
	StartDate      *time.Time
	CompletedAt    *time.Time
	EstimatedHours float64
	Tags           []string
	TotalTimeSpent int // minutes, sum of closed entry durations
	Progress       int // percent, derived from Status
	TimeEntries    []TimeEntry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskPatch lists the mutable task fields. Nil means unchanged; a non-nil
// empty AssignedTo unassigns.
type TaskPatch struct {
	Title          *string
	Description    *string
	AssignedTo     *string
	Status         *TaskStatus
	Priority       *Priority
	DueDate        *time.Time
	StartDate      *time.Time
	EstimatedHours *float64
	Tags           *[]string
}

// Apply copies the set fields, except Status, onto t. Status changes go
// through the lifecycle package so completedAt and progress stay coherent.
func (tp TaskPatch) Apply(t *Task) {
	if tp.Title != nil {
		t.Title = *tp.Title
	}
	if tp.Description != nil {
		t.Description = *tp.Description
	}
	if tp.AssignedTo != nil {
		t.AssignedTo = *tp.AssignedTo
	}
	if tp.Priority != nil {
		t.Priority = *tp.Priority
	}
	if tp.DueDate != nil {
		t.DueDate = tp.DueDate
	}
	if tp.StartDate != nil {
		t.StartDate = tp.StartDate
	}
	if tp.EstimatedHours != nil {
		t.EstimatedHours = *tp.EstimatedHours
	}
	if tp.Tags != nil {
		t.Tags = *tp.Tags
	}
}
