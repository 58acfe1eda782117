// Package lifecycle owns task status transitions and the progress value
// derived from them. Callers authorize first, then let this package mutate
// the task, then save it.
package lifecycle

import (
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

// Progress is a pure function of status.
func Progress(s domain.TaskStatus) int {
	switch s {
	case domain.TaskInProgress:
		return 50
	case domain.TaskCompleted:
		return 100
	default:
		return 0
	}
}

// Init prepares a task that is about to be created. An empty status becomes
// pending.
func Init(t *domain.Task, now time.Time) error {
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	if !t.Status.Valid() {
		return domain.Validation("invalid task status %q", t.Status)
	}
	if t.Status == domain.TaskCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}

	t.CreatedAt = now
	Touch(t, now)
	return nil
}

// Transition moves t to next. Any status may be set manually. Completing
// stamps CompletedAt once; moving away from completed keeps the stamp.
func Transition(t *domain.Task, next domain.TaskStatus, now time.Time) error {
	if !next.Valid() {
		return domain.Validation("invalid task status %q", next)
	}

	t.Status = next
	if next == domain.TaskCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}

	Touch(t, now)
	return nil
}

// Begin is applied when time tracking starts: a pending task moves to
// in-progress. It reports whether the status changed. Other statuses are
// left alone, including completed.
func Begin(t *domain.Task, now time.Time) bool {
	if t.Status != domain.TaskPending {
		return false
	}

	t.Status = domain.TaskInProgress
	Touch(t, now)
	return true
}

// Touch must run on every save.
func Touch(t *domain.Task, now time.Time) {
	t.Progress = Progress(t.Status)
	t.UpdatedAt = now
}
