// Package ledger holds the time-tracking arithmetic: opening and closing
// entries, whole-minute durations and task totals. Persistence and the
// one-open-entry guard live in the store; this package never touches it.
package ledger

import (
	"iter"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

// Duration returns the whole minutes between start and end, rounded down.
// An end before start is rejected rather than producing a negative value.
func Duration(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, domain.InvalidTimeRange()
	}
	return int(end.Sub(start) / time.Minute), nil
}

// Elapsed is the live minute count of an open entry. Clock skew that puts
// now before start reads as zero.
func Elapsed(start, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	return int(now.Sub(start) / time.Minute)
}

// Open returns a new open entry for (taskID, userID) starting at now.
func Open(id, taskID, userID string, now time.Time) domain.TimeEntry {
	return domain.TimeEntry{
		ID:        id,
		TaskID:    taskID,
		UserID:    userID,
		StartTime: now,
		CreatedAt: now,
	}
}

// Close ends e at end and records its duration and note. A non-empty note
// replaces any existing one.
func Close(e *domain.TimeEntry, end time.Time, note string) error {
	if !e.Open() {
		return domain.NoActiveEntry()
	}

	d, err := Duration(e.StartTime, end)
	if err != nil {
		return err
	}

	e.EndTime = &end
	e.Duration = d
	if note != "" {
		e.Note = note
	}
	return nil
}

// Total sums the durations of the closed entries. Open entries count for
// nothing until they are stopped.
func Total(entries []domain.TimeEntry) int {
	var total int
	for _, e := range entries {
		if !e.Open() {
			total += e.Duration
		}
	}
	return total
}

// Active yields each open entry with its task, computing elapsed minutes
// with now at the moment the pair is produced.
func Active(open []domain.OpenEntry, now func() time.Time) iter.Seq2[domain.Task, domain.ActiveEntry] {
	return func(yield func(domain.Task, domain.ActiveEntry) bool) {
		for _, oe := range open {
			if !oe.Entry.Open() {
				continue
			}
			active := domain.ActiveEntry{
				Entry:          oe.Entry,
				ElapsedMinutes: Elapsed(oe.Entry.StartTime, now()),
			}
			if !yield(oe.Task, active) {
				return
			}
		}
	}
}
