package domain

import "time"

// TimeEntry is one stretch of work on a task by a user. An entry without an
// EndTime is open; Duration is only meaningful once it is closed.
type TimeEntry struct {
	ID        string
	TaskID    string
	UserID    string
	StartTime time.Time
	EndTime   *time.Time
	Duration  int // whole minutes
	Note      string
	CreatedAt time.Time
}

func (e TimeEntry) Open() bool { return e.EndTime == nil }

// ActiveEntry is an open entry annotated with the minutes elapsed so far.
// ElapsedMinutes is computed on read and never stored.
type ActiveEntry struct {
	Entry          TimeEntry
	ElapsedMinutes int
}

// OpenEntry is an open time entry together with the task it belongs to.
type OpenEntry struct {
	Task  Task
	Entry TimeEntry
}
