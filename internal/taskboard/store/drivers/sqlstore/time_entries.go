package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

const timeEntryColumns = `e.id, e.task_id, e.user_id, e.start_time, e.end_time, e.duration, e.note, e.created_at`

type timeEntriesRepo struct {
	q *queries
}

// CreateTimeEntry relies on the partial unique index over open entries, so
// two concurrent starts for the same pair cannot both succeed.
func (r *timeEntriesRepo) CreateTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	return r.q.insert(ctx, `
		INSERT INTO time_entries (id, task_id, user_id, start_time, end_time, duration, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TaskID, e.UserID, e.StartTime.UTC(), mapOptionalTime(e.EndTime), e.Duration, e.Note,
		e.CreatedAt.UTC(),
	)
}

func (r *timeEntriesRepo) GetOpenTimeEntry(ctx context.Context, taskID, userID string) (domain.TimeEntry, error) {
	row := r.q.queryRow(ctx, `
		SELECT `+timeEntryColumns+` FROM time_entries e
		WHERE e.task_id = ? AND e.user_id = ? AND e.end_time IS NULL`, taskID, userID)

	e, err := scanTimeEntryColumns(row)
	return e, mapNotFound(err)
}

func (r *timeEntriesRepo) CloseTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	return r.q.execOne(ctx, store.ErrConflict, `
		UPDATE time_entries SET end_time = ?, duration = ?, note = ?
		WHERE id = ? AND end_time IS NULL`,
		mapOptionalTime(e.EndTime), e.Duration, e.Note, e.ID,
	)
}

func (r *timeEntriesRepo) ListTimeEntriesByTask(ctx context.Context, taskID string) ([]domain.TimeEntry, error) {
	rows, err := r.q.query(ctx, `
		SELECT `+timeEntryColumns+` FROM time_entries e
		WHERE e.task_id = ? ORDER BY e.start_time, e.id`, taskID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (domain.TimeEntry, error) {
		return scanTimeEntryColumns(s)
	})
}

func (r *timeEntriesRepo) ListOpenTimeEntriesByUser(ctx context.Context, userID string) ([]domain.OpenEntry, error) {
	rows, err := r.q.query(ctx, `
		SELECT `+taskColumns+`, `+timeEntryColumns+`
		FROM time_entries e JOIN tasks t ON t.id = e.task_id
		WHERE e.user_id = ? AND e.end_time IS NULL
		ORDER BY e.start_time, e.id`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOpenEntry)
}

func timeEntryDest(e *domain.TimeEntry, end *sql.NullTime) []any {
	return []any{&e.ID, &e.TaskID, &e.UserID, &e.StartTime, end, &e.Duration, &e.Note, &e.CreatedAt}
}

func finishTimeEntry(e *domain.TimeEntry, end sql.NullTime) {
	e.EndTime = mapNullTimePtr(end)
	e.StartTime, e.CreatedAt = e.StartTime.UTC(), e.CreatedAt.UTC()
}

func scanTimeEntryColumns(s scanner) (domain.TimeEntry, error) {
	var (
		e   domain.TimeEntry
		end sql.NullTime
	)
	if err := s.Scan(timeEntryDest(&e, &end)...); err != nil {
		return domain.TimeEntry{}, err
	}
	finishTimeEntry(&e, end)
	return e, nil
}

func scanOpenEntry(s scanner) (domain.OpenEntry, error) {
	var (
		e   domain.TimeEntry
		end sql.NullTime
	)
	t, err := scanTaskColumns(s, timeEntryDest(&e, &end)...)
	if err != nil {
		return domain.OpenEntry{}, err
	}
	finishTimeEntry(&e, end)
	return domain.OpenEntry{Task: t, Entry: e}, nil
}
