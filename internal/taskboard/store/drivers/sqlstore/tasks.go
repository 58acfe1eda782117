package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

const taskColumns = `t.id, t.project_id, t.organization_id, t.title, t.description, t.created_by, t.assigned_to,
	t.status, t.priority, t.due_date, t.start_date, t.completed_at, t.estimated_hours, t.tags,
	t.total_time_spent, t.progress, t.created_at, t.updated_at`

type tasksRepo struct {
	q *queries
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}

	return r.q.insert(ctx, `
		INSERT INTO tasks (id, project_id, organization_id, title, description, created_by, assigned_to,
			status, priority, due_date, start_date, completed_at, estimated_hours, tags,
			total_time_spent, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.OrganizationID, t.Title, t.Description, t.CreatedBy, mapStringNull(t.AssignedTo),
		string(t.Status), string(t.Priority), mapOptionalTime(t.DueDate), mapOptionalTime(t.StartDate),
		mapOptionalTime(t.CompletedAt), t.EstimatedHours, tags,
		t.TotalTimeSpent, t.Progress, t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	return scanTask(r.q.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id))
}

func (r *tasksRepo) ListTasks(ctx context.Context, f store.TaskFilter) ([]domain.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.OrganizationID != "" {
		where = append(where, `t.organization_id = ?`)
		args = append(args, f.OrganizationID)
	}
	if f.ProjectID != "" {
		where = append(where, `t.project_id = ?`)
		args = append(args, f.ProjectID)
	}
	if f.InvolvedUserID != "" {
		where = append(where, `(t.created_by = ? OR t.assigned_to = ?)`)
		args = append(args, f.InvolvedUserID, f.InvolvedUserID)
	}
	if f.AssignedTo != "" {
		where = append(where, `t.assigned_to = ?`)
		args = append(args, f.AssignedTo)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks t`)
	if len(where) > 0 {
		b.WriteString(` WHERE ` + strings.Join(where, ` AND `))
	}
	b.WriteString(` ORDER BY t.updated_at DESC, t.id DESC`)
	if f.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := r.q.query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTask)
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}

	return r.q.execOne(ctx, store.ErrNotFound, `
		UPDATE tasks SET title = ?, description = ?, assigned_to = ?, status = ?, priority = ?,
			due_date = ?, start_date = ?, completed_at = ?, estimated_hours = ?, tags = ?,
			total_time_spent = ?, progress = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, mapStringNull(t.AssignedTo), string(t.Status), string(t.Priority),
		mapOptionalTime(t.DueDate), mapOptionalTime(t.StartDate), mapOptionalTime(t.CompletedAt),
		t.EstimatedHours, tags, t.TotalTimeSpent, t.Progress, t.UpdatedAt.UTC(), t.ID,
	)
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	return r.q.execOne(ctx, store.ErrNotFound, `DELETE FROM tasks WHERE id = ?`, id)
}

func scanTask(s scanner) (domain.Task, error) {
	t, err := scanTaskColumns(s)
	return t, mapNotFound(err)
}

// scanTaskColumns reads taskColumns followed by any extra destinations.
func scanTaskColumns(s scanner, extra ...any) (domain.Task, error) {
	var (
		t                         domain.Task
		assignee                  sql.NullString
		status, priority, tags    string
		due, start, completedDate sql.NullTime
	)
	dest := append([]any{
		&t.ID, &t.ProjectID, &t.OrganizationID, &t.Title, &t.Description, &t.CreatedBy, &assignee,
		&status, &priority, &due, &start, &completedDate, &t.EstimatedHours, &tags,
		&t.TotalTimeSpent, &t.Progress, &t.CreatedAt, &t.UpdatedAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return domain.Task{}, err
	}

	var err error
	if t.Tags, err = decodeTags(tags); err != nil {
		return domain.Task{}, err
	}

	t.AssignedTo = mapNullString(assignee)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.DueDate = mapNullTimePtr(due)
	t.StartDate = mapNullTimePtr(start)
	t.CompletedAt = mapNullTimePtr(completedDate)
	t.CreatedAt, t.UpdatedAt = t.CreatedAt.UTC(), t.UpdatedAt.UTC()
	return t, nil
}
