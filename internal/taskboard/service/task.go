package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/access"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/ledger"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/lifecycle"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// RecentTaskLimit caps TaskService.Recent.
const RecentTaskLimit = 10

type TaskService struct {
	Deps
}

// NewTask is a task creation request.
type NewTask struct {
	ProjectID      string
	Title          string
	Description    string
	AssignedTo     string
	Status         domain.TaskStatus
	Priority       domain.Priority
	DueDate        *time.Time
	StartDate      *time.Time
	EstimatedHours float64
	Tags           []string
}

// Create adds a task to a project the caller may create tasks in.
func (s *TaskService) Create(ctx context.Context, id domain.Identity, in NewTask) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	title, err := domain.RequireText("title", in.Title)
	if err != nil {
		return domain.Task{}, err
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, in.ProjectID, access.CreateTask)
	if err != nil {
		log.Warn("task creation rejected", slog.String("project_id", in.ProjectID), slog.Any("error", err))
		return domain.Task{}, err
	}

	now := s.Now()
	t := domain.Task{
		ID:             idx.NewAt(now).String(),
		ProjectID:      p.ID,
		OrganizationID: p.OrganizationID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		CreatedBy:      id.UserID,
		AssignedTo:     in.AssignedTo,
		Status:         in.Status,
		Priority:       in.Priority,
		DueDate:        in.DueDate,
		StartDate:      in.StartDate,
		EstimatedHours: in.EstimatedHours,
		Tags:           normalizeTags(in.Tags),
	}
	if err := validateTask(t); err != nil {
		return domain.Task{}, err
	}
	if t.AssignedTo != "" {
		if _, err := orgMember(ctx, s.Store, p.OrganizationID, t.AssignedTo, "assignee"); err != nil {
			return domain.Task{}, err
		}
	}
	if err := lifecycle.Init(&t, now); err != nil {
		return domain.Task{}, err
	}

	if err := s.Store.Tasks().CreateTask(ctx, t); err != nil {
		return domain.Task{}, fail(ctx, "task", err)
	}

	log.Info("task created", slog.String("task_id", t.ID), slog.String("project_id", p.ID))
	return t, nil
}

// Get returns a task with its time entries.
func (s *TaskService) Get(ctx context.Context, id domain.Identity, taskID string) (domain.Task, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	t, _, err := loadTask(ctx, s.Store, id, taskID, access.Read)
	if err != nil {
		return domain.Task{}, err
	}

	if t.TimeEntries, err = s.Store.TimeEntries().ListTimeEntriesByTask(ctx, t.ID); err != nil {
		return domain.Task{}, fail(ctx, "time entry", err)
	}
	return t, nil
}

// ListByProject returns the tasks of one project.
func (s *TaskService) ListByProject(ctx context.Context, id domain.Identity, projectID string) ([]domain.Task, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, projectID, access.Read)
	if err != nil {
		return nil, err
	}

	tasks, err := s.Store.Tasks().ListTasks(ctx, store.TaskFilter{OrganizationID: p.OrganizationID, ProjectID: p.ID})
	return tasks, fail(ctx, "task", err)
}

// ListMine returns the organization's tasks as scoped for the caller's
// role. Employees see every task; admins and managers only their own.
func (s *TaskService) ListMine(ctx context.Context, id domain.Identity) ([]domain.Task, error) {
	if err := authorizeOrganization(id, access.Read); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	scope := access.TasksVisibleTo(id)
	tasks, err := s.Store.Tasks().ListTasks(ctx, store.TaskFilter{
		OrganizationID: scope.OrganizationID,
		InvolvedUserID: scope.UserID,
	})
	return tasks, fail(ctx, "task", err)
}

// Recent returns the tasks the caller created or is assigned to, most
// recently updated first.
func (s *TaskService) Recent(ctx context.Context, id domain.Identity) ([]domain.Task, error) {
	if err := authorizeOrganization(id, access.Read); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	tasks, err := s.Store.Tasks().ListTasks(ctx, store.TaskFilter{
		OrganizationID: id.OrganizationID,
		InvolvedUserID: id.UserID,
		Limit:          RecentTaskLimit,
	})
	return tasks, fail(ctx, "task", err)
}

// Update applies patch. A status in the patch goes through the lifecycle
// like SetStatus does.
func (s *TaskService) Update(ctx context.Context, id domain.Identity, taskID string, patch domain.TaskPatch) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	t, _, err := loadTask(ctx, s.Store, id, taskID, access.UpdateTask)
	if err != nil {
		log.Warn("task update rejected", slog.String("task_id", taskID), slog.Any("error", err))
		return domain.Task{}, err
	}

	if patch.Title != nil {
		title, err := domain.RequireText("title", *patch.Title)
		if err != nil {
			return domain.Task{}, err
		}
		patch.Title = &title
	}
	if patch.Tags != nil {
		tags := normalizeTags(*patch.Tags)
		patch.Tags = &tags
	}
	if patch.AssignedTo != nil && *patch.AssignedTo != "" && *patch.AssignedTo != t.AssignedTo {
		if _, err := orgMember(ctx, s.Store, t.OrganizationID, *patch.AssignedTo, "assignee"); err != nil {
			return domain.Task{}, err
		}
	}

	now := s.Now()
	return s.save(ctx, t.ID, func(cur *domain.Task) error {
		patch.Apply(cur)
		if err := validateTask(*cur); err != nil {
			return err
		}
		if patch.Status != nil {
			return lifecycle.Transition(cur, *patch.Status, now)
		}
		lifecycle.Touch(cur, now)
		return nil
	})
}

// SetStatus moves a task to status.
func (s *TaskService) SetStatus(ctx context.Context, id domain.Identity, taskID string, status domain.TaskStatus) (domain.Task, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	t, _, err := loadTask(ctx, s.Store, id, taskID, access.ChangeTaskStatus)
	if err != nil {
		return domain.Task{}, err
	}

	now := s.Now()
	return s.save(ctx, t.ID, func(cur *domain.Task) error {
		return lifecycle.Transition(cur, status, now)
	})
}

// Delete removes a task and its time entries.
func (s *TaskService) Delete(ctx context.Context, id domain.Identity, taskID string) error {
	log := slogx.FromContext(ctx)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	t, _, err := loadTask(ctx, s.Store, id, taskID, access.DeleteTask)
	if err != nil {
		log.Warn("task deletion rejected", slog.String("task_id", taskID), slog.Any("error", err))
		return err
	}

	if err := s.Store.Tasks().DeleteTask(ctx, t.ID); err != nil {
		return fail(ctx, "task", err)
	}

	log.Info("task deleted", slog.String("task_id", t.ID))
	return nil
}

// save re-reads the task inside a transaction, applies mutate to that copy
// and writes it back with the total recomputed from the stored entries. A
// tracking start or stop committed since the caller's read is kept.
func (s *TaskService) save(ctx context.Context, taskID string, mutate func(*domain.Task) error) (domain.Task, error) {
	var t domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if t, err = tx.Tasks().GetTaskByID(ctx, taskID); err != nil {
			return err
		}
		if err := mutate(&t); err != nil {
			return err
		}

		entries, err := tx.TimeEntries().ListTimeEntriesByTask(ctx, t.ID)
		if err != nil {
			return err
		}
		t.TimeEntries = entries
		t.TotalTimeSpent = ledger.Total(entries)
		return tx.Tasks().UpdateTask(ctx, t)
	})
	if err != nil {
		return domain.Task{}, fail(ctx, "task", err)
	}
	return t, nil
}

// loadTask fetches a task with its project and checks the caller may
// perform a on it. Tasks of other organizations are reported as not found.
func loadTask(ctx context.Context, s store.Store, id domain.Identity, taskID string, a access.Action) (domain.Task, domain.Project, error) {
	if err := requireOrganization(id); err != nil {
		return domain.Task{}, domain.Project{}, err
	}

	t, err := s.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, domain.Project{}, fail(ctx, "task", err)
	}
	if t.OrganizationID != id.OrganizationID {
		return domain.Task{}, domain.Project{}, domain.CrossTenant("task")
	}

	p, err := s.Projects().GetProjectByID(ctx, t.ProjectID)
	if err != nil {
		return domain.Task{}, domain.Project{}, fail(ctx, "project", err)
	}
	if err := access.Authorize(id, access.Task(t, p), a); err != nil {
		return domain.Task{}, domain.Project{}, err
	}
	return t, p, nil
}

func validateTask(t domain.Task) error {
	if !t.Priority.Valid() {
		return domain.Validation("invalid priority %q", t.Priority)
	}
	if t.EstimatedHours < 0 {
		return domain.Validation("estimated hours must not be negative")
	}
	if err := optionalText("description", t.Description); err != nil {
		return err
	}
	for _, tag := range t.Tags {
		if len(tag) > 50 {
			return domain.Validation("tags must be at most 50 characters")
		}
	}
	return nil
}

// normalizeTags trims tags and drops empty and repeated ones, keeping the
// first occurrence order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
