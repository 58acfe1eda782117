package tasksdk

import (
	"context"
	"net/http"
)

// ============================================================================
// Tasks
// ============================================================================

func (s *Session) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var t Task
	if err := s.call(ctx, http.MethodPost, "/v1/tasks", req, &t, http.StatusCreated); err != nil {
		return nil, err
	}
	return &t, nil
}

// Task returns a task with its time entries.
func (s *Session) Task(ctx context.Context, taskID string) (*Task, error) {
	var t Task
	if err := s.call(ctx, http.MethodGet, "/v1/tasks/"+taskID, nil, &t, http.StatusOK); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Session) ProjectTasks(ctx context.Context, projectID string) ([]Task, error) {
	return s.tasks(ctx, "/v1/projects/"+projectID+"/tasks")
}

// MyTasks lists the tasks in the caller's listing scope.
func (s *Session) MyTasks(ctx context.Context) ([]Task, error) {
	return s.tasks(ctx, "/v1/tasks")
}

func (s *Session) RecentTasks(ctx context.Context) ([]Task, error) {
	return s.tasks(ctx, "/v1/tasks/recent")
}

func (s *Session) tasks(ctx context.Context, path string) ([]Task, error) {
	var resp TasksResponse
	if err := s.call(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (s *Session) UpdateTask(ctx context.Context, taskID string, req UpdateTaskRequest) (*Task, error) {
	var t Task
	if err := s.call(ctx, http.MethodPatch, "/v1/tasks/"+taskID, req, &t, http.StatusOK); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Session) SetTaskStatus(ctx context.Context, taskID, status string) (*Task, error) {
	var t Task
	req := SetTaskStatusRequest{Status: status}
	if err := s.call(ctx, http.MethodPut, "/v1/tasks/"+taskID+"/status", req, &t, http.StatusOK); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Session) DeleteTask(ctx context.Context, taskID string) error {
	return s.callNoContent(ctx, http.MethodDelete, "/v1/tasks/"+taskID)
}

// ============================================================================
// Time tracking
// ============================================================================

// StartTracking opens a time entry on the task. A running timer on the
// same task fails with CodeAlreadyTracking.
func (s *Session) StartTracking(ctx context.Context, taskID string) (*TimeEntry, error) {
	var e TimeEntry
	if err := s.call(ctx, http.MethodPost, "/v1/tasks/"+taskID+"/tracking/start", nil, &e, http.StatusCreated); err != nil {
		return nil, err
	}
	return &e, nil
}

// StopTracking closes the caller's open entry on the task.
func (s *Session) StopTracking(ctx context.Context, taskID string, req StopTrackingRequest) (*StopTrackingResponse, error) {
	var resp StopTrackingResponse
	if err := s.call(ctx, http.MethodPost, "/v1/tasks/"+taskID+"/tracking/stop", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ActiveEntries lists the caller's running timers.
func (s *Session) ActiveEntries(ctx context.Context) ([]ActiveEntry, error) {
	var resp ActiveEntriesResponse
	if err := s.call(ctx, http.MethodGet, "/v1/tracking/active", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Dashboard returns the caller's summary figures.
func (s *Session) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var sum DashboardSummary
	if err := s.call(ctx, http.MethodGet, "/v1/dashboard", nil, &sum, http.StatusOK); err != nil {
		return nil, err
	}
	return &sum, nil
}
