package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// TaskHandler serves tasks.
type TaskHandler struct {
	Tasks *service.TaskService
}

// HandleCreate handles POST /v1/tasks
//
//	@Summary		Create task
//	@Description	The caller must be a manager, an admin, the project creator or on the project team.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.CreateTaskRequest	true	"Task"
//	@Success		201		{object}	tasksdk.Task
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Invalid input"
//	@Failure		403		{object}	tasksdk.ErrorResponse
//	@Failure		404		{object}	tasksdk.ErrorResponse	"Unknown project"
//	@Security		BearerAuth
//	@Router			/v1/tasks [post]
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.CreateTaskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	t, err := h.Tasks.Create(r.Context(), identity(r), service.NewTask{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		Status:         domain.TaskStatus(req.Status),
		Priority:       domain.Priority(req.Priority),
		DueDate:        req.DueDate,
		StartDate:      req.StartDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTask(t))
}

// HandleGet handles GET /v1/tasks/{id}
//
//	@Summary	Get task
//	@Tags		Tasks
//	@Produce	json
//	@Param		id	path		string	true	"Task ID"
//	@Success	200	{object}	tasksdk.Task	"Task with its time entries"
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/tasks/{id} [get]
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTask(t))
}

// HandleListByProject handles GET /v1/projects/{id}/tasks
//
//	@Summary	List project tasks
//	@Tags		Tasks
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	tasksdk.TasksResponse	"Most recently updated first"
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/tasks [get]
func (h *TaskHandler) HandleListByProject(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.ListByProject(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.TasksResponse{Tasks: toTasks(tasks)})
}

// HandleListMine handles GET /v1/tasks
//
//	@Summary		List my tasks
//	@Description	Employees see the tasks they created or are assigned. Managers and admins see the tasks they created.
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{object}	tasksdk.TasksResponse
//	@Failure		403	{object}	tasksdk.ErrorResponse	"Caller has no organization"
//	@Security		BearerAuth
//	@Router			/v1/tasks [get]
func (h *TaskHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.ListMine(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.TasksResponse{Tasks: toTasks(tasks)})
}

// HandleRecent handles GET /v1/tasks/recent
//
//	@Summary	Recently updated tasks
//	@Tags		Tasks
//	@Produce	json
//	@Success	200	{object}	tasksdk.TasksResponse	"At most ten tasks the caller created or is assigned"
//	@Security	BearerAuth
//	@Router		/v1/tasks/recent [get]
func (h *TaskHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.Recent(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.TasksResponse{Tasks: toTasks(tasks)})
}

// HandleUpdate handles PATCH /v1/tasks/{id}
//
//	@Summary		Update task
//	@Description	Absent fields are left unchanged. An empty assignedTo unassigns the task.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Task ID"
//	@Param			request	body		tasksdk.UpdateTaskRequest	true	"Fields to change"
//	@Success		200		{object}	tasksdk.Task
//	@Failure		400		{object}	tasksdk.ErrorResponse
//	@Failure		403		{object}	tasksdk.ErrorResponse
//	@Failure		404		{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{id} [patch]
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.UpdateTaskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	patch := domain.TaskPatch{
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		DueDate:        req.DueDate,
		StartDate:      req.StartDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}

	t, err := h.Tasks.Update(r.Context(), identity(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTask(t))
}

// HandleSetStatus handles PUT /v1/tasks/{id}/status
//
//	@Summary		Set task status
//	@Description	Progress follows the status. Completing a task records completedAt.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Task ID"
//	@Param			request	body		tasksdk.SetTaskStatusRequest	true	"New status"
//	@Success		200		{object}	tasksdk.Task
//	@Failure		400		{object}	tasksdk.ErrorResponse
//	@Failure		403		{object}	tasksdk.ErrorResponse
//	@Failure		404		{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{id}/status [put]
func (h *TaskHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.SetTaskStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	t, err := h.Tasks.SetStatus(r.Context(), identity(r), r.PathValue("id"), domain.TaskStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTask(t))
}

// HandleDelete handles DELETE /v1/tasks/{id}
//
//	@Summary		Delete task
//	@Description	Managers may not delete tasks they neither created nor are assigned.
//	@Tags			Tasks
//	@Param			id	path	string	true	"Task ID"
//	@Success		204
//	@Failure		403	{object}	tasksdk.ErrorResponse
//	@Failure		404	{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{id} [delete]
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.Delete(r.Context(), identity(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
