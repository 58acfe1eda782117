package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// ProjectHandler serves projects and their teams.
type ProjectHandler struct {
	Projects *service.ProjectService
}

// HandleCreate handles POST /v1/projects
//
//	@Summary		Create project
//	@Description	Any active member may create a project. Team members must belong to the organization.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.CreateProjectRequest	true	"Project"
//	@Success		201		{object}	tasksdk.Project
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Invalid input"
//	@Failure		403		{object}	tasksdk.ErrorResponse	"Caller has no organization"
//	@Security		BearerAuth
//	@Router			/v1/projects [post]
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.CreateProjectRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	in := service.NewProject{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DueDate:     req.DueDate,
	}
	for _, m := range req.Team {
		in.Team = append(in.Team, domain.TeamMember{UserID: m.UserID, Role: m.Role})
	}

	p, err := h.Projects.Create(r.Context(), identity(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProject(p))
}

// HandleList handles GET /v1/projects
//
//	@Summary	List projects
//	@Tags		Projects
//	@Produce	json
//	@Success	200	{object}	tasksdk.ProjectsResponse	"Newest first"
//	@Failure	403	{object}	tasksdk.ErrorResponse		"Caller has no organization"
//	@Security	BearerAuth
//	@Router		/v1/projects [get]
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.List(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.ProjectsResponse{Projects: toProjects(projects)})
}

// HandleGet handles GET /v1/projects/{id}
//
//	@Summary	Get project
//	@Tags		Projects
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	tasksdk.Project
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id} [get]
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProject(p))
}

// HandleUpdate handles PATCH /v1/projects/{id}
//
//	@Summary		Update project
//	@Description	Only the creator, managers and admins may update. Absent fields are left unchanged.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project ID"
//	@Param			request	body		tasksdk.UpdateProjectRequest	true	"Fields to change"
//	@Success		200		{object}	tasksdk.Project
//	@Failure		400		{object}	tasksdk.ErrorResponse
//	@Failure		403		{object}	tasksdk.ErrorResponse
//	@Failure		404		{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/projects/{id} [patch]
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.UpdateProjectRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	patch := domain.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		s := domain.ProjectStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}

	p, err := h.Projects.Update(r.Context(), identity(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProject(p))
}

// HandleDelete handles DELETE /v1/projects/{id}
//
//	@Summary		Delete project
//	@Description	Deletes the project with its tasks and time entries.
//	@Tags			Projects
//	@Param			id	path	string	true	"Project ID"
//	@Success		204
//	@Failure		403	{object}	tasksdk.ErrorResponse
//	@Failure		404	{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/projects/{id} [delete]
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Projects.Delete(r.Context(), identity(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTeam handles GET /v1/projects/{id}/team
//
//	@Summary	List team
//	@Tags		Projects
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	tasksdk.TeamResponse
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/team [get]
func (h *ProjectHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.Projects.Team(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.TeamResponse{Team: toTeam(team)})
}

// HandleAddMember handles POST /v1/projects/{id}/team
//
//	@Summary	Add team member
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"
//	@Param		request	body		tasksdk.AddTeamMemberRequest	true	"Member"
//	@Success	201		{object}	tasksdk.Project
//	@Failure	400		{object}	tasksdk.ErrorResponse	"User is not in the organization"
//	@Failure	403		{object}	tasksdk.ErrorResponse
//	@Failure	404		{object}	tasksdk.ErrorResponse
//	@Failure	409		{object}	tasksdk.ErrorResponse	"Already on the team"
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/team [post]
func (h *ProjectHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.AddTeamMemberRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	p, err := h.Projects.AddMember(r.Context(), identity(r), r.PathValue("id"), req.UserID, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProject(p))
}

// HandleRemoveMember handles DELETE /v1/projects/{id}/team/{userID}
//
//	@Summary	Remove team member
//	@Tags		Projects
//	@Produce	json
//	@Param		id		path		string	true	"Project ID"
//	@Param		userID	path		string	true	"Member ID"
//	@Success	200		{object}	tasksdk.Project
//	@Failure	403		{object}	tasksdk.ErrorResponse
//	@Failure	404		{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/team/{userID} [delete]
func (h *ProjectHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.RemoveMember(r.Context(), identity(r), r.PathValue("id"), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProject(p))
}

// HandleAvailableMembers handles GET /v1/projects/{id}/available-members
//
//	@Summary	Members not yet on the team
//	@Tags		Projects
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	tasksdk.UsersResponse
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/available-members [get]
func (h *ProjectHandler) HandleAvailableMembers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Projects.AvailableMembers(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.UsersResponse{Users: toUsers(users)})
}
