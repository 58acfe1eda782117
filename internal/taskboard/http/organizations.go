package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// OrganizationHandler serves onboarding and organization administration.
type OrganizationHandler struct {
	Organizations *service.OrganizationService
}

// HandleCreate handles POST /v1/organizations
//
//	@Summary		Create organization
//	@Description	Founds an organization owned by the caller, who becomes its admin. The caller must not belong to one yet.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.CreateOrganizationRequest	true	"Organization"
//	@Success		201		{object}	tasksdk.Organization				"The new organization"
//	@Failure		400		{object}	tasksdk.ErrorResponse				"Invalid input"
//	@Failure		409		{object}	tasksdk.ErrorResponse				"Already a member, or name taken"
//	@Security		BearerAuth
//	@Router			/v1/organizations [post]
func (h *OrganizationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.CreateOrganizationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	org, err := h.Organizations.Create(r.Context(), identity(r), req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toOrganization(org))
}

// HandleJoin handles POST /v1/organizations/join
//
//	@Summary	Join organization
//	@Tags		Organizations
//	@Accept		json
//	@Produce	json
//	@Param		request	body		tasksdk.JoinOrganizationRequest	true	"Invite code"
//	@Success	200		{object}	tasksdk.User					"The caller after joining"
//	@Failure	404		{object}	tasksdk.ErrorResponse			"Unknown invite code"
//	@Failure	409		{object}	tasksdk.ErrorResponse			"Already a member of an organization"
//	@Security	BearerAuth
//	@Router		/v1/organizations/join [post]
func (h *OrganizationHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.JoinOrganizationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	u, err := h.Organizations.Join(r.Context(), identity(r), req.InviteCode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleGet handles GET /v1/organization
//
//	@Summary	Caller's organization
//	@Tags		Organizations
//	@Produce	json
//	@Success	200	{object}	tasksdk.Organization
//	@Failure	403	{object}	tasksdk.ErrorResponse	"Caller has no organization"
//	@Security	BearerAuth
//	@Router		/v1/organization [get]
func (h *OrganizationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	org, err := h.Organizations.Get(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrganization(org))
}

// HandleMembers handles GET /v1/organization/members
//
//	@Summary	List members
//	@Tags		Organizations
//	@Produce	json
//	@Success	200	{object}	tasksdk.UsersResponse
//	@Failure	403	{object}	tasksdk.ErrorResponse	"Caller has no organization"
//	@Security	BearerAuth
//	@Router		/v1/organization/members [get]
func (h *OrganizationHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Organizations.Members(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.UsersResponse{Users: toUsers(users)})
}

// HandleChangeRole handles PUT /v1/organization/members/{userID}/role
//
//	@Summary	Change a member's role
//	@Tags		Organizations
//	@Accept		json
//	@Produce	json
//	@Param		userID	path		string						true	"Member ID"
//	@Param		request	body		tasksdk.ChangeRoleRequest	true	"New role"
//	@Success	200		{object}	tasksdk.User
//	@Failure	400		{object}	tasksdk.ErrorResponse	"Invalid role"
//	@Failure	403		{object}	tasksdk.ErrorResponse	"Caller is not an admin"
//	@Failure	404		{object}	tasksdk.ErrorResponse	"Not a member"
//	@Security	BearerAuth
//	@Router		/v1/organization/members/{userID}/role [put]
func (h *OrganizationHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.ChangeRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	u, err := h.Organizations.ChangeRole(r.Context(), identity(r), r.PathValue("userID"), domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleRemoveMember handles DELETE /v1/organization/members/{userID}
//
//	@Summary	Remove a member
//	@Tags		Organizations
//	@Param		userID	path	string	true	"Member ID"
//	@Success	204
//	@Failure	400	{object}	tasksdk.ErrorResponse	"Cannot remove self"
//	@Failure	403	{object}	tasksdk.ErrorResponse	"Caller is not an admin"
//	@Failure	404	{object}	tasksdk.ErrorResponse	"Not a member"
//	@Security	BearerAuth
//	@Router		/v1/organization/members/{userID} [delete]
func (h *OrganizationHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.Organizations.RemoveMember(r.Context(), identity(r), r.PathValue("userID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleInvite handles POST /v1/organization/invites
//
//	@Summary	Invite by email
//	@Tags		Organizations
//	@Accept		json
//	@Produce	json
//	@Param		request	body		tasksdk.CreateInviteRequest	true	"Invite"
//	@Success	201		{object}	tasksdk.Invite
//	@Failure	400		{object}	tasksdk.ErrorResponse	"Invalid email or role"
//	@Failure	403		{object}	tasksdk.ErrorResponse	"Caller is not an admin"
//	@Failure	409		{object}	tasksdk.ErrorResponse	"Already a member or already invited"
//	@Security	BearerAuth
//	@Router		/v1/organization/invites [post]
func (h *OrganizationHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.CreateInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	inv, err := h.Organizations.Invite(r.Context(), identity(r), req.Email, domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInvite(inv))
}

// HandleListInvites handles GET /v1/organization/invites
//
//	@Summary	List pending invites
//	@Tags		Organizations
//	@Produce	json
//	@Success	200	{object}	tasksdk.InvitesResponse
//	@Failure	403	{object}	tasksdk.ErrorResponse	"Caller is not an admin"
//	@Security	BearerAuth
//	@Router		/v1/organization/invites [get]
func (h *OrganizationHandler) HandleListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.Organizations.Invites(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := tasksdk.InvitesResponse{Invites: make([]tasksdk.Invite, len(invites))}
	for i, inv := range invites {
		resp.Invites[i] = toInvite(inv)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCancelInvite handles DELETE /v1/organization/invites/{id}
//
//	@Summary	Cancel an invite
//	@Tags		Organizations
//	@Param		id	path	string	true	"Invite ID"
//	@Success	204
//	@Failure	403	{object}	tasksdk.ErrorResponse	"Caller is not an admin"
//	@Failure	404	{object}	tasksdk.ErrorResponse	"Unknown invite"
//	@Security	BearerAuth
//	@Router		/v1/organization/invites/{id} [delete]
func (h *OrganizationHandler) HandleCancelInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.Organizations.CancelInvite(r.Context(), identity(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
