package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// MeetingHandler serves meetings. Every response carries the display
// status projected at Now.
type MeetingHandler struct {
	Meetings *service.MeetingService
	Now      func() time.Time
}

// HandleCreate handles POST /v1/meetings
//
//	@Summary		Schedule meeting
//	@Description	Online and hybrid meetings need a meetingUrl. Attendees and the project must belong to the organization.
//	@Tags			Meetings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.CreateMeetingRequest	true	"Meeting"
//	@Success		201		{object}	tasksdk.Meeting
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Invalid input"
//	@Failure		403		{object}	tasksdk.ErrorResponse	"Caller has no organization"
//	@Security		BearerAuth
//	@Router			/v1/meetings [post]
func (h *MeetingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.CreateMeetingRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	m, err := h.Meetings.Create(r.Context(), identity(r), service.NewMeeting{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        domain.MeetingType(req.MeetingType),
		URL:         req.MeetingURL,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ProjectID:   req.ProjectID,
		Attendees:   req.Attendees,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMeeting(m, h.Now()))
}

// HandleGet handles GET /v1/meetings/{id}
//
//	@Summary	Get meeting
//	@Tags		Meetings
//	@Produce	json
//	@Param		id	path		string	true	"Meeting ID"
//	@Success	200	{object}	tasksdk.Meeting
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/meetings/{id} [get]
func (h *MeetingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.Meetings.Get(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMeeting(m, h.Now()))
}

// HandleListMine handles GET /v1/meetings
//
//	@Summary	List my meetings
//	@Tags		Meetings
//	@Produce	json
//	@Success	200	{object}	tasksdk.MeetingsResponse	"Meetings the caller organizes or attends, by start time"
//	@Security	BearerAuth
//	@Router		/v1/meetings [get]
func (h *MeetingHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Meetings.ListMine)
}

// HandleUpcoming handles GET /v1/meetings/upcoming
//
//	@Summary	Upcoming meetings
//	@Tags		Meetings
//	@Produce	json
//	@Success	200	{object}	tasksdk.MeetingsResponse	"At most ten scheduled meetings starting from now"
//	@Security	BearerAuth
//	@Router		/v1/meetings/upcoming [get]
func (h *MeetingHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Meetings.Upcoming)
}

// HandleToday handles GET /v1/meetings/today
//
//	@Summary	Today's meetings
//	@Tags		Meetings
//	@Produce	json
//	@Success	200	{object}	tasksdk.MeetingsResponse	"Meetings starting within the current UTC day"
//	@Security	BearerAuth
//	@Router		/v1/meetings/today [get]
func (h *MeetingHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Meetings.Today)
}

type meetingLister func(context.Context, domain.Identity) ([]domain.Meeting, error)

func (h *MeetingHandler) list(w http.ResponseWriter, r *http.Request, fetch meetingLister) {
	ms, err := fetch(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.MeetingsResponse{Meetings: toMeetings(ms, h.Now())})
}

// HandleUpdate handles PATCH /v1/meetings/{id}
//
//	@Summary		Update meeting
//	@Description	Only the organizer or an admin may update. Absent fields are left unchanged.
//	@Tags			Meetings
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Meeting ID"
//	@Param			request	body		tasksdk.UpdateMeetingRequest	true	"Fields to change"
//	@Success		200		{object}	tasksdk.Meeting
//	@Failure		400		{object}	tasksdk.ErrorResponse
//	@Failure		403		{object}	tasksdk.ErrorResponse
//	@Failure		404		{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/meetings/{id} [patch]
func (h *MeetingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.UpdateMeetingRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	patch := domain.MeetingPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		URL:         req.MeetingURL,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ProjectID:   req.ProjectID,
		Attendees:   req.Attendees,
		Notes:       req.Notes,
	}
	if req.MeetingType != nil {
		t := domain.MeetingType(*req.MeetingType)
		patch.Type = &t
	}

	m, err := h.Meetings.Update(r.Context(), identity(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMeeting(m, h.Now()))
}

// HandleCancel handles POST /v1/meetings/{id}/cancel
//
//	@Summary	Cancel meeting
//	@Tags		Meetings
//	@Produce	json
//	@Param		id	path		string	true	"Meeting ID"
//	@Success	200	{object}	tasksdk.Meeting
//	@Failure	400	{object}	tasksdk.ErrorResponse	"Already cancelled"
//	@Failure	403	{object}	tasksdk.ErrorResponse
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/meetings/{id}/cancel [post]
func (h *MeetingHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	m, err := h.Meetings.Cancel(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMeeting(m, h.Now()))
}

// HandleRespond handles POST /v1/meetings/{id}/respond
//
//	@Summary	Answer an invitation
//	@Tags		Meetings
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Meeting ID"
//	@Param		request	body		tasksdk.RespondRequest	true	"accepted, declined or maybe"
//	@Success	200		{object}	tasksdk.Meeting
//	@Failure	400		{object}	tasksdk.ErrorResponse
//	@Failure	403		{object}	tasksdk.ErrorResponse	"Caller is not an attendee"
//	@Failure	404		{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/meetings/{id}/respond [post]
func (h *MeetingHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.RespondRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	m, err := h.Meetings.Respond(r.Context(), identity(r), r.PathValue("id"), domain.Attendance(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMeeting(m, h.Now()))
}

// HandleDelete handles DELETE /v1/meetings/{id}
//
//	@Summary	Delete meeting
//	@Tags		Meetings
//	@Param		id	path	string	true	"Meeting ID"
//	@Success	204
//	@Failure	403	{object}	tasksdk.ErrorResponse
//	@Failure	404	{object}	tasksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/meetings/{id} [delete]
func (h *MeetingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Meetings.Delete(r.Context(), identity(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
