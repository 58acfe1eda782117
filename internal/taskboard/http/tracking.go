package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// TrackingHandler serves per-task time tracking.
type TrackingHandler struct {
	Tracking *service.TrackingService
}

// HandleStart handles POST /v1/tasks/{id}/tracking/start
//
//	@Summary		Start tracking
//	@Description	Opens a time entry for the caller. A pending task moves to in-progress.
//	@Tags			Tracking
//	@Produce		json
//	@Param			id	path		string	true	"Task ID"
//	@Success		201	{object}	tasksdk.TimeEntry		"The open entry"
//	@Failure		400	{object}	tasksdk.ErrorResponse	"ALREADY_TRACKING"
//	@Failure		403	{object}	tasksdk.ErrorResponse
//	@Failure		404	{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{id}/tracking/start [post]
func (h *TrackingHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	e, err := h.Tracking.Start(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTimeEntry(e))
}

// HandleStop handles POST /v1/tasks/{id}/tracking/stop
//
//	@Summary		Stop tracking
//	@Description	Closes the caller's open entry and adds its whole minutes to the task total. The body is optional.
//	@Tags			Tracking
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Task ID"
//	@Param			request	body		tasksdk.StopTrackingRequest	false	"End time and note"
//	@Success		200		{object}	tasksdk.StopTrackingResponse
//	@Failure		400		{object}	tasksdk.ErrorResponse	"NO_ACTIVE_ENTRY or INVALID_TIME_RANGE"
//	@Failure		403		{object}	tasksdk.ErrorResponse
//	@Failure		404		{object}	tasksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{id}/tracking/stop [post]
func (h *TrackingHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.StopTrackingRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		badRequest(w, err)
		return
	}

	e, t, err := h.Tracking.Stop(r.Context(), identity(r), r.PathValue("id"), req.EndTime, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.StopTrackingResponse{Entry: toTimeEntry(e), Task: toTask(t)})
}

// HandleActive handles GET /v1/tracking/active
//
//	@Summary	Running timers
//	@Tags		Tracking
//	@Produce	json
//	@Success	200	{object}	tasksdk.ActiveEntriesResponse	"Open entries of the caller with elapsed minutes"
//	@Security	BearerAuth
//	@Router		/v1/tracking/active [get]
func (h *TrackingHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	active, err := h.Tracking.ActiveEntries(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := tasksdk.ActiveEntriesResponse{Entries: []tasksdk.ActiveEntry{}}
	for t, a := range active {
		resp.Entries = append(resp.Entries, tasksdk.ActiveEntry{
			Task:           toTask(t),
			Entry:          toTimeEntry(a.Entry),
			ElapsedMinutes: a.ElapsedMinutes,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
