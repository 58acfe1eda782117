package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/projection"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

type DashboardHandler struct {
	Dashboard *service.DashboardService
}

// ServeHTTP handles GET /v1/dashboard
//
//	@Summary		Dashboard summary
//	@Description	Task figures cover the same tasks as GET /v1/tasks.
//	@Tags			Dashboard
//	@Produce		json
//	@Success		200	{object}	tasksdk.DashboardSummary
//	@Failure		403	{object}	tasksdk.ErrorResponse	"Caller has no organization"
//	@Security		BearerAuth
//	@Router			/v1/dashboard [get]
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Dashboard.Summary(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := tasksdk.DashboardSummary{
		Projects:         sum.Projects,
		Tasks:            sum.Tasks,
		TasksByStatus:    make(map[string]int, len(sum.TasksByStatus)),
		TeamMembers:      sum.TeamMembers,
		TotalTimeSpent:   sum.TotalTimeSpent,
		TotalHoursSpent:  projection.HoursSpent(sum.TotalTimeSpent),
		UpcomingMeetings: sum.UpcomingMeetings,
	}
	for status, n := range sum.TasksByStatus {
		resp.TasksByStatus[string(status)] = n
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
