package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	a, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "A"})
	require.NoError(t, err)
	_, err = h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "B", Status: domain.TaskCompleted})
	require.NoError(t, err)
	_, err = h.Tasks.Create(ctx, f.alice, NewTask{ProjectID: f.project.ID, Title: "C"})
	require.NoError(t, err)

	_, err = h.Tracking.Start(ctx, f.erin, a.ID)
	require.NoError(t, err)
	h.clock.Advance(20 * time.Minute)
	_, _, err = h.Tracking.Stop(ctx, f.erin, a.ID, nil, "")
	require.NoError(t, err)

	_, err = h.Meetings.Create(ctx, f.alice, NewMeeting{
		Title: "Sync", StartTime: h.clock.Now().Add(time.Hour), EndTime: h.clock.Now().Add(2 * time.Hour),
		Attendees: []string{f.erin.UserID},
	})
	require.NoError(t, err)

	t.Run("employee", func(t *testing.T) {
		sum, err := h.Dashboard.Summary(ctx, f.erin)
		require.NoError(t, err)
		require.Equal(t, Summary{
			Projects: 1,
			Tasks:    3,
			TasksByStatus: map[domain.TaskStatus]int{
				domain.TaskPending:    1,
				domain.TaskInProgress: 1,
				domain.TaskCompleted:  1,
			},
			TeamMembers:      1,
			TotalTimeSpent:   20,
			UpcomingMeetings: 1,
		}, sum)
	})

	t.Run("admin sees own tasks only", func(t *testing.T) {
		sum, err := h.Dashboard.Summary(ctx, f.alice)
		require.NoError(t, err)
		require.Equal(t, 1, sum.Tasks)
		require.Equal(t, 1, sum.TasksByStatus[domain.TaskPending])
		require.Zero(t, sum.TotalTimeSpent)
	})
}
