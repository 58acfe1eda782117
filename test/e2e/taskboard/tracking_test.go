package taskboard_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

// TestTaskLifecycleAndTracking drives a task from creation through tracked
// work to completion.
func TestTaskLifecycleAndTracking(t *testing.T) {
	c := setupTaskboard(t)
	ctx := t.Context()

	admin := registerAdmin(t, c, "tara", "Tracking Org")
	worker := registerMember(t, c, admin, "will", "employee")
	project := createProject(t, admin, "Billing", worker)

	task, err := worker.CreateTask(ctx, tasksdk.CreateTaskRequest{
		ProjectID:  project.ID,
		Title:      "Invoice export",
		AssignedTo: worker.User().ID,
		Tags:       []string{"csv"},
	})
	require.NoError(t, err, "team members may create tasks")
	require.Equal(t, "pending", task.Status)
	require.Equal(t, 0, task.ProgressPercentage)

	entry, err := worker.StartTracking(ctx, task.ID)
	require.NoError(t, err)
	require.Nil(t, entry.EndTime)

	t.Run("start advances a pending task", func(t *testing.T) {
		got, err := worker.Task(ctx, task.ID)
		require.NoError(t, err)
		require.Equal(t, "in-progress", got.Status)
		require.Equal(t, 50, got.ProgressPercentage)
	})

	t.Run("second start is rejected", func(t *testing.T) {
		_, err := worker.StartTracking(ctx, task.ID)
		assertAPIError(t, err, http.StatusBadRequest, tasksdk.KindConflict, tasksdk.CodeAlreadyTracking)
	})

	t.Run("active entries", func(t *testing.T) {
		active, err := worker.ActiveEntries(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		require.Equal(t, task.ID, active[0].Task.ID)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		early := entry.StartTime.Add(-time.Minute)
		_, err := worker.StopTracking(ctx, task.ID, tasksdk.StopTrackingRequest{EndTime: &early})
		assertAPIError(t, err, http.StatusBadRequest, tasksdk.KindValidation, tasksdk.CodeInvalidTimeRange)
	})

	t.Run("stop accumulates whole minutes", func(t *testing.T) {
		end := entry.StartTime.Add(125*time.Minute + 59*time.Second)
		res, err := worker.StopTracking(ctx, task.ID, tasksdk.StopTrackingRequest{EndTime: &end, Note: "first pass"})
		require.NoError(t, err)
		require.Equal(t, 125, res.Entry.Duration)
		require.Equal(t, 125, res.Task.TotalTimeSpent)
		require.InDelta(t, 2.08, res.Task.TotalHoursSpent, 0.001)

		_, err = worker.StopTracking(ctx, task.ID, tasksdk.StopTrackingRequest{})
		assertAPIError(t, err, http.StatusBadRequest, tasksdk.KindStateError, tasksdk.CodeNoActiveEntry)
	})

	t.Run("completion stamps completedAt", func(t *testing.T) {
		done, err := worker.SetTaskStatus(ctx, task.ID, "completed")
		require.NoError(t, err)
		require.NotNil(t, done.CompletedAt)
		require.Equal(t, 100, done.ProgressPercentage)
	})

	t.Run("only the creator or an admin deletes", func(t *testing.T) {
		manager := registerMember(t, c, admin, "mona", "manager")
		err := manager.DeleteTask(ctx, task.ID)
		assertAPIError(t, err, http.StatusForbidden, tasksdk.KindForbidden, "")

		require.NoError(t, worker.DeleteTask(ctx, task.ID))
		_, err = worker.Task(ctx, task.ID)
		require.True(t, tasksdk.IsNotFound(err))
	})

	t.Run("dashboard", func(t *testing.T) {
		sum, err := admin.Dashboard(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, sum.Projects)
		require.Equal(t, 1, sum.TeamMembers, "distinct users on project teams")
	})
}
