package taskboard_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

// TestPostgresDriver runs a short end-to-end flow with the service on the
// postgres driver.
func TestPostgresDriver(t *testing.T) {
	c := setupTaskboardOnPostgres(t)
	ctx := t.Context()

	admin := registerAdmin(t, c, "pat", "Postgres Org")
	dev := registerMember(t, c, admin, "dana", "employee")
	project := createProject(t, admin, "Migration", dev)

	task, err := admin.CreateTask(ctx, tasksdk.CreateTaskRequest{
		ProjectID:  project.ID,
		Title:      "Move data",
		AssignedTo: dev.User().ID,
	})
	require.NoError(t, err)

	entry, err := dev.StartTracking(ctx, task.ID)
	require.NoError(t, err)
	end := entry.StartTime.Add(30 * time.Minute)
	res, err := dev.StopTracking(ctx, task.ID, tasksdk.StopTrackingRequest{EndTime: &end})
	require.NoError(t, err)
	require.Equal(t, 30, res.Task.TotalTimeSpent)

	mine, err := dev.MyTasks(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	team, err := admin.Team(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
}
