package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

// interleaved runs between once, right after the first task read that is
// made outside a transaction. Transactions get the unwrapped repositories.
type interleaved struct {
	store.Store
	once    sync.Once
	between func()
}

func (s *interleaved) Tasks() store.Tasks { return &interleavedTasks{Tasks: s.Store.Tasks(), s: s} }

type interleavedTasks struct {
	store.Tasks
	s *interleaved
}

func (r *interleavedTasks) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	t, err := r.Tasks.GetTaskByID(ctx, id)
	r.s.once.Do(r.s.between)
	return t, err
}

func TestTaskDeletion(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	_, err := h.Organizations.Invite(ctx, f.alice, "mark@example.com", domain.RoleManager)
	require.NoError(t, err)
	mark := h.register(t, "mark", Registration{InviteCode: f.org.InviteCode})
	require.Equal(t, domain.RoleManager, mark.Role)

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)

	t.Run("manager who is neither creator nor assignee", func(t *testing.T) {
		err := h.Tasks.Delete(ctx, mark, task.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("but may still edit it", func(t *testing.T) {
		title := "T renamed"
		got, err := h.Tasks.Update(ctx, mark, task.ID, domain.TaskPatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, title, got.Title)
	})

	t.Run("admin", func(t *testing.T) {
		require.NoError(t, h.Tasks.Delete(ctx, f.alice, task.ID))

		_, err := h.Tasks.Get(ctx, f.erin, task.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskCreation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	olga := h.register(t, "olga", Registration{InviteCode: f.org.InviteCode})
	bob := h.register(t, "bob", Registration{OrganizationName: "Globex"})

	tests := []struct {
		name string
		who  domain.Identity
		in   NewTask
		want error
	}{
		{"team member", f.erin, NewTask{Title: "a"}, nil},
		{"admin", f.alice, NewTask{Title: "b", Tags: []string{" x ", "x", ""}}, nil},
		{"employee off the team", olga, NewTask{Title: "c"}, domain.ErrForbidden},
		{"other tenant", bob, NewTask{Title: "d"}, domain.ErrCrossTenant},
		{"missing title", f.erin, NewTask{Title: "  "}, domain.ErrValidation},
		{"bad priority", f.erin, NewTask{Title: "e", Priority: "urgent"}, domain.ErrValidation},
		{"bad status", f.erin, NewTask{Title: "f", Status: "done"}, domain.ErrValidation},
		{"outside assignee", f.erin, NewTask{Title: "g", AssignedTo: bob.UserID}, domain.ErrValidation},
		{"negative estimate", f.erin, NewTask{Title: "h", EstimatedHours: -1}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.ProjectID = f.project.ID
			task, err := h.Tasks.Create(ctx, tt.who, tt.in)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			require.Equal(t, f.org.ID, task.OrganizationID)
			require.Equal(t, domain.PriorityMedium, task.Priority)
		})
	}

	t.Run("tags are normalized", func(t *testing.T) {
		tasks, err := h.Tasks.ListByProject(ctx, f.alice, f.project.ID)
		require.NoError(t, err)
		for _, task := range tasks {
			if task.Title == "b" {
				require.Equal(t, []string{"x"}, task.Tags)
			}
		}
	})
}

func TestTaskStatus(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)

	h.clock.Advance(time.Hour)
	done, err := h.Tasks.SetStatus(ctx, f.erin, task.ID, domain.TaskCompleted)
	require.NoError(t, err)
	require.Equal(t, 100, done.Progress)
	require.NotNil(t, done.CompletedAt)
	require.Equal(t, h.clock.Now(), *done.CompletedAt)
	require.Equal(t, h.clock.Now(), done.UpdatedAt)

	h.clock.Advance(time.Hour)
	status := domain.TaskPending
	back, err := h.Tasks.Update(ctx, f.erin, task.ID, domain.TaskPatch{Status: &status})
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, back.Status)
	require.Zero(t, back.Progress)
	require.Equal(t, *done.CompletedAt, *back.CompletedAt)

	_, err = h.Tasks.SetStatus(ctx, f.erin, task.ID, "archived")
	require.ErrorIs(t, err, domain.ErrValidation)

	olga := h.register(t, "olga", Registration{InviteCode: f.org.InviteCode})
	_, err = h.Tasks.SetStatus(ctx, olga, task.ID, domain.TaskCompleted)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTaskListings(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	mine, err := h.Tasks.Create(ctx, f.alice, NewTask{ProjectID: f.project.ID, Title: "alice's"})
	require.NoError(t, err)
	h.clock.Advance(time.Minute)
	_, err = h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "erin's"})
	require.NoError(t, err)

	t.Run("employees see the whole organization", func(t *testing.T) {
		tasks, err := h.Tasks.ListMine(ctx, f.erin)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
	})

	t.Run("admins see only their own", func(t *testing.T) {
		tasks, err := h.Tasks.ListMine(ctx, f.alice)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.Equal(t, mine.ID, tasks[0].ID)
	})

	t.Run("recent is involvement based for everyone", func(t *testing.T) {
		tasks, err := h.Tasks.Recent(ctx, f.erin)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.Equal(t, "erin's", tasks[0].Title)
	})

	t.Run("assignment counts as involvement", func(t *testing.T) {
		assignee := f.alice.UserID
		_, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "for alice", AssignedTo: assignee})
		require.NoError(t, err)

		tasks, err := h.Tasks.ListMine(ctx, f.alice)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		require.Equal(t, "for alice", tasks[0].Title)
	})

	t.Run("no organization", func(t *testing.T) {
		nobody := h.register(t, "nobody", Registration{})
		_, err := h.Tasks.ListMine(ctx, nobody)
		require.ErrorIs(t, err, domain.ErrNoOrganization)
	})
}

func TestTaskEditKeepsTrackingStartedMeanwhile(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, task.Status)

	var started error
	deps := h.Tasks.Deps
	deps.Store = &interleaved{Store: deps.Store, between: func() {
		_, started = h.Tracking.Start(ctx, f.erin, task.ID)
	}}
	tasks := &TaskService{Deps: deps}

	title := "renamed"
	got, err := tasks.Update(ctx, f.erin, task.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	require.NoError(t, started)

	require.Equal(t, "renamed", got.Title)
	require.Equal(t, domain.TaskInProgress, got.Status)
	require.Equal(t, 50, got.Progress)
	require.Len(t, got.TimeEntries, 1)
	require.True(t, got.TimeEntries[0].Open())

	stored, err := h.Tasks.Get(ctx, f.erin, task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskInProgress, stored.Status)
	require.Equal(t, "renamed", stored.Title)
}

func TestTaskStatusKeepsTimeStoppedMeanwhile(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)
	_, err = h.Tracking.Start(ctx, f.erin, task.ID)
	require.NoError(t, err)
	h.clock.Advance(40 * time.Minute)

	var stopped error
	deps := h.Tasks.Deps
	deps.Store = &interleaved{Store: deps.Store, between: func() {
		_, _, stopped = h.Tracking.Stop(ctx, f.erin, task.ID, nil, "")
	}}
	tasks := &TaskService{Deps: deps}

	done, err := tasks.SetStatus(ctx, f.erin, task.ID, domain.TaskCompleted)
	require.NoError(t, err)
	require.NoError(t, stopped)
	require.Equal(t, domain.TaskCompleted, done.Status)
	require.Equal(t, 40, done.TotalTimeSpent)
	require.False(t, done.TimeEntries[0].Open())
}

func TestTaskIDsFollowServiceClock(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	h.clock.Advance(time.Hour)
	prefix := idx.NewAt(h.clock.Now()).String()[:10]

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)
	require.Equal(t, prefix, task.ID[:10])

	inv, err := h.Organizations.Invite(ctx, f.alice, "ivy@example.com", "")
	require.NoError(t, err)
	require.Equal(t, prefix, inv.ID[:10])
}
