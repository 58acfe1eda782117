package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

func TestTrackingScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	require.Equal(t, domain.RoleAdmin, f.alice.Role)
	require.Equal(t, f.org.ID, f.erin.OrganizationID)
	require.Equal(t, domain.RoleEmployee, f.erin.Role)

	erin, err := h.Accounts.Me(ctx, f.erin)
	require.NoError(t, err)
	require.Equal(t, domain.UserActive, erin.Status)

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T", AssignedTo: f.erin.UserID})
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, task.Status)
	require.Zero(t, task.Progress)

	entry, err := h.Tracking.Start(ctx, f.erin, task.ID)
	require.NoError(t, err)
	require.True(t, entry.Open())
	require.Equal(t, t0, entry.StartTime)

	_, err = h.Tracking.Start(ctx, f.erin, task.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyTracking)

	h.clock.Advance(125 * time.Minute)

	closed, task, err := h.Tracking.Stop(ctx, f.erin, task.ID, nil, "")
	require.NoError(t, err)
	require.Equal(t, 125, closed.Duration)
	require.Equal(t, 125, task.TotalTimeSpent)
	require.Equal(t, domain.TaskInProgress, task.Status)
	require.Equal(t, 50, task.Progress)

	got, err := h.Tasks.Get(ctx, f.erin, task.ID)
	require.NoError(t, err)
	require.Len(t, got.TimeEntries, 1)
	require.Equal(t, 125, got.TotalTimeSpent)
}

func TestTrackingStartStop(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)

	t.Run("stop without an open entry", func(t *testing.T) {
		_, _, err := h.Tracking.Stop(ctx, f.erin, task.ID, nil, "")
		require.ErrorIs(t, err, domain.ErrNoActiveEntry)
	})

	t.Run("start stop start succeeds", func(t *testing.T) {
		_, err := h.Tracking.Start(ctx, f.erin, task.ID)
		require.NoError(t, err)

		h.clock.Advance(30 * time.Minute)
		_, _, err = h.Tracking.Stop(ctx, f.erin, task.ID, nil, "first")
		require.NoError(t, err)

		_, err = h.Tracking.Start(ctx, f.erin, task.ID)
		require.NoError(t, err)
	})

	t.Run("end before start is rejected and keeps the entry open", func(t *testing.T) {
		before := h.clock.Now().Add(-time.Minute)
		_, _, err := h.Tracking.Stop(ctx, f.erin, task.ID, &before, "")
		require.ErrorIs(t, err, domain.ErrInvalidTimeRange)

		seq, err := h.Tracking.ActiveEntries(ctx, f.erin)
		require.NoError(t, err)
		var open int
		for range seq {
			open++
		}
		require.Equal(t, 1, open)
	})

	t.Run("explicit end rounds down and sums", func(t *testing.T) {
		end := h.clock.Now().Add(45*time.Minute + 59*time.Second)
		e, got, err := h.Tracking.Stop(ctx, f.erin, task.ID, &end, "second")
		require.NoError(t, err)
		require.Equal(t, 45, e.Duration)
		require.Equal(t, "second", e.Note)
		require.Equal(t, 75, got.TotalTimeSpent)

		var sum int
		for _, te := range got.TimeEntries {
			sum += te.Duration
		}
		require.Equal(t, got.TotalTimeSpent, sum)
	})

	t.Run("users track independently", func(t *testing.T) {
		_, err := h.Tracking.Start(ctx, f.erin, task.ID)
		require.NoError(t, err)
		_, err = h.Tracking.Start(ctx, f.alice, task.ID)
		require.NoError(t, err)

		_, _, err = h.Tracking.Stop(ctx, f.alice, task.ID, nil, "")
		require.NoError(t, err)
		_, _, err = h.Tracking.Stop(ctx, f.erin, task.ID, nil, "")
		require.NoError(t, err)
	})
}

func TestTrackingDoesNotReopenCompletedTask(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T", Status: domain.TaskCompleted})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)

	_, err = h.Tracking.Start(ctx, f.erin, task.ID)
	require.NoError(t, err)

	got, err := h.Tasks.Get(ctx, f.erin, task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskCompleted, got.Status)
	require.Equal(t, 100, got.Progress)
}

func TestActiveEntries(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	a, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "A"})
	require.NoError(t, err)
	b, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "B"})
	require.NoError(t, err)

	_, err = h.Tracking.Start(ctx, f.erin, a.ID)
	require.NoError(t, err)
	h.clock.Advance(10 * time.Minute)
	_, err = h.Tracking.Start(ctx, f.erin, b.ID)
	require.NoError(t, err)
	h.clock.Advance(5 * time.Minute)

	seq, err := h.Tracking.ActiveEntries(ctx, f.erin)
	require.NoError(t, err)

	elapsed := map[string]int{}
	for task, active := range seq {
		require.Equal(t, domain.TaskInProgress, task.Status)
		elapsed[task.Title] = active.ElapsedMinutes
	}
	require.Equal(t, map[string]int{"A": 15, "B": 5}, elapsed)

	t.Run("other users see nothing", func(t *testing.T) {
		seq, err := h.Tracking.ActiveEntries(ctx, f.alice)
		require.NoError(t, err)
		for range seq {
			t.Fatal("alice has no open entries")
		}
	})
}

func TestTrackingAuthorization(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	task, err := h.Tasks.Create(ctx, f.alice, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)

	t.Run("team member may track", func(t *testing.T) {
		_, err := h.Tracking.Start(ctx, f.erin, task.ID)
		require.NoError(t, err)
	})

	t.Run("employee outside the team may not", func(t *testing.T) {
		olga := h.register(t, "olga", Registration{InviteCode: f.org.InviteCode})
		_, err := h.Tracking.Start(ctx, olga, task.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("other tenants see not found", func(t *testing.T) {
		bob := h.register(t, "bob", Registration{OrganizationName: "Globex"})
		_, err := h.Tracking.Start(ctx, bob, task.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.ErrorIs(t, err, domain.ErrCrossTenant)
	})
}

func TestTrackingConcurrentStarts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
	require.NoError(t, err)

	const callers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Tracking.Start(ctx, f.erin, task.ID)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	var ok, already int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyTracking):
			already++
		default:
			t.Fatalf("unexpected start error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, callers-1, already)

	got, err := h.Tasks.Get(ctx, f.erin, task.ID)
	require.NoError(t, err)
	require.Len(t, got.TimeEntries, 1)
	require.Equal(t, domain.TaskInProgress, got.Status)
}
