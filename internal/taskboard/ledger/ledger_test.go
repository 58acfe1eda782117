package ledger_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/ledger"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"zero", 0, 0},
		{"under a minute", 59 * time.Second, 0},
		{"exactly a minute", time.Minute, 1},
		{"floors", 125*time.Minute + 59*time.Second, 125},
		{"long", 26 * time.Hour, 26 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.Duration(t0, t0.Add(tt.d))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ledger.Duration(t0, t0.Add(-time.Second))
	require.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestElapsed(t *testing.T) {
	t.Parallel()

	require.Equal(t, 90, ledger.Elapsed(t0, t0.Add(90*time.Minute+30*time.Second)))
	require.Equal(t, 0, ledger.Elapsed(t0, t0.Add(-time.Hour)))
}

func TestClose(t *testing.T) {
	t.Parallel()

	e := ledger.Open("e1", "t1", "u1", t0)
	require.True(t, e.Open())

	require.ErrorIs(t, ledger.Close(&e, t0.Add(-time.Minute), ""), domain.ErrInvalidTimeRange)
	require.True(t, e.Open(), "a rejected close must leave the entry open")

	require.NoError(t, ledger.Close(&e, t0.Add(125*time.Minute), "wrote the parser"))
	require.False(t, e.Open())
	require.Equal(t, 125, e.Duration)
	require.Equal(t, "wrote the parser", e.Note)

	require.ErrorIs(t, ledger.Close(&e, t0.Add(200*time.Minute), ""), domain.ErrNoActiveEntry)
	require.Equal(t, 125, e.Duration)
}

func TestTotalMatchesClosedDurations(t *testing.T) {
	t.Parallel()

	var entries []domain.TimeEntry
	want := 0
	start := t0
	for i := range 10 {
		e := ledger.Open("e", "t1", "u1", start)
		require.NoError(t, ledger.Close(&e, start.Add(time.Duration(i*17)*time.Minute+13*time.Second), ""))
		entries = append(entries, e)
		want += e.Duration
		start = start.Add(24 * time.Hour)
	}
	entries = append(entries, ledger.Open("open", "t1", "u1", start))

	require.Equal(t, want, ledger.Total(entries))
}

func TestActive(t *testing.T) {
	t.Parallel()

	closed := ledger.Open("e0", "t0", "u1", t0)
	require.NoError(t, ledger.Close(&closed, t0.Add(time.Hour), ""))

	open := []domain.OpenEntry{
		{Task: domain.Task{ID: "t1"}, Entry: ledger.Open("e1", "t1", "u1", t0)},
		{Task: domain.Task{ID: "t0"}, Entry: closed},
		{Task: domain.Task{ID: "t2"}, Entry: ledger.Open("e2", "t2", "u1", t0.Add(30*time.Minute))},
	}

	now := t0.Add(45 * time.Minute)
	clock := func() time.Time { return now }

	var ids []string
	var elapsed []int
	for task, a := range ledger.Active(open, clock) {
		ids = append(ids, task.ID)
		elapsed = append(elapsed, a.ElapsedMinutes)
	}
	require.Equal(t, []string{"t1", "t2"}, ids)
	require.Equal(t, []int{45, 15}, elapsed)

	t.Run("recomputed on every read", func(t *testing.T) {
		seq := ledger.Active(open[:1], clock)
		for _, a := range seq {
			require.Equal(t, 45, a.ElapsedMinutes)
		}
		now = now.Add(10 * time.Minute)
		for _, a := range seq {
			require.Equal(t, 55, a.ElapsedMinutes)
		}
	})

	t.Run("stops early", func(t *testing.T) {
		n := 0
		for range ledger.Active(open, clock) {
			n++
			break
		}
		require.Equal(t, 1, n)
	})
}
