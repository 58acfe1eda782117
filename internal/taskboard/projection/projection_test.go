package projection_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/projection"
	"github.com/stretchr/testify/require"
)

func TestHoursSpent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    float64
	}{
		{0, 0},
		{1, 0.02},
		{30, 0.5},
		{60, 1},
		{125, 2.08},
		{100, 1.67},
	}

	for _, tt := range tests {
		require.InDelta(t, tt.want, projection.HoursSpent(tt.minutes), 1e-9, "minutes=%d", tt.minutes)
	}
}

func TestMeeting(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	m := domain.Meeting{StartTime: start, EndTime: end, Status: domain.MeetingScheduled}

	tests := []struct {
		name   string
		status domain.MeetingStatus
		now    time.Time
		want   projection.MeetingDisplay
		color  string
	}{
		{"before start", domain.MeetingScheduled, start.Add(-time.Minute), projection.DisplayUpcoming, "blue"},
		{"at start", domain.MeetingScheduled, start, projection.DisplayOngoing, "green"},
		{"during", domain.MeetingScheduled, start.Add(30 * time.Minute), projection.DisplayOngoing, "green"},
		{"at end", domain.MeetingScheduled, end, projection.DisplayOngoing, "green"},
		{"after end", domain.MeetingScheduled, end.Add(time.Second), projection.DisplayCompleted, "gray"},
		{"cancelled in future", domain.MeetingCancelled, start.Add(-time.Hour), projection.DisplayCancelled, "red"},
		{"cancelled in past", domain.MeetingCancelled, end.Add(time.Hour), projection.DisplayCancelled, "red"},
		// Stored status other than cancelled does not matter.
		{"stored completed but upcoming", domain.MeetingCompleted, start.Add(-time.Hour), projection.DisplayUpcoming, "blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := m
			m.Status = tt.status
			got := projection.Meeting(m, tt.now)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.color, got.Color())
		})
	}
}
