package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

func TestMeetingCreate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()
	bob := h.register(t, "bob", Registration{OrganizationName: "Globex"})

	start := t0.Add(time.Hour)
	end := start.Add(30 * time.Minute)

	m, err := h.Meetings.Create(ctx, f.alice, NewMeeting{
		Title:     "Standup",
		StartTime: start,
		EndTime:   end,
		ProjectID: f.project.ID,
		Attendees: []string{f.erin.UserID, f.erin.UserID},
	})
	require.NoError(t, err)
	require.Equal(t, domain.MeetingPhysical, m.Type)
	require.Equal(t, domain.MeetingScheduled, m.Status)
	require.Equal(t, []domain.Attendee{{UserID: f.erin.UserID, Status: domain.AttendanceInvited}}, m.Attendees)

	tests := []struct {
		name string
		in   NewMeeting
	}{
		{"missing title", NewMeeting{StartTime: start, EndTime: end}},
		{"end equals start", NewMeeting{Title: "x", StartTime: start, EndTime: start}},
		{"missing times", NewMeeting{Title: "x"}},
		{"online without url", NewMeeting{Title: "x", Type: domain.MeetingOnline, StartTime: start, EndTime: end}},
		{"unknown type", NewMeeting{Title: "x", Type: "carrier pigeon", StartTime: start, EndTime: end}},
		{"outside attendee", NewMeeting{Title: "x", StartTime: start, EndTime: end, Attendees: []string{bob.UserID}}},
		{"unknown project", NewMeeting{Title: "x", StartTime: start, EndTime: end, ProjectID: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Meetings.Create(ctx, f.alice, tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	t.Run("hybrid with url", func(t *testing.T) {
		_, err := h.Meetings.Create(ctx, f.erin, NewMeeting{
			Title: "Review", Type: domain.MeetingHybrid, URL: "https://meet.example.com/r",
			StartTime: start, EndTime: end,
		})
		require.NoError(t, err)
	})

	t.Run("other tenants see not found", func(t *testing.T) {
		_, err := h.Meetings.Get(ctx, bob, m.ID)
		require.ErrorIs(t, err, domain.ErrCrossTenant)
	})
}

func TestMeetingListings(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	create := func(title string, start time.Time, attendees ...string) domain.Meeting {
		t.Helper()
		m, err := h.Meetings.Create(ctx, f.alice, NewMeeting{
			Title: title, StartTime: start, EndTime: start.Add(time.Hour), Attendees: attendees,
		})
		require.NoError(t, err)
		return m
	}

	create("earlier today", t0.Add(-2*time.Hour), f.erin.UserID)
	later := create("later today", t0.Add(3*time.Hour), f.erin.UserID)
	create("tomorrow", t0.Add(24*time.Hour), f.erin.UserID)
	create("alice only", t0.Add(time.Hour))

	titles := func(ms []domain.Meeting) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.Title)
		}
		return out
	}

	mine, err := h.Meetings.ListMine(ctx, f.erin)
	require.NoError(t, err)
	require.Equal(t, []string{"earlier today", "later today", "tomorrow"}, titles(mine))

	upcoming, err := h.Meetings.Upcoming(ctx, f.erin)
	require.NoError(t, err)
	require.Equal(t, []string{"later today", "tomorrow"}, titles(upcoming))

	today, err := h.Meetings.Today(ctx, f.alice)
	require.NoError(t, err)
	require.Equal(t, []string{"earlier today", "alice only", "later today"}, titles(today))

	t.Run("cancelled meetings leave upcoming", func(t *testing.T) {
		_, err := h.Meetings.Cancel(ctx, f.erin, later.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)

		got, err := h.Meetings.Cancel(ctx, f.alice, later.ID)
		require.NoError(t, err)
		require.Equal(t, domain.MeetingCancelled, got.Status)

		_, err = h.Meetings.Cancel(ctx, f.alice, later.ID)
		require.ErrorIs(t, err, domain.ErrStateError)

		upcoming, err := h.Meetings.Upcoming(ctx, f.erin)
		require.NoError(t, err)
		require.Equal(t, []string{"tomorrow"}, titles(upcoming))
	})
}

func TestMeetingUpdateAndRespond(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()
	olga := h.register(t, "olga", Registration{InviteCode: f.org.InviteCode})

	start := t0.Add(time.Hour)
	m, err := h.Meetings.Create(ctx, f.erin, NewMeeting{
		Title: "Planning", StartTime: start, EndTime: start.Add(time.Hour),
		Attendees: []string{f.alice.UserID, olga.UserID},
	})
	require.NoError(t, err)

	t.Run("respond", func(t *testing.T) {
		got, err := h.Meetings.Respond(ctx, olga, m.ID, domain.AttendanceAccepted)
		require.NoError(t, err)
		require.Equal(t, domain.AttendanceAccepted, got.Attendees[1].Status)

		_, err = h.Meetings.Respond(ctx, olga, m.ID, domain.AttendanceInvited)
		require.ErrorIs(t, err, domain.ErrValidation)

		_, err = h.Meetings.Respond(ctx, f.erin, m.ID, domain.AttendanceMaybe)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("update keeps answers of remaining attendees", func(t *testing.T) {
		title := "Planning v2"
		attendees := []string{olga.UserID}
		got, err := h.Meetings.Update(ctx, f.erin, m.ID, domain.MeetingPatch{Title: &title, Attendees: &attendees})
		require.NoError(t, err)
		require.Equal(t, title, got.Title)
		require.Equal(t, []domain.Attendee{{UserID: olga.UserID, Status: domain.AttendanceAccepted}}, got.Attendees)

		stored, err := h.Meetings.Get(ctx, olga, m.ID)
		require.NoError(t, err)
		require.Equal(t, got.Attendees, stored.Attendees)
	})

	t.Run("update checks the window", func(t *testing.T) {
		end := start.Add(-time.Minute)
		_, err := h.Meetings.Update(ctx, f.erin, m.ID, domain.MeetingPatch{EndTime: &end})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("only organizer or admin", func(t *testing.T) {
		title := "mine now"
		_, err := h.Meetings.Update(ctx, olga, m.ID, domain.MeetingPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrForbidden)

		_, err = h.Meetings.Update(ctx, f.alice, m.ID, domain.MeetingPatch{Title: &title})
		require.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.ErrorIs(t, h.Meetings.Delete(ctx, olga, m.ID), domain.ErrForbidden)
		require.NoError(t, h.Meetings.Delete(ctx, f.erin, m.ID))

		_, err := h.Meetings.Get(ctx, f.erin, m.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
