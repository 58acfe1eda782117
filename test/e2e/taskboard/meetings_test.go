package taskboard_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

// TestMeetings covers scheduling, invitations and cancellation.
func TestMeetings(t *testing.T) {
	c := setupTaskboard(t)
	ctx := t.Context()

	admin := registerAdmin(t, c, "mia", "Meeting Org")
	guest := registerMember(t, c, admin, "gus", "employee")

	start := time.Now().UTC().Add(2 * time.Hour).Truncate(time.Minute)

	t.Run("online meetings need a url", func(t *testing.T) {
		_, err := admin.CreateMeeting(ctx, tasksdk.CreateMeetingRequest{
			Title:       "Standup",
			MeetingType: "online",
			StartTime:   start,
			EndTime:     start.Add(15 * time.Minute),
		})
		assertAPIError(t, err, http.StatusBadRequest, tasksdk.KindValidation, "")
	})

	m, err := admin.CreateMeeting(ctx, tasksdk.CreateMeetingRequest{
		Title:       "Standup",
		MeetingType: "online",
		MeetingURL:  "https://meet.example.com/standup",
		StartTime:   start,
		EndTime:     start.Add(15 * time.Minute),
		Attendees:   []string{guest.User().ID},
	})
	require.NoError(t, err)
	require.Equal(t, "upcoming", m.DisplayStatus)
	require.Equal(t, "blue", m.StatusColor)

	t.Run("attendee sees and answers", func(t *testing.T) {
		upcoming, err := guest.UpcomingMeetings(ctx)
		require.NoError(t, err)
		require.Len(t, upcoming, 1)

		got, err := guest.RespondToMeeting(ctx, m.ID, "accepted")
		require.NoError(t, err)
		require.Equal(t, []tasksdk.Attendee{{UserID: guest.User().ID, Status: "accepted"}}, got.Attendees)
	})

	t.Run("attendees cannot cancel", func(t *testing.T) {
		_, err := guest.CancelMeeting(ctx, m.ID)
		assertAPIError(t, err, http.StatusForbidden, tasksdk.KindForbidden, "")
	})

	t.Run("cancel", func(t *testing.T) {
		got, err := admin.CancelMeeting(ctx, m.ID)
		require.NoError(t, err)
		require.Equal(t, "cancelled", got.DisplayStatus)
		require.Equal(t, "red", got.StatusColor)

		_, err = admin.CancelMeeting(ctx, m.ID)
		assertAPIError(t, err, http.StatusBadRequest, tasksdk.KindStateError, "")

		upcoming, err := guest.UpcomingMeetings(ctx)
		require.NoError(t, err)
		require.Empty(t, upcoming)
	})
}
