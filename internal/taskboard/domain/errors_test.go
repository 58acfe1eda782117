package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"cross tenant is not found", domain.CrossTenant("task"), domain.ErrNotFound, true},
		{"cross tenant by code", domain.CrossTenant("task"), domain.ErrCrossTenant, true},
		{"plain not found is not cross tenant", domain.NotFound("task"), domain.ErrCrossTenant, false},
		{"already tracking is conflict", domain.AlreadyTracking(), domain.ErrConflict, true},
		{"no active entry is state error", domain.NoActiveEntry(), domain.ErrStateError, true},
		{"invalid time range is validation", domain.InvalidTimeRange(), domain.ErrValidation, true},
		{"forbidden is not not found", domain.Forbidden("nope"), domain.ErrNotFound, false},
		{"wrapped", fmt.Errorf("outer: %w", domain.AlreadyTracking()), domain.ErrAlreadyTracking, true},
		{"foreign", errors.New("x"), domain.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestUnavailableKeepsCause(t *testing.T) {
	t.Parallel()

	err := domain.Unavailable(context.DeadlineExceeded)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, domain.ErrUnavailable)
	require.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	require.Equal(t, domain.KindInternal, domain.KindOf(errors.New("boom")))
}

func TestValidators(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.ValidateEmail("a@b.co"))
	for _, bad := range []string{"", "a@b", "a b@c.d", "@b.co", "a@.co x"} {
		require.ErrorIs(t, domain.ValidateEmail(bad), domain.ErrValidation, bad)
	}

	require.NoError(t, domain.ValidatePassword("12345678"))
	require.Error(t, domain.ValidatePassword("1234567"))

	require.NoError(t, domain.ValidateUsername("jane.doe_1"))
	require.Error(t, domain.ValidateUsername("ja"))
	require.Error(t, domain.ValidateUsername("jane doe"))

	s, err := domain.RequireText("name", "  Acme  ")
	require.NoError(t, err)
	require.Equal(t, "Acme", s)
	_, err = domain.RequireText("name", "   ")
	require.Error(t, err)
}

func TestUserDetach(t *testing.T) {
	t.Parallel()

	u := domain.User{ID: "u1", OrganizationID: "o1", Role: domain.RoleManager, Status: domain.UserActive}
	u.Detach()

	require.Empty(t, u.OrganizationID)
	require.Equal(t, domain.RoleEmployee, u.Role)
	require.Equal(t, domain.UserPending, u.Status)
	require.False(t, u.Identity().HasOrganization())
}

func TestMeetingPatchKeepsAnswers(t *testing.T) {
	t.Parallel()

	m := domain.Meeting{Attendees: []domain.Attendee{
		{UserID: "a", Status: domain.AttendanceAccepted},
		{UserID: "b", Status: domain.AttendanceDeclined},
	}}
	ids := []string{"a", "c"}
	domain.MeetingPatch{Attendees: &ids}.Apply(&m)

	require.Equal(t, []domain.Attendee{
		{UserID: "a", Status: domain.AttendanceAccepted},
		{UserID: "c", Status: domain.AttendanceInvited},
	}, m.Attendees)
}
