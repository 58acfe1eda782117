package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

func TestOrganizationOnboarding(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	require.Len(t, f.org.InviteCode, InviteCodeLength)
	require.Equal(t, f.alice.UserID, f.org.CreatedBy)

	pat := h.register(t, "pat", Registration{})

	t.Run("create needs a name", func(t *testing.T) {
		_, err := h.Organizations.Create(ctx, pat, " ", "")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("name is unique", func(t *testing.T) {
		_, err := h.Organizations.Create(ctx, pat, "Acme", "")
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := h.Organizations.Join(ctx, pat, "ZZZZZZZZ")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("join with a lower case code", func(t *testing.T) {
		u, err := h.Organizations.Join(ctx, pat, " "+strings.ToLower(f.org.InviteCode)+" ")
		require.NoError(t, err)
		require.Equal(t, f.org.ID, u.OrganizationID)
		require.Equal(t, domain.RoleEmployee, u.Role)
		require.Equal(t, domain.UserActive, u.Status)
	})

	t.Run("members cannot join or create again", func(t *testing.T) {
		_, err := h.Organizations.Join(ctx, f.erin, f.org.InviteCode)
		require.ErrorIs(t, err, domain.ErrConflict)

		_, err = h.Organizations.Create(ctx, f.erin, "Other", "")
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("stale identity loses the membership race", func(t *testing.T) {
		// pat's identity predates the join above.
		_, err := h.Organizations.Create(ctx, pat, "Umbrella", "")
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("members are listed by username", func(t *testing.T) {
		users, err := h.Organizations.Members(ctx, f.erin)
		require.NoError(t, err)

		var names []string
		for _, u := range users {
			names = append(names, u.Username)
		}
		require.Equal(t, []string{"alice", "erin", "pat"}, names)
	})
}

func TestOrganizationMembership(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	t.Run("only admins manage members", func(t *testing.T) {
		_, err := h.Organizations.ChangeRole(ctx, f.erin, f.alice.UserID, domain.RoleEmployee)
		require.ErrorIs(t, err, domain.ErrForbidden)

		err = h.Organizations.RemoveMember(ctx, f.erin, f.alice.UserID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := h.Organizations.ChangeRole(ctx, f.alice, f.erin.UserID, "owner")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("role change applies on the next resolve", func(t *testing.T) {
		u, err := h.Organizations.ChangeRole(ctx, f.alice, f.erin.UserID, domain.RoleManager)
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, u.Role)

		id, err := h.Identity.Resolve(ctx, f.erin.UserID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, id.Role)
	})

	t.Run("cannot remove self", func(t *testing.T) {
		err := h.Organizations.RemoveMember(ctx, f.alice, f.alice.UserID)
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("outsiders are not members", func(t *testing.T) {
		bob := h.register(t, "bob", Registration{OrganizationName: "Globex"})

		err := h.Organizations.RemoveMember(ctx, f.alice, bob.UserID)
		require.ErrorIs(t, err, domain.ErrNotFound)

		_, err = h.Organizations.ChangeRole(ctx, f.alice, bob.UserID, domain.RoleEmployee)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("removal resets the user", func(t *testing.T) {
		require.NoError(t, h.Organizations.RemoveMember(ctx, f.alice, f.erin.UserID))

		id, err := h.Identity.Resolve(ctx, f.erin.UserID)
		require.NoError(t, err)
		require.False(t, id.HasOrganization())
		require.Equal(t, domain.RoleEmployee, id.Role)

		u, err := h.Accounts.Me(ctx, id)
		require.NoError(t, err)
		require.Equal(t, domain.UserPending, u.Status)

		// The removed user loses access at once.
		_, err = h.Projects.Get(ctx, id, f.project.ID)
		require.ErrorIs(t, err, domain.ErrNoOrganization)
	})
}

func TestOrganizationInvites(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	inv, err := h.Organizations.Invite(ctx, f.alice, " Mia@Example.com", "")
	require.NoError(t, err)
	require.Equal(t, "mia@example.com", inv.Email)
	require.Equal(t, domain.RoleEmployee, inv.Role)

	tests := []struct {
		name  string
		who   domain.Identity
		email string
		role  domain.Role
		want  error
	}{
		{"not an admin", f.erin, "x@example.com", domain.RoleEmployee, domain.ErrForbidden},
		{"admin role", f.alice, "x@example.com", domain.RoleAdmin, domain.ErrValidation},
		{"bad email", f.alice, "x", domain.RoleEmployee, domain.ErrValidation},
		{"existing member", f.alice, "erin@example.com", domain.RoleManager, domain.ErrConflict},
		{"already invited", f.alice, "mia@example.com", domain.RoleManager, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Organizations.Invite(ctx, tt.who, tt.email, tt.role)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("list and cancel", func(t *testing.T) {
		other, err := h.Organizations.Invite(ctx, f.alice, "max@example.com", domain.RoleManager)
		require.NoError(t, err)

		invites, err := h.Organizations.Invites(ctx, f.alice)
		require.NoError(t, err)
		require.Len(t, invites, 2)

		require.NoError(t, h.Organizations.CancelInvite(ctx, f.alice, other.ID))
		require.ErrorIs(t, h.Organizations.CancelInvite(ctx, f.alice, other.ID), domain.ErrNotFound)

		invites, err = h.Organizations.Invites(ctx, f.alice)
		require.NoError(t, err)
		require.Len(t, invites, 1)
	})

	t.Run("joining consumes the invite", func(t *testing.T) {
		mia := h.register(t, "mia", Registration{})
		u, err := h.Organizations.Join(ctx, mia, f.org.InviteCode)
		require.NoError(t, err)
		require.Equal(t, domain.RoleEmployee, u.Role)

		invites, err := h.Organizations.Invites(ctx, f.alice)
		require.NoError(t, err)
		require.Empty(t, invites)
	})
}
