package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	t.Run("plain registration starts pending", func(t *testing.T) {
		sess, err := h.Accounts.Register(ctx, Registration{
			Username: "pat",
			Email:    " Pat@Example.com ",
			Password: "long enough",
		})
		require.NoError(t, err)
		require.Equal(t, "pat@example.com", sess.User.Email)
		require.Equal(t, domain.UserPending, sess.User.Status)
		require.Empty(t, sess.User.OrganizationID)
		require.True(t, t0.Add(jwtx.DefaultAccessTokenTTL).Equal(sess.Token.ExpiresAt))
	})

	t.Run("with a new organization", func(t *testing.T) {
		sess, err := h.Accounts.Register(ctx, Registration{
			Username:         "olivia",
			Email:            "olivia@example.com",
			Password:         "long enough",
			OrganizationName: "Initech",
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, sess.User.Role)
		require.Equal(t, domain.UserActive, sess.User.Status)
		require.NotEmpty(t, sess.User.OrganizationID)
	})

	tests := []struct {
		name string
		r    Registration
		want error
	}{
		{"duplicate username", Registration{Username: "pat", Email: "other@example.com", Password: "long enough"}, domain.ErrConflict},
		{"duplicate email", Registration{Username: "pat2", Email: "PAT@example.com", Password: "long enough"}, domain.ErrConflict},
		{"duplicate organization", Registration{Username: "x1", Email: "x1@example.com", Password: "long enough", OrganizationName: "Initech"}, domain.ErrConflict},
		{"bad email", Registration{Username: "x2", Email: "x2@example", Password: "long enough"}, domain.ErrValidation},
		{"short password", Registration{Username: "x3", Email: "x3@example.com", Password: "short"}, domain.ErrValidation},
		{"bad username", Registration{Username: "a b", Email: "x4@example.com", Password: "long enough"}, domain.ErrValidation},
		{"both organization options", Registration{Username: "x5", Email: "x5@example.com", Password: "long enough", OrganizationName: "N", InviteCode: "ABC"}, domain.ErrValidation},
		{"unknown invite code", Registration{Username: "x6", Email: "x6@example.com", Password: "long enough", InviteCode: "NOPE"}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Accounts.Register(ctx, tt.r)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("a failed organization leaves no user behind", func(t *testing.T) {
		_, err := h.Accounts.Login(ctx, "x1", "long enough")
		require.ErrorIs(t, err, domain.ErrInvalidCredential)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	_, err := h.Accounts.Register(ctx, Registration{Username: "pat", Email: "pat@example.com", Password: "long enough"})
	require.NoError(t, err)

	for _, login := range []string{"pat", "pat@example.com", " PAT@EXAMPLE.COM "} {
		sess, err := h.Accounts.Login(ctx, login, "long enough")
		require.NoError(t, err, login)
		require.Equal(t, "pat", sess.User.Username)
	}

	_, err = h.Accounts.Login(ctx, "pat", "wrong password")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = h.Accounts.Login(ctx, "nobody", "long enough")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	id := h.register(t, "pat", Registration{})

	name := "  Pat Smith "
	u, err := h.Accounts.UpdateProfile(ctx, id, domain.ProfilePatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Pat Smith", u.Name)

	me, err := h.Accounts.Me(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Pat Smith", me.Name)
}

func TestIdentityResolve(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	_, err := h.Identity.Resolve(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)
}
