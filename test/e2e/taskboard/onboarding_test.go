package taskboard_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

// TestOnboarding walks a user from a plain sign-up to organization
// membership and back out again.
func TestOnboarding(t *testing.T) {
	c := setupTaskboard(t)
	ctx := t.Context()

	admin := registerAdmin(t, c, "olivia", "Onboarding Org")

	loner, err := c.Register(ctx, tasksdk.RegisterRequest{
		Username: "lee",
		Email:    "lee@e2e.test",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, "pending", loner.User().Status)

	t.Run("no organization yet", func(t *testing.T) {
		_, err := loner.Projects(ctx)
		assertAPIError(t, err, http.StatusForbidden, tasksdk.KindForbidden, tasksdk.CodeNoOrganization)
	})

	t.Run("join with the invite code", func(t *testing.T) {
		_, err := admin.Invite(ctx, "lee@e2e.test", "manager")
		require.NoError(t, err)

		org, err := admin.Organization(ctx)
		require.NoError(t, err)

		u, err := loner.JoinOrganization(ctx, org.InviteCode)
		require.NoError(t, err)
		require.Equal(t, "manager", u.Role)
		require.Equal(t, "active", u.Status)

		invites, err := admin.Invites(ctx)
		require.NoError(t, err)
		require.Empty(t, invites, "the invite is consumed on join")

		_, err = loner.JoinOrganization(ctx, org.InviteCode)
		assertAPIError(t, err, http.StatusConflict, tasksdk.KindConflict, "")
	})

	t.Run("login by username or email", func(t *testing.T) {
		byName, err := c.Login(ctx, "lee", testPassword)
		require.NoError(t, err)
		byEmail, err := c.Login(ctx, "LEE@e2e.test", testPassword)
		require.NoError(t, err)
		require.Equal(t, byName.User().ID, byEmail.User().ID)

		_, err = c.Login(ctx, "lee", "wrong-password")
		assertAPIError(t, err, http.StatusUnauthorized, tasksdk.KindUnauthenticated, tasksdk.CodeInvalidCredential)
	})

	t.Run("only admins manage members", func(t *testing.T) {
		_, err := loner.Members(ctx)
		assertAPIError(t, err, http.StatusForbidden, tasksdk.KindForbidden, "")

		members, err := admin.Members(ctx)
		require.NoError(t, err)
		require.Len(t, members, 2)
	})

	t.Run("removal revokes access immediately", func(t *testing.T) {
		require.NoError(t, admin.RemoveMember(ctx, loner.User().ID))

		_, err := loner.Projects(ctx)
		assertAPIError(t, err, http.StatusForbidden, tasksdk.KindForbidden, tasksdk.CodeNoOrganization)
	})
}

// TestUnauthenticated verifies requests without a valid bearer token.
func TestUnauthenticated(t *testing.T) {
	c := setupTaskboard(t)
	ctx := t.Context()

	_, err := c.NewSessionFromToken("").Me(ctx)
	assertAPIError(t, err, http.StatusUnauthorized, tasksdk.KindUnauthenticated, tasksdk.CodeNoCredential)

	_, err = c.NewSessionFromToken("not-a-jwt").Me(ctx)
	assertAPIError(t, err, http.StatusUnauthorized, tasksdk.KindUnauthenticated, tasksdk.CodeInvalidCredential)
}
