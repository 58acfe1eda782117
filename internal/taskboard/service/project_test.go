package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

func TestProjectLifecycle(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	require.Equal(t, domain.ProjectPlanning, f.project.Status)
	require.Equal(t, domain.PriorityMedium, f.project.Priority)
	require.Equal(t, f.alice.UserID, f.project.CreatedBy)

	org, err := h.Organizations.Get(ctx, f.alice)
	require.NoError(t, err)
	require.Equal(t, 1, org.ProjectCount)

	t.Run("any member may create", func(t *testing.T) {
		p, err := h.Projects.Create(ctx, f.erin, NewProject{
			Name: "Erin's",
			Team: []domain.TeamMember{{UserID: f.alice.UserID, Role: "reviewer"}},
		})
		require.NoError(t, err)
		require.Len(t, p.Team, 1)
		require.Equal(t, "reviewer", p.Team[0].Role)

		projects, err := h.Projects.List(ctx, f.alice)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		require.Equal(t, p.ID, projects[0].ID)
	})

	t.Run("validation", func(t *testing.T) {
		start := t0
		end := t0.Add(-time.Hour)

		for _, in := range []NewProject{
			{Name: ""},
			{Name: "x", Status: "archived"},
			{Name: "x", Priority: "urgent"},
			{Name: "x", StartDate: &start, EndDate: &end},
			{Name: "x", Team: []domain.TeamMember{{UserID: "nobody"}}},
		} {
			_, err := h.Projects.Create(ctx, f.alice, in)
			require.ErrorIs(t, err, domain.ErrValidation)
		}
	})

	t.Run("update by creator or elevated role only", func(t *testing.T) {
		status := domain.ProjectActive
		_, err := h.Projects.Update(ctx, f.erin, f.project.ID, domain.ProjectPatch{Status: &status})
		require.ErrorIs(t, err, domain.ErrForbidden)

		p, err := h.Projects.Update(ctx, f.alice, f.project.ID, domain.ProjectPatch{Status: &status})
		require.NoError(t, err)
		require.Equal(t, domain.ProjectActive, p.Status)
		require.Equal(t, "P", p.Name)
		require.Len(t, p.Team, 1)
	})

	t.Run("delete cascades and decrements", func(t *testing.T) {
		task, err := h.Tasks.Create(ctx, f.erin, NewTask{ProjectID: f.project.ID, Title: "T"})
		require.NoError(t, err)
		_, err = h.Tracking.Start(ctx, f.erin, task.ID)
		require.NoError(t, err)

		require.ErrorIs(t, h.Projects.Delete(ctx, f.erin, f.project.ID), domain.ErrForbidden)
		require.NoError(t, h.Projects.Delete(ctx, f.alice, f.project.ID))

		_, err = h.Tasks.Get(ctx, f.erin, task.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)

		org, err := h.Organizations.Get(ctx, f.alice)
		require.NoError(t, err)
		require.Equal(t, 1, org.ProjectCount)
	})
}

func TestProjectTeam(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)
	ctx := context.Background()

	olga := h.register(t, "olga", Registration{InviteCode: f.org.InviteCode})
	bob := h.register(t, "bob", Registration{OrganizationName: "Globex"})

	t.Run("available members", func(t *testing.T) {
		users, err := h.Projects.AvailableMembers(ctx, f.erin, f.project.ID)
		require.NoError(t, err)

		var names []string
		for _, u := range users {
			names = append(names, u.Username)
		}
		require.Equal(t, []string{"alice", "olga"}, names)
	})

	t.Run("add", func(t *testing.T) {
		p, err := h.Projects.AddMember(ctx, f.alice, f.project.ID, olga.UserID, "")
		require.NoError(t, err)
		require.True(t, p.HasMember(olga.UserID))

		team, err := h.Projects.Team(ctx, f.erin, f.project.ID)
		require.NoError(t, err)
		require.Len(t, team, 2)
		for _, m := range team {
			require.Equal(t, domain.DefaultProjectRole, m.Role)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := h.Projects.AddMember(ctx, f.alice, f.project.ID, olga.UserID, "lead")
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("outsider", func(t *testing.T) {
		_, err := h.Projects.AddMember(ctx, f.alice, f.project.ID, bob.UserID, "")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("team members cannot manage the team", func(t *testing.T) {
		_, err := h.Projects.RemoveMember(ctx, f.erin, f.project.ID, olga.UserID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("remove", func(t *testing.T) {
		p, err := h.Projects.RemoveMember(ctx, f.alice, f.project.ID, olga.UserID)
		require.NoError(t, err)
		require.False(t, p.HasMember(olga.UserID))

		_, err = h.Projects.RemoveMember(ctx, f.alice, f.project.ID, olga.UserID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("other tenants see not found", func(t *testing.T) {
		_, err := h.Projects.Get(ctx, bob, f.project.ID)
		require.ErrorIs(t, err, domain.ErrCrossTenant)

		_, err = h.Projects.Team(ctx, bob, f.project.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
