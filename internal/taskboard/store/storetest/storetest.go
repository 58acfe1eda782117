// Package storetest is a conformance suite every store driver must pass.
package storetest

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Opener returns a fresh, migrated, empty store. It registers its own
// cleanup on t.
type Opener func(t *testing.T) store.Store

var base = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// Run exercises every repository against stores produced by open.
func Run(t *testing.T, open Opener) {
	t.Run("users", func(t *testing.T) { t.Parallel(); testUsers(t, open(t)) })
	t.Run("membership", func(t *testing.T) { t.Parallel(); testMembership(t, open(t)) })
	t.Run("invites", func(t *testing.T) { t.Parallel(); testInvites(t, open(t)) })
	t.Run("projects", func(t *testing.T) { t.Parallel(); testProjects(t, open(t)) })
	t.Run("tasks", func(t *testing.T) { t.Parallel(); testTasks(t, open(t)) })
	t.Run("time entries", func(t *testing.T) { t.Parallel(); testTimeEntries(t, open(t)) })
	t.Run("concurrent open entries", func(t *testing.T) { t.Parallel(); testConcurrentOpenEntries(t, open(t)) })
	t.Run("meetings", func(t *testing.T) { t.Parallel(); testMeetings(t, open(t)) })
	t.Run("cascade", func(t *testing.T) { t.Parallel(); testCascade(t, open(t)) })
	t.Run("transactions", func(t *testing.T) { t.Parallel(); testTransactions(t, open(t)) })
}

// fixture is an organization with an admin and an employee.
type fixture struct {
	org      domain.Organization
	admin    domain.User
	employee domain.User
}

func newUser(name string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     name,
		Email:        name + "@example.com",
		Name:         name,
		PasswordHash: "hash",
		Role:         domain.RoleEmployee,
		Status:       domain.UserPending,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
}

func seed(t *testing.T, s store.Store) fixture {
	t.Helper()
	ctx := context.Background()

	var f fixture
	f.admin = newUser("alice")
	f.employee = newUser("erin")
	require.NoError(t, s.Users().CreateUser(ctx, f.admin))
	require.NoError(t, s.Users().CreateUser(ctx, f.employee))

	f.org = domain.Organization{
		ID:         idx.New().String(),
		Name:       "Acme",
		CreatedBy:  f.admin.ID,
		InviteCode: "C1C1C1C1",
		CreatedAt:  base,
		UpdatedAt:  base,
	}
	require.NoError(t, s.Organizations().CreateOrganization(ctx, f.org))

	for _, u := range []*domain.User{&f.admin, &f.employee} {
		u.OrganizationID = f.org.ID
		u.Status = domain.UserActive
	}
	f.admin.Role = domain.RoleAdmin
	require.NoError(t, s.Users().SetMembership(ctx, f.admin, ""))
	require.NoError(t, s.Users().SetMembership(ctx, f.employee, ""))
	return f
}

func newProject(f fixture, name string) domain.Project {
	return domain.Project{
		ID:             idx.New().String(),
		OrganizationID: f.org.ID,
		Name:           name,
		CreatedBy:      f.admin.ID,
		Status:         domain.ProjectPlanning,
		Priority:       domain.PriorityMedium,
		CreatedAt:      base,
		UpdatedAt:      base,
	}
}

func newTask(p domain.Project, creator string, at time.Time) domain.Task {
	return domain.Task{
		ID:             idx.New().String(),
		ProjectID:      p.ID,
		OrganizationID: p.OrganizationID,
		Title:          "task",
		CreatedBy:      creator,
		Status:         domain.TaskPending,
		Priority:       domain.PriorityMedium,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := newUser("jane")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, u, got)

	got, err = s.Users().GetUserByUsername(ctx, "jane")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Empty(t, got.OrganizationID)

	dupName := newUser("jane")
	dupName.Email = "other@example.com"
	require.ErrorIs(t, s.Users().CreateUser(ctx, dupName), store.ErrAlreadyExists)

	dupEmail := newUser("janet")
	dupEmail.Email = u.Email
	require.ErrorIs(t, s.Users().CreateUser(ctx, dupEmail), store.ErrAlreadyExists)

	u.Name = "Jane Doe"
	u.UpdatedAt = base.Add(time.Minute)
	require.NoError(t, s.Users().UpdateProfile(ctx, u))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", got.Name)
	require.Equal(t, u.UpdatedAt, got.UpdatedAt)

	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testMembership(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	got, err := s.Organizations().GetOrganizationByInviteCode(ctx, "C1C1C1C1")
	require.NoError(t, err)
	require.Equal(t, f.org, got)

	members, err := s.Users().ListUsersByOrganization(ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "alice", members[0].Username)

	require.NoError(t, s.Organizations().LockMembership(ctx, f.org.ID))
	require.ErrorIs(t, s.Organizations().LockMembership(ctx, "missing"), store.ErrNotFound)

	t.Run("assign only from no organization", func(t *testing.T) {
		require.ErrorIs(t, s.Users().SetMembership(ctx, f.employee, ""), store.ErrConflict)
	})

	t.Run("role change requires the same organization", func(t *testing.T) {
		promoted := f.employee
		promoted.Role = domain.RoleManager
		require.ErrorIs(t, s.Users().SetMembership(ctx, promoted, "other-org"), store.ErrConflict)
		require.NoError(t, s.Users().SetMembership(ctx, promoted, f.org.ID))

		got, err := s.Users().GetUserByID(ctx, f.employee.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, got.Role)
	})

	t.Run("removal detaches", func(t *testing.T) {
		removed := f.employee
		removed.Detach()
		require.NoError(t, s.Users().SetMembership(ctx, removed, f.org.ID))
		require.ErrorIs(t, s.Users().SetMembership(ctx, removed, f.org.ID), store.ErrConflict)

		got, err := s.Users().GetUserByID(ctx, f.employee.ID)
		require.NoError(t, err)
		require.Empty(t, got.OrganizationID)
		require.Equal(t, domain.RoleEmployee, got.Role)
		require.Equal(t, domain.UserPending, got.Status)
	})

	dup := f.org
	dup.ID = idx.New().String()
	dup.InviteCode = "OTHER"
	require.ErrorIs(t, s.Organizations().CreateOrganization(ctx, dup), store.ErrAlreadyExists)
}

func testInvites(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	inv := domain.Invite{
		ID:             idx.New().String(),
		OrganizationID: f.org.ID,
		Email:          "new@example.com",
		Role:           domain.RoleManager,
		InvitedBy:      f.admin.ID,
		CreatedAt:      base,
	}
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	again := inv
	again.ID = idx.New().String()
	require.ErrorIs(t, s.Invites().CreateInvite(ctx, again), store.ErrAlreadyExists)

	got, err := s.Invites().GetInviteByEmail(ctx, f.org.ID, "new@example.com")
	require.NoError(t, err)
	require.Equal(t, inv, got)

	list, err := s.Invites().ListInvites(ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.ErrorIs(t, s.Invites().DeleteInvite(ctx, "other-org", inv.ID), store.ErrNotFound)
	require.NoError(t, s.Invites().DeleteInvite(ctx, f.org.ID, inv.ID))
	_, err = s.Invites().GetInviteByEmail(ctx, f.org.ID, "new@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testProjects(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	due := base.Add(72 * time.Hour)
	p := newProject(f, "Website")
	p.DueDate = &due
	p.Team = []domain.TeamMember{{UserID: f.admin.ID, Role: "lead", AssignedAt: base}}
	require.NoError(t, s.Projects().CreateProject(ctx, p))
	require.NoError(t, s.Organizations().AdjustProjectCount(ctx, f.org.ID, 1))

	older := newProject(f, "Older")
	older.CreatedAt = base.Add(-time.Hour)
	require.NoError(t, s.Projects().CreateProject(ctx, older))

	member := domain.TeamMember{UserID: f.employee.ID, Role: domain.DefaultProjectRole, AssignedAt: base.Add(time.Minute)}
	require.NoError(t, s.Projects().AddTeamMember(ctx, p.ID, member))
	require.ErrorIs(t, s.Projects().AddTeamMember(ctx, p.ID, member), store.ErrAlreadyExists)

	got, err := s.Projects().GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Website", got.Name)
	require.Equal(t, &due, got.DueDate)
	require.Nil(t, got.StartDate)
	require.Equal(t, []domain.TeamMember{p.Team[0], member}, got.Team)

	list, err := s.Projects().ListProjectsByOrganization(ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, p.ID, list[0].ID, "newest first")
	require.Len(t, list[0].Team, 2)
	require.Empty(t, list[1].Team)

	n, err := s.Projects().CountTeamMembers(ctx, f.org.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got.Status = domain.ProjectActive
	got.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, s.Projects().UpdateProject(ctx, got))
	got, err = s.Projects().GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ProjectActive, got.Status)
	require.Len(t, got.Team, 2, "update leaves the team alone")

	require.NoError(t, s.Projects().RemoveTeamMember(ctx, p.ID, f.employee.ID))
	require.ErrorIs(t, s.Projects().RemoveTeamMember(ctx, p.ID, f.employee.ID), store.ErrNotFound)

	org, err := s.Organizations().GetOrganizationByID(ctx, f.org.ID)
	require.NoError(t, err)
	require.Equal(t, 1, org.ProjectCount)
}

func testTasks(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	p := newProject(f, "Website")
	require.NoError(t, s.Projects().CreateProject(ctx, p))

	mine := newTask(p, f.employee.ID, base)
	mine.Tags = []string{"frontend", "needs review"}
	mine.EstimatedHours = 2.5
	assigned := newTask(p, f.admin.ID, base.Add(time.Minute))
	assigned.AssignedTo = f.employee.ID
	other := newTask(p, f.admin.ID, base.Add(2*time.Minute))
	for _, task := range []domain.Task{mine, assigned, other} {
		require.NoError(t, s.Tasks().CreateTask(ctx, task))
	}

	got, err := s.Tasks().GetTaskByID(ctx, mine.ID)
	require.NoError(t, err)
	require.Equal(t, mine, got)

	all, err := s.Tasks().ListTasks(ctx, store.TaskFilter{ProjectID: p.ID})
	require.NoError(t, err)
	require.Equal(t, []string{other.ID, assigned.ID, mine.ID}, taskIDs(all))

	involved, err := s.Tasks().ListTasks(ctx, store.TaskFilter{OrganizationID: f.org.ID, InvolvedUserID: f.employee.ID})
	require.NoError(t, err)
	require.Equal(t, []string{assigned.ID, mine.ID}, taskIDs(involved))

	limited, err := s.Tasks().ListTasks(ctx, store.TaskFilter{OrganizationID: f.org.ID, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []string{other.ID}, taskIDs(limited))

	done := base.Add(time.Hour)
	mine.Status = domain.TaskCompleted
	mine.CompletedAt = &done
	mine.Progress = 100
	mine.TotalTimeSpent = 125
	mine.AssignedTo = f.admin.ID
	mine.Tags = nil
	mine.UpdatedAt = done
	require.NoError(t, s.Tasks().UpdateTask(ctx, mine))

	got, err = s.Tasks().GetTaskByID(ctx, mine.ID)
	require.NoError(t, err)
	require.Equal(t, mine, got)

	require.NoError(t, s.Tasks().DeleteTask(ctx, other.ID))
	_, err = s.Tasks().GetTaskByID(ctx, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.Tasks().DeleteTask(ctx, other.ID), store.ErrNotFound)
}

func taskIDs(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func newEntry(taskID, userID string, start time.Time) domain.TimeEntry {
	return domain.TimeEntry{
		ID:        idx.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		StartTime: start,
		CreatedAt: start,
	}
}

func testTimeEntries(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	p := newProject(f, "Website")
	require.NoError(t, s.Projects().CreateProject(ctx, p))
	task := newTask(p, f.employee.ID, base)
	require.NoError(t, s.Tasks().CreateTask(ctx, task))

	open := newEntry(task.ID, f.employee.ID, base)
	require.NoError(t, s.TimeEntries().CreateTimeEntry(ctx, open))

	t.Run("second open entry for the pair is rejected", func(t *testing.T) {
		err := s.TimeEntries().CreateTimeEntry(ctx, newEntry(task.ID, f.employee.ID, base.Add(time.Minute)))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("another user may track the same task", func(t *testing.T) {
		require.NoError(t, s.TimeEntries().CreateTimeEntry(ctx, newEntry(task.ID, f.admin.ID, base)))
	})

	got, err := s.TimeEntries().GetOpenTimeEntry(ctx, task.ID, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, open, got)

	active, err := s.TimeEntries().ListOpenTimeEntriesByUser(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, task.ID, active[0].Task.ID)
	require.Equal(t, open, active[0].Entry)

	end := base.Add(125 * time.Minute)
	closed := open
	closed.EndTime = &end
	closed.Duration = 125
	closed.Note = "done"
	require.NoError(t, s.TimeEntries().CloseTimeEntry(ctx, closed))
	require.ErrorIs(t, s.TimeEntries().CloseTimeEntry(ctx, closed), store.ErrConflict)

	_, err = s.TimeEntries().GetOpenTimeEntry(ctx, task.ID, f.employee.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// A closed entry frees the pair.
	reopened := newEntry(task.ID, f.employee.ID, end.Add(time.Minute))
	require.NoError(t, s.TimeEntries().CreateTimeEntry(ctx, reopened))

	entries, err := s.TimeEntries().ListTimeEntriesByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, closed.ID, entries[0].ID)
	require.Equal(t, &end, entries[0].EndTime)
	require.Equal(t, 125, entries[0].Duration)
	require.Equal(t, "done", entries[0].Note)
	require.Equal(t, reopened.ID, entries[2].ID)
}

// testConcurrentOpenEntries races transactional inserts of an open entry for
// one (task, user) pair. Exactly one may commit.
func testConcurrentOpenEntries(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	p := newProject(f, "Website")
	require.NoError(t, s.Projects().CreateProject(ctx, p))
	task := newTask(p, f.employee.ID, base)
	require.NoError(t, s.Tasks().CreateTask(ctx, task))

	const writers = 16
	entries := make([]domain.TimeEntry, writers)
	for i := range entries {
		entries[i] = newEntry(task.ID, f.employee.ID, base.Add(time.Duration(i)*time.Second))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithTx(ctx, func(tx store.Tx) error {
				return tx.TimeEntries().CreateTimeEntry(ctx, e)
			})
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	var ok, exists int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, store.ErrAlreadyExists):
			exists++
		default:
			t.Fatalf("unexpected insert error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, writers-1, exists)

	stored, err := s.TimeEntries().ListTimeEntriesByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.True(t, stored[0].Open())
}

func testMeetings(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	p := newProject(f, "Website")
	require.NoError(t, s.Projects().CreateProject(ctx, p))

	meeting := func(title string, start time.Time) domain.Meeting {
		return domain.Meeting{
			ID:             idx.New().String(),
			OrganizationID: f.org.ID,
			OrganizerID:    f.admin.ID,
			Title:          title,
			Type:           domain.MeetingPhysical,
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
			Status:         domain.MeetingScheduled,
			CreatedAt:      base,
			UpdatedAt:      base,
		}
	}

	standup := meeting("standup", base.Add(24*time.Hour))
	standup.ProjectID = p.ID
	standup.Attendees = []domain.Attendee{
		{UserID: f.employee.ID, Status: domain.AttendanceInvited},
		{UserID: f.admin.ID, Status: domain.AttendanceAccepted},
	}
	review := meeting("review", base.Add(48*time.Hour))
	retro := meeting("retro", base.Add(-24*time.Hour))
	for _, m := range []domain.Meeting{standup, review, retro} {
		require.NoError(t, s.Meetings().CreateMeeting(ctx, m))
	}

	got, err := s.Meetings().GetMeetingByID(ctx, standup.ID)
	require.NoError(t, err)
	require.Equal(t, standup, got)

	mine, err := s.Meetings().ListMeetings(ctx, store.MeetingFilter{OrganizationID: f.org.ID, ParticipantID: f.employee.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, standup.Attendees, mine[0].Attendees)

	upcoming, err := s.Meetings().ListMeetings(ctx, store.MeetingFilter{
		OrganizationID: f.org.ID,
		Status:         domain.MeetingScheduled,
		StartFrom:      base,
		Limit:          10,
	})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	require.Equal(t, standup.ID, upcoming[0].ID, "ordered by start")

	window, err := s.Meetings().ListMeetings(ctx, store.MeetingFilter{
		OrganizationID: f.org.ID,
		StartFrom:      base.Add(-48 * time.Hour),
		StartBefore:    base.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Equal(t, retro.ID, window[0].ID)

	require.NoError(t, s.Meetings().SetAttendance(ctx, standup.ID, f.employee.ID, domain.AttendanceDeclined))
	require.ErrorIs(t, s.Meetings().SetAttendance(ctx, review.ID, f.employee.ID, domain.AttendanceAccepted), store.ErrNotFound)

	got, err = s.Meetings().GetMeetingByID(ctx, standup.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceDeclined, got.Attendees[0].Status)

	got.Status = domain.MeetingCancelled
	got.Attendees = got.Attendees[1:]
	got.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, s.Meetings().UpdateMeeting(ctx, got))

	again, err := s.Meetings().GetMeetingByID(ctx, standup.ID)
	require.NoError(t, err)
	require.Equal(t, got, again)

	// Deleting the project keeps the meeting but drops the link.
	require.NoError(t, s.Projects().DeleteProject(ctx, p.ID))
	again, err = s.Meetings().GetMeetingByID(ctx, standup.ID)
	require.NoError(t, err)
	require.Empty(t, again.ProjectID)

	require.NoError(t, s.Meetings().DeleteMeeting(ctx, standup.ID))
	_, err = s.Meetings().GetMeetingByID(ctx, standup.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)

	p := newProject(f, "Website")
	require.NoError(t, s.Projects().CreateProject(ctx, p))
	task := newTask(p, f.employee.ID, base)
	require.NoError(t, s.Tasks().CreateTask(ctx, task))
	require.NoError(t, s.TimeEntries().CreateTimeEntry(ctx, newEntry(task.ID, f.employee.ID, base)))

	require.NoError(t, s.Projects().DeleteProject(ctx, p.ID))

	_, err := s.Tasks().GetTaskByID(ctx, task.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	open, err := s.TimeEntries().ListOpenTimeEntriesByUser(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Empty(t, open)
}

func testTransactions(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := seed(t, s)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Organizations().AdjustProjectCount(ctx, f.org.ID, 5))
		return boom
	})
	require.ErrorIs(t, err, boom)

	org, err := s.Organizations().GetOrganizationByID(ctx, f.org.ID)
	require.NoError(t, err)
	require.Zero(t, org.ProjectCount, "rolled back")

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		require.ErrorIs(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), sql.ErrTxDone)
		return tx.Organizations().AdjustProjectCount(ctx, f.org.ID, 2)
	}))

	org, err = s.Organizations().GetOrganizationByID(ctx, f.org.ID)
	require.NoError(t, err)
	require.Equal(t, 2, org.ProjectCount)

	require.NoError(t, s.Ping(ctx))
}
