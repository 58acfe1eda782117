package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict means a compare-and-swap lost: the row no longer looks the
	// way the caller expected.
	ErrConflict = errors.New("store: conflicting update")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Repositories hang off the store so a transaction
// can hand out the same repositories bound to itself.
type Store interface {
	Organizations() Organizations
	Users() Users
	Invites() Invites
	Projects() Projects
	Tasks() Tasks
	TimeEntries() TimeEntries
	Meetings() Meetings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn, use only the repositories of tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Organizations interface {
	// CreateOrganization fails with ErrAlreadyExists on a duplicate name or
	// invite code.
	CreateOrganization(ctx context.Context, o domain.Organization) error

	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)
	GetOrganizationByInviteCode(ctx context.Context, code string) (domain.Organization, error)

	// LockMembership bumps the organization's member version. Inside a
	// transaction this takes the row's write lock, so membership changes of
	// one organization run one at a time.
	LockMembership(ctx context.Context, orgID string) error

	// AdjustProjectCount adds delta to the project counter atomically.
	AdjustProjectCount(ctx context.Context, orgID string, delta int) error
}

type Users interface {
	// CreateUser fails with ErrAlreadyExists on a duplicate username or email.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsersByOrganization returns members ordered by username.
	ListUsersByOrganization(ctx context.Context, orgID string) ([]domain.User, error)

	// SetMembership writes u's organization, role and status, provided the
	// stored organization is still fromOrgID ("" meaning none). Otherwise it
	// returns ErrConflict and changes nothing.
	SetMembership(ctx context.Context, u domain.User, fromOrgID string) error

	// UpdateProfile writes the self-service fields of u.
	UpdateProfile(ctx context.Context, u domain.User) error
}

type Invites interface {
	// CreateInvite fails with ErrAlreadyExists when the email is already
	// invited to the organization.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	ListInvites(ctx context.Context, orgID string) ([]domain.Invite, error)
	GetInviteByEmail(ctx context.Context, orgID, email string) (domain.Invite, error)
	DeleteInvite(ctx context.Context, orgID, id string) error
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error

	// GetProjectByID returns the project with its team loaded.
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// ListProjectsByOrganization returns projects, newest first, with teams.
	ListProjectsByOrganization(ctx context.Context, orgID string) ([]domain.Project, error)

	// UpdateProject writes the mutable fields; the team is untouched.
	UpdateProject(ctx context.Context, p domain.Project) error

	// DeleteProject cascades to team, tasks and their time entries.
	DeleteProject(ctx context.Context, id string) error

	// AddTeamMember fails with ErrAlreadyExists when the user is already on
	// the team.
	AddTeamMember(ctx context.Context, projectID string, m domain.TeamMember) error
	RemoveTeamMember(ctx context.Context, projectID, userID string) error

	// CountTeamMembers counts distinct users on any team in the organization.
	CountTeamMembers(ctx context.Context, orgID string) (int, error)
}

// TaskFilter selects tasks. Zero fields do not filter.
type TaskFilter struct {
	OrganizationID string
	ProjectID      string
	// InvolvedUserID keeps tasks created by or assigned to the user.
	InvolvedUserID string
	AssignedTo     string
	// Limit caps the result; tasks are ordered most recently updated first.
	Limit int
}

type Tasks interface {
	CreateTask(ctx context.Context, t domain.Task) error

	// GetTaskByID returns the task without time entries.
	GetTaskByID(ctx context.Context, id string) (domain.Task, error)

	ListTasks(ctx context.Context, f TaskFilter) ([]domain.Task, error)

	// UpdateTask writes every mutable column including status, progress,
	// completedAt and totalTimeSpent.
	UpdateTask(ctx context.Context, t domain.Task) error

	DeleteTask(ctx context.Context, id string) error
}

type TimeEntries interface {
	// CreateTimeEntry fails with ErrAlreadyExists when the (task, user) pair
	// already has an open entry. The database enforces this, not the caller.
	CreateTimeEntry(ctx context.Context, e domain.TimeEntry) error

	GetOpenTimeEntry(ctx context.Context, taskID, userID string) (domain.TimeEntry, error)

	// CloseTimeEntry stores end, duration and note for an entry that is still
	// open, else ErrConflict.
	CloseTimeEntry(ctx context.Context, e domain.TimeEntry) error

	// ListTimeEntriesByTask returns entries oldest first.
	ListTimeEntriesByTask(ctx context.Context, taskID string) ([]domain.TimeEntry, error)

	// ListOpenTimeEntriesByUser returns every open entry of the user with
	// its task, oldest first.
	ListOpenTimeEntriesByUser(ctx context.Context, userID string) ([]domain.OpenEntry, error)
}

// MeetingFilter selects meetings. Zero fields do not filter.
type MeetingFilter struct {
	OrganizationID string
	// ParticipantID keeps meetings the user organizes or attends.
	ParticipantID string
	Status        domain.MeetingStatus
	// StartFrom and StartBefore bound the start time, [from, before).
	StartFrom   time.Time
	StartBefore time.Time
	// Limit caps the result; meetings are ordered by start time.
	Limit int
}

type Meetings interface {
	// CreateMeeting stores the meeting and its attendees.
	CreateMeeting(ctx context.Context, m domain.Meeting) error

	GetMeetingByID(ctx context.Context, id string) (domain.Meeting, error)
	ListMeetings(ctx context.Context, f MeetingFilter) ([]domain.Meeting, error)

	// UpdateMeeting writes the mutable fields and replaces the attendees.
	UpdateMeeting(ctx context.Context, m domain.Meeting) error

	DeleteMeeting(ctx context.Context, id string) error

	// SetAttendance records an attendee's answer, ErrNotFound when the user
	// is not invited.
	SetAttendance(ctx context.Context, meetingID, userID string, a domain.Attendance) error
}
