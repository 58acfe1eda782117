package tasksdk

import (
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
)

// ============================================================================
// Errors and health
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the stable kind, e.g. "NOT_FOUND" or "CONFLICT".
	Error string `json:"error"`

	// Code refines the kind, e.g. "ALREADY_TRACKING". Optional.
	Code string `json:"code,omitempty"`

	// Message is human readable and may change between versions.
	Message string `json:"message"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// JWKSResponse is the public key set tokens can be verified against.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Accounts
// ============================================================================

// RegisterRequest signs up a user. Set OrganizationName to found a new
// organization, or InviteCode to join one; never both.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`

	OrganizationName        string `json:"organizationName,omitempty"`
	OrganizationDescription string `json:"organizationDescription,omitempty"`
	InviteCode              string `json:"inviteCode,omitempty"`
}

// LoginRequest accepts a username or an email address as Login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int       `json:"expiresIn"` // seconds
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	OrganizationID string    `json:"organizationId,omitempty"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

// ============================================================================
// Organizations
// ============================================================================

type Organization struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	InviteCode   string    `json:"inviteCode"`
	ProjectCount int       `json:"projectCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type JoinOrganizationRequest struct {
	InviteCode string `json:"inviteCode"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type Invite struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invitedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type InvitesResponse struct {
	Invites []Invite `json:"invites"`
}

// ============================================================================
// Projects
// ============================================================================

type TeamMember struct {
	UserID     string    `json:"userId"`
	Role       string    `json:"role"`
	AssignedAt time.Time `json:"assignedAt"`
}

type Project struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organizationId"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	CreatedBy      string       `json:"createdBy"`
	Status         string       `json:"status"`
	Priority       string       `json:"priority"`
	StartDate      *time.Time   `json:"startDate,omitempty"`
	EndDate        *time.Time   `json:"endDate,omitempty"`
	DueDate        *time.Time   `json:"dueDate,omitempty"`
	Team           []TeamMember `json:"teamMembers"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type AddTeamMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
}

type CreateProjectRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Status      string                 `json:"status,omitempty"`
	Priority    string                 `json:"priority,omitempty"`
	StartDate   *time.Time             `json:"startDate,omitempty"`
	EndDate     *time.Time             `json:"endDate,omitempty"`
	DueDate     *time.Time             `json:"dueDate,omitempty"`
	Team        []AddTeamMemberRequest `json:"teamMembers,omitempty"`
}

// UpdateProjectRequest changes only the fields that are present.
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type ProjectsResponse struct {
	Projects []Project `json:"projects"`
}

type TeamResponse struct {
	Team []TeamMember `json:"teamMembers"`
}

// ============================================================================
// Tasks and time tracking
// ============================================================================

type TimeEntry struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId"`
	UserID    string     `json:"userId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int        `json:"duration"` // minutes, set once closed
	Note      string     `json:"description,omitempty"`
}

type Task struct {
	ID                 string      `json:"id"`
	ProjectID          string      `json:"projectId"`
	OrganizationID     string      `json:"organizationId"`
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	CreatedBy          string      `json:"createdBy"`
	AssignedTo         string      `json:"assignedTo,omitempty"`
	Status             string      `json:"status"`
	Priority           string      `json:"priority"`
	DueDate            *time.Time  `json:"dueDate,omitempty"`
	StartDate          *time.Time  `json:"startDate,omitempty"`
	CompletedAt        *time.Time  `json:"completedAt,omitempty"`
	EstimatedHours     float64     `json:"estimatedHours"`
	Tags               []string    `json:"tags"`
	TotalTimeSpent     int         `json:"totalTimeSpent"` // minutes
	TotalHoursSpent    float64     `json:"totalHoursSpent"`
	ProgressPercentage int         `json:"progressPercentage"`
	TimeEntries        []TimeEntry `json:"timeEntries,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

type CreateTaskRequest struct {
	ProjectID      string     `json:"projectId"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	AssignedTo     string     `json:"assignedTo,omitempty"`
	Status         string     `json:"status,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EstimatedHours float64    `json:"estimatedHours,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
}

// UpdateTaskRequest changes only the fields that are present. An empty
// AssignedTo unassigns the task.
type UpdateTaskRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	AssignedTo     *string    `json:"assignedTo,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	Tags           *[]string  `json:"tags,omitempty"`
}

type SetTaskStatusRequest struct {
	Status string `json:"status"`
}

type TasksResponse struct {
	Tasks []Task `json:"tasks"`
}

// StopTrackingRequest closes the caller's open entry. A missing EndTime
// means now.
type StopTrackingRequest struct {
	EndTime *time.Time `json:"endTime,omitempty"`
	Note    string     `json:"description,omitempty"`
}

type StopTrackingResponse struct {
	Entry TimeEntry `json:"timeEntry"`
	Task  Task      `json:"task"`
}

type ActiveEntry struct {
	Task           Task      `json:"task"`
	Entry          TimeEntry `json:"timeEntry"`
	ElapsedMinutes int       `json:"elapsedMinutes"`
}

type ActiveEntriesResponse struct {
	Entries []ActiveEntry `json:"activeEntries"`
}

// ============================================================================
// Meetings
// ============================================================================

type Attendee struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// Meeting carries its stored Status and the DisplayStatus computed for the
// moment the response was produced.
type Meeting struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	OrganizerID    string     `json:"organizerId"`
	ProjectID      string     `json:"projectId,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Location       string     `json:"location,omitempty"`
	MeetingType    string     `json:"meetingType"`
	MeetingURL     string     `json:"meetingUrl,omitempty"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        time.Time  `json:"endTime"`
	Status         string     `json:"status"`
	DisplayStatus  string     `json:"displayStatus"`
	StatusColor    string     `json:"statusColor"`
	Attendees      []Attendee `json:"attendees"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type CreateMeetingRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	MeetingType string    `json:"meetingType,omitempty"`
	MeetingURL  string    `json:"meetingUrl,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	ProjectID   string    `json:"projectId,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// UpdateMeetingRequest changes only the fields that are present.
// Attendees replaces the list; answers of remaining attendees are kept.
type UpdateMeetingRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	MeetingType *string    `json:"meetingType,omitempty"`
	MeetingURL  *string    `json:"meetingUrl,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	ProjectID   *string    `json:"projectId,omitempty"`
	Attendees   *[]string  `json:"attendees,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// RespondRequest answers an invitation with accepted, declined or maybe.
type RespondRequest struct {
	Status string `json:"status"`
}

type MeetingsResponse struct {
	Meetings []Meeting `json:"meetings"`
}

// ============================================================================
// Dashboard
// ============================================================================

type DashboardSummary struct {
	Projects         int            `json:"projectCount"`
	Tasks            int            `json:"taskCount"`
	TasksByStatus    map[string]int `json:"tasksByStatus"`
	TeamMembers      int            `json:"teamMemberCount"`
	TotalTimeSpent   int            `json:"totalTimeSpent"`
	TotalHoursSpent  float64        `json:"totalHoursSpent"`
	UpcomingMeetings int            `json:"upcomingMeetingCount"`
}
