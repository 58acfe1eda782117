package http

import (
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/projection"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// Conversions from domain entities to wire types. Password hashes and other
// internal fields never make it past these.

func toUser(u domain.User) tasksdk.User {
	return tasksdk.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name,
		OrganizationID: u.OrganizationID,
		Role:           string(u.Role),
		Status:         string(u.Status),
		CreatedAt:      u.CreatedAt,
	}
}

func toUsers(us []domain.User) []tasksdk.User {
	out := make([]tasksdk.User, len(us))
	for i, u := range us {
		out[i] = toUser(u)
	}
	return out
}

func toOrganization(o domain.Organization) tasksdk.Organization {
	return tasksdk.Organization{
		ID:           o.ID,
		Name:         o.Name,
		Description:  o.Description,
		CreatedBy:    o.CreatedBy,
		InviteCode:   o.InviteCode,
		ProjectCount: o.ProjectCount,
		CreatedAt:    o.CreatedAt,
	}
}

func toInvite(i domain.Invite) tasksdk.Invite {
	return tasksdk.Invite{
		ID:        i.ID,
		Email:     i.Email,
		Role:      string(i.Role),
		InvitedBy: i.InvitedBy,
		CreatedAt: i.CreatedAt,
	}
}

func toTeam(team []domain.TeamMember) []tasksdk.TeamMember {
	out := make([]tasksdk.TeamMember, len(team))
	for i, m := range team {
		out[i] = tasksdk.TeamMember{UserID: m.UserID, Role: m.Role, AssignedAt: m.AssignedAt}
	}
	return out
}

func toProject(p domain.Project) tasksdk.Project {
	return tasksdk.Project{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Description:    p.Description,
		CreatedBy:      p.CreatedBy,
		Status:         string(p.Status),
		Priority:       string(p.Priority),
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		DueDate:        p.DueDate,
		Team:           toTeam(p.Team),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProjects(ps []domain.Project) []tasksdk.Project {
	out := make([]tasksdk.Project, len(ps))
	for i, p := range ps {
		out[i] = toProject(p)
	}
	return out
}

func toTimeEntry(e domain.TimeEntry) tasksdk.TimeEntry {
	return tasksdk.TimeEntry{
		ID:        e.ID,
		TaskID:    e.TaskID,
		UserID:    e.UserID,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Duration:  e.Duration,
		Note:      e.Note,
	}
}

func toTask(t domain.Task) tasksdk.Task {
	out := tasksdk.Task{
		ID:                 t.ID,
		ProjectID:          t.ProjectID,
		OrganizationID:     t.OrganizationID,
		Title:              t.Title,
		Description:        t.Description,
		CreatedBy:          t.CreatedBy,
		AssignedTo:         t.AssignedTo,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		DueDate:            t.DueDate,
		StartDate:          t.StartDate,
		CompletedAt:        t.CompletedAt,
		EstimatedHours:     t.EstimatedHours,
		Tags:               t.Tags,
		TotalTimeSpent:     t.TotalTimeSpent,
		TotalHoursSpent:    projection.HoursSpent(t.TotalTimeSpent),
		ProgressPercentage: t.Progress,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	for _, e := range t.TimeEntries {
		out.TimeEntries = append(out.TimeEntries, toTimeEntry(e))
	}
	return out
}

func toTasks(ts []domain.Task) []tasksdk.Task {
	out := make([]tasksdk.Task, len(ts))
	for i, t := range ts {
		out[i] = toTask(t)
	}
	return out
}

func toMeeting(m domain.Meeting, now time.Time) tasksdk.Meeting {
	display := projection.Meeting(m, now)

	attendees := make([]tasksdk.Attendee, len(m.Attendees))
	for i, a := range m.Attendees {
		attendees[i] = tasksdk.Attendee{UserID: a.UserID, Status: string(a.Status)}
	}

	return tasksdk.Meeting{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		OrganizerID:    m.OrganizerID,
		ProjectID:      m.ProjectID,
		Title:          m.Title,
		Description:    m.Description,
		Location:       m.Location,
		MeetingType:    string(m.Type),
		MeetingURL:     m.URL,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Status:         string(m.Status),
		DisplayStatus:  string(display),
		StatusColor:    display.Color(),
		Attendees:      attendees,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toMeetings(ms []domain.Meeting, now time.Time) []tasksdk.Meeting {
	out := make([]tasksdk.Meeting, len(ms))
	for i, m := range ms {
		out[i] = toMeeting(m, now)
	}
	return out
}
