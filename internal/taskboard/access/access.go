// Package access decides whether an identity may perform an action on a
// resource. It is the only place authorization rules live; services call
// Authorize before every read or mutation of a tenant-owned resource.
package access

import (
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

type Action string

const (
	// Any member of the organization.
	Read          Action = "read"
	CreateProject Action = "project.create"
	CreateMeeting Action = "meeting.create"

	// Organization administration.
	ManageMembers Action = "org.members"
	ManageInvites Action = "org.invites"

	// Project mutations.
	UpdateProject Action = "project.update"
	DeleteProject Action = "project.delete"
	ManageTeam    Action = "project.team"

	// Tasks.
	CreateTask       Action = "task.create"
	UpdateTask       Action = "task.update"
	ChangeTaskStatus Action = "task.status"
	DeleteTask       Action = "task.delete"
	TrackTime        Action = "task.track"

	// Meetings.
	UpdateMeeting Action = "meeting.update"
	CancelMeeting Action = "meeting.cancel"
	DeleteMeeting Action = "meeting.delete"
)

type kind string

const (
	kindOrganization kind = "organization"
	kindProject      kind = "project"
	kindTask         kind = "task"
	kindMeeting      kind = "meeting"
)

// Resource is what an action targets, with the related entities the rules
// need already loaded.
type Resource struct {
	kind           kind
	organizationID string
	project        domain.Project
	task           domain.Task
	meeting        domain.Meeting
}

func Organization(orgID string) Resource {
	return Resource{kind: kindOrganization, organizationID: orgID}
}

// Project targets p. Team rules look at p.Team, so it must be loaded.
func Project(p domain.Project) Resource {
	return Resource{kind: kindProject, organizationID: p.OrganizationID, project: p}
}

// Task targets t inside its project p.
func Task(t domain.Task, p domain.Project) Resource {
	return Resource{kind: kindTask, organizationID: p.OrganizationID, project: p, task: t}
}

func Meeting(m domain.Meeting) Resource {
	return Resource{kind: kindMeeting, organizationID: m.OrganizationID, meeting: m}
}

// Authorize returns nil when id may perform a on r, otherwise a
// *domain.Error. Rules are checked in order and the first match decides.
func Authorize(id domain.Identity, r Resource, a Action) error {
	// 1. Tenant isolation. Looks exactly like a missing resource.
	if !id.HasOrganization() || r.organizationID != id.OrganizationID {
		return domain.CrossTenant(string(r.kind))
	}

	switch a {
	case Read, CreateProject, CreateMeeting:
		return nil

	// 2. Organization administration.
	case ManageMembers, ManageInvites:
		return allowIf(id.Role == domain.RoleAdmin, "only admins can manage the organization")

	// 3. Project mutations.
	case UpdateProject, DeleteProject, ManageTeam:
		if r.kind != kindProject {
			break
		}
		return allowIf(id.UserID == r.project.CreatedBy || id.Role.Elevated(),
			"only the project creator, admins or managers can change this project")

	// 4. Task mutations.
	case UpdateTask, ChangeTaskStatus:
		if r.kind != kindTask {
			break
		}
		return allowIf(taskMutator(id, r), "you cannot modify this task")

	case DeleteTask:
		if r.kind != kindTask {
			break
		}
		return allowIf(id.UserID == r.task.CreatedBy || id.Role == domain.RoleAdmin,
			"only the task creator or an admin can delete this task")

	case TrackTime:
		if r.kind != kindTask {
			break
		}
		return allowIf(taskMutator(id, r) || r.project.HasMember(id.UserID),
			"you cannot track time on this task")

	// 5. Task creation.
	case CreateTask:
		if r.kind != kindProject {
			break
		}
		return allowIf(id.UserID == r.project.CreatedBy || id.Role.Elevated() || r.project.HasMember(id.UserID),
			"only project team members can create tasks")

	// 7. Meetings.
	case UpdateMeeting, CancelMeeting, DeleteMeeting:
		if r.kind != kindMeeting {
			break
		}
		return allowIf(id.UserID == r.meeting.OrganizerID || id.Role == domain.RoleAdmin,
			"only the organizer or an admin can change this meeting")
	}

	return domain.Forbidden("action %s is not permitted on %s", a, r.kind)
}

func taskMutator(id domain.Identity, r Resource) bool {
	switch id.UserID {
	case r.task.CreatedBy, r.project.CreatedBy:
		return true
	}
	if r.task.AssignedTo != "" && id.UserID == r.task.AssignedTo {
		return true
	}
	return id.Role.Elevated()
}

func allowIf(ok bool, msg string) error {
	if ok {
		return nil
	}
	return domain.Forbidden("%s", msg)
}
