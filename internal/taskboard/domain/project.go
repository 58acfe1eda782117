package domain

import (
	"slices"
	"time"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DefaultProjectRole is given to team members added without a role.
const DefaultProjectRole = "member"

type Project struct {
	ID             string
	OrganizationID string
	Name           string
	Description    string
	CreatedBy      string
	Status         ProjectStatus
	Priority       Priority
	StartDate      *time.Time
	EndDate        *time.Time
	DueDate        *time.Time
	Team           []TeamMember
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TeamMember pairs a user with a project-scoped role. A user appears at most
// once per project.
type TeamMember struct {
	UserID     string
	Role       string
	AssignedAt time.Time
}

func (p Project) HasMember(userID string) bool {
	return slices.ContainsFunc(p.Team, func(m TeamMember) bool { return m.UserID == userID })
}

// ProjectPatch lists the mutable project fields. Nil means unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *ProjectStatus
	Priority    *Priority
	StartDate   *time.Time
	EndDate     *time.Time
	DueDate     *time.Time
}

// Apply copies the set fields onto p.
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.Priority != nil {
		p.Priority = *pp.Priority
	}
	if pp.StartDate != nil {
		p.StartDate = pp.StartDate
	}
	if pp.EndDate != nil {
		p.EndDate = pp.EndDate
	}
	if pp.DueDate != nil {
		p.DueDate = pp.DueDate
	}
}
