package domain

import "time"

type Organization struct {
	ID           string
	Name         string
	Description  string
	CreatedBy    string
	InviteCode   string // generated at creation, never changes
	ProjectCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Invite is a pending invitation of an email address into an organization.
// Joining with the invite code consumes a matching invite and applies its
// role.
type Invite struct {
	ID             string
	OrganizationID string
	Email          string
	Role           Role
	InvitedBy      string
	CreatedAt      time.Time
}
