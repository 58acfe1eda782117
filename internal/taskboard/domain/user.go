package domain

import "time"

type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

type User struct {
	ID             string
	Username       string
	Email          string
	Name           string
	PasswordHash   string // argon2 encoded
	OrganizationID string // empty when not in an organization
	Role           Role
	Status         UserStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, OrganizationID: u.OrganizationID, Role: u.Role}
}

// Detach clears the organization and resets role and status to their
// defaults, which is what removal from an organization means.
func (u *User) Detach() {
	u.OrganizationID = ""
	u.Role = RoleEmployee
	u.Status = UserPending
}

// ProfilePatch lists the fields a user may change about themselves.
type ProfilePatch struct {
	Name *string
}
