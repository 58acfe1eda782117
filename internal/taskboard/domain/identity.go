package domain

// Role is a user's organization-wide role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Elevated reports whether r is admin or manager.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// Identity is the caller as resolved from the store on every request.
// OrganizationID is empty until the user creates or joins an organization.
type Identity struct {
	UserID         string
	OrganizationID string
	Role           Role
}

func (i Identity) HasOrganization() bool { return i.OrganizationID != "" }
