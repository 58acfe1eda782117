package access

import "github.com/aussiebroadwan/taskboard/internal/taskboard/domain"

// TaskScope is the filter for "list my organization's tasks".
type TaskScope struct {
	OrganizationID string
	// UserID, when set, limits the listing to tasks created by or assigned
	// to that user.
	UserID string
}

// TasksVisibleTo returns the listing scope for id (rule 6). Employees see
// every task in the organization while admins and managers see only their
// own. This is inverted from the usual least-privilege shape and is kept
// deliberately; see DESIGN.md.
func TasksVisibleTo(id domain.Identity) TaskScope {
	s := TaskScope{OrganizationID: id.OrganizationID}
	if id.Role.Elevated() {
		s.UserID = id.UserID
	}
	return s
}

// Includes reports whether t falls inside the scope.
func (s TaskScope) Includes(t domain.Task) bool {
	if t.OrganizationID != s.OrganizationID {
		return false
	}
	if s.UserID == "" {
		return true
	}
	return t.CreatedBy == s.UserID || t.AssignedTo == s.UserID
}
