package tasksdk

import (
	"context"
	"net/http"
)

// ============================================================================
// Profile
// ============================================================================

// Me returns the caller's account.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var u User
	if err := s.call(ctx, http.MethodGet, "/v1/me", nil, &u, http.StatusOK); err != nil {
		return nil, err
	}
	s.setUser(u)
	return &u, nil
}

// UpdateProfile changes the caller's display name.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var u User
	if err := s.call(ctx, http.MethodPatch, "/v1/me", req, &u, http.StatusOK); err != nil {
		return nil, err
	}
	s.setUser(u)
	return &u, nil
}

// ============================================================================
// Organization
// ============================================================================

// CreateOrganization founds an organization with the caller as admin.
func (s *Session) CreateOrganization(ctx context.Context, name, description string) (*Organization, error) {
	var o Organization
	req := CreateOrganizationRequest{Name: name, Description: description}
	if err := s.call(ctx, http.MethodPost, "/v1/organizations", req, &o, http.StatusCreated); err != nil {
		return nil, err
	}
	return &o, nil
}

// JoinOrganization joins the organization owning inviteCode.
func (s *Session) JoinOrganization(ctx context.Context, inviteCode string) (*User, error) {
	var u User
	req := JoinOrganizationRequest{InviteCode: inviteCode}
	if err := s.call(ctx, http.MethodPost, "/v1/organizations/join", req, &u, http.StatusOK); err != nil {
		return nil, err
	}
	s.setUser(u)
	return &u, nil
}

func (s *Session) Organization(ctx context.Context) (*Organization, error) {
	var o Organization
	if err := s.call(ctx, http.MethodGet, "/v1/organization", nil, &o, http.StatusOK); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Session) Members(ctx context.Context) ([]User, error) {
	var resp UsersResponse
	if err := s.call(ctx, http.MethodGet, "/v1/organization/members", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// ChangeRole sets a member's role. Admin only.
func (s *Session) ChangeRole(ctx context.Context, userID, role string) (*User, error) {
	var u User
	path := "/v1/organization/members/" + userID + "/role"
	if err := s.call(ctx, http.MethodPut, path, ChangeRoleRequest{Role: role}, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// RemoveMember detaches a user from the organization. Admin only.
func (s *Session) RemoveMember(ctx context.Context, userID string) error {
	return s.callNoContent(ctx, http.MethodDelete, "/v1/organization/members/"+userID)
}

// Invite records a pending invitation for email. Admin only.
func (s *Session) Invite(ctx context.Context, email, role string) (*Invite, error) {
	var inv Invite
	req := CreateInviteRequest{Email: email, Role: role}
	if err := s.call(ctx, http.MethodPost, "/v1/organization/invites", req, &inv, http.StatusCreated); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Session) Invites(ctx context.Context) ([]Invite, error) {
	var resp InvitesResponse
	if err := s.call(ctx, http.MethodGet, "/v1/organization/invites", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Invites, nil
}

func (s *Session) CancelInvite(ctx context.Context, inviteID string) error {
	return s.callNoContent(ctx, http.MethodDelete, "/v1/organization/invites/"+inviteID)
}
