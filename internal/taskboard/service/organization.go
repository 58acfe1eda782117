package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/access"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// InviteCodeLength is the length of generated organization invite codes.
const InviteCodeLength = 8

type OrganizationService struct {
	Deps
}

// Create makes the caller the admin of a new organization.
func (s *OrganizationService) Create(ctx context.Context, id domain.Identity, name, description string) (domain.Organization, error) {
	log := slogx.FromContext(ctx)

	if id.HasOrganization() {
		return domain.Organization{}, domain.Conflict("you already belong to an organization")
	}
	name, err := domain.RequireText("organization name", name)
	if err != nil {
		return domain.Organization{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	u, err := s.Store.Users().GetUserByID(ctx, id.UserID)
	if err != nil {
		return domain.Organization{}, fail(ctx, "user", err)
	}

	var org domain.Organization
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		org, err = createOrganization(ctx, tx, &u, name, description, s.Now())
		return err
	})
	if err != nil {
		return domain.Organization{}, fail(ctx, "organization", err)
	}

	log.Info("organization created", slog.String("organization_id", org.ID), slog.String("user_id", u.ID))
	return org, nil
}

// Join adds the caller to the organization owning code. A pending invite
// for the caller's email decides the role; otherwise it is employee.
func (s *OrganizationService) Join(ctx context.Context, id domain.Identity, code string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if id.HasOrganization() {
		return domain.User{}, domain.Conflict("you already belong to an organization")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	org, err := s.Store.Organizations().GetOrganizationByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return domain.User{}, fail(ctx, "organization", err)
	}
	u, err := s.Store.Users().GetUserByID(ctx, id.UserID)
	if err != nil {
		return domain.User{}, fail(ctx, "user", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return joinOrganization(ctx, tx, &u, org, s.Now())
	})
	if err != nil {
		return domain.User{}, fail(ctx, "user", err)
	}

	log.Info("user joined organization",
		slog.String("organization_id", org.ID),
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)),
	)
	return u, nil
}

// Get returns the caller's organization.
func (s *OrganizationService) Get(ctx context.Context, id domain.Identity) (domain.Organization, error) {
	if err := requireOrganization(id); err != nil {
		return domain.Organization{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, id.OrganizationID)
	return org, fail(ctx, "organization", err)
}

// Members lists the caller's organization by username.
func (s *OrganizationService) Members(ctx context.Context, id domain.Identity) ([]domain.User, error) {
	if err := authorizeOrganization(id, access.Read); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	users, err := s.Store.Users().ListUsersByOrganization(ctx, id.OrganizationID)
	return users, fail(ctx, "user", err)
}

// ChangeRole sets a member's organization role.
func (s *OrganizationService) ChangeRole(ctx context.Context, id domain.Identity, userID string, role domain.Role) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if err := authorizeOrganization(id, access.ManageMembers); err != nil {
		log.Warn("role change rejected", slog.String("user_id", id.UserID), slog.Any("error", err))
		return domain.User{}, err
	}
	if !role.Valid() {
		return domain.User{}, domain.Validation("invalid role %q", role)
	}
	if userID == id.UserID {
		return domain.User{}, domain.Validation("you cannot change your own role")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	var u domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().LockMembership(ctx, id.OrganizationID); err != nil {
			return err
		}

		var err error
		if u, err = memberOf(ctx, tx, id.OrganizationID, userID); err != nil {
			return err
		}

		u.Role = role
		u.UpdatedAt = s.Now()
		return tx.Users().SetMembership(ctx, u, id.OrganizationID)
	})
	if err != nil {
		return domain.User{}, fail(ctx, "member", err)
	}

	log.Info("member role changed", slog.String("member_id", u.ID), slog.String("role", string(role)))
	return u, nil
}

// RemoveMember detaches a member from the caller's organization.
func (s *OrganizationService) RemoveMember(ctx context.Context, id domain.Identity, userID string) error {
	log := slogx.FromContext(ctx)

	if err := authorizeOrganization(id, access.ManageMembers); err != nil {
		log.Warn("member removal rejected", slog.String("user_id", id.UserID), slog.Any("error", err))
		return err
	}
	if userID == id.UserID {
		return domain.Validation("you cannot remove yourself from the organization")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().LockMembership(ctx, id.OrganizationID); err != nil {
			return err
		}

		u, err := memberOf(ctx, tx, id.OrganizationID, userID)
		if err != nil {
			return err
		}

		u.Detach()
		u.UpdatedAt = s.Now()
		return tx.Users().SetMembership(ctx, u, id.OrganizationID)
	})
	if err != nil {
		return fail(ctx, "member", err)
	}

	log.Info("member removed", slog.String("organization_id", id.OrganizationID), slog.String("member_id", userID))
	return nil
}

// Invite records a pending invitation for email. Delivery is out of scope;
// the invitee registers or joins with the organization's invite code.
func (s *OrganizationService) Invite(ctx context.Context, id domain.Identity, email string, role domain.Role) (domain.Invite, error) {
	if err := authorizeOrganization(id, access.ManageInvites); err != nil {
		return domain.Invite{}, err
	}

	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return domain.Invite{}, err
	}
	if role == "" {
		role = domain.RoleEmployee
	}
	if role != domain.RoleManager && role != domain.RoleEmployee {
		return domain.Invite{}, domain.Validation("invite role must be manager or employee")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	existing, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.OrganizationID == id.OrganizationID:
		return domain.Invite{}, domain.Conflict("%s is already a member", email)
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return domain.Invite{}, fail(ctx, "user", err)
	}

	now := s.Now()
	inv := domain.Invite{
		ID:             idx.NewAt(now).String(),
		OrganizationID: id.OrganizationID,
		Email:          email,
		Role:           role,
		InvitedBy:      id.UserID,
		CreatedAt:      now,
	}
	if err := s.Store.Invites().CreateInvite(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Invite{}, domain.Conflict("%s is already invited", email)
		}
		return domain.Invite{}, fail(ctx, "invite", err)
	}

	slogx.FromContext(ctx).Info("invite created", slog.String("organization_id", inv.OrganizationID), slog.String("invite_id", inv.ID))
	return inv, nil
}

// Invites lists pending invitations.
func (s *OrganizationService) Invites(ctx context.Context, id domain.Identity) ([]domain.Invite, error) {
	if err := authorizeOrganization(id, access.ManageInvites); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	invites, err := s.Store.Invites().ListInvites(ctx, id.OrganizationID)
	return invites, fail(ctx, "invite", err)
}

// CancelInvite drops a pending invitation.
func (s *OrganizationService) CancelInvite(ctx context.Context, id domain.Identity, inviteID string) error {
	if err := authorizeOrganization(id, access.ManageInvites); err != nil {
		return err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	return fail(ctx, "invite", s.Store.Invites().DeleteInvite(ctx, id.OrganizationID, inviteID))
}

// createOrganization inserts a new organization owned by u and makes u its
// active admin. It must run inside tx.
func createOrganization(ctx context.Context, tx store.Tx, u *domain.User, name, description string, now time.Time) (domain.Organization, error) {
	if err := optionalText("description", description); err != nil {
		return domain.Organization{}, err
	}

	code, err := cryptox.GenerateCode(InviteCodeLength)
	if err != nil {
		return domain.Organization{}, domain.Internal("generate invite code", err)
	}

	org := domain.Organization{
		ID:          idx.NewAt(now).String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   u.ID,
		InviteCode:  code,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Organization{}, domain.Conflict("organization name %q is taken", name)
		}
		return domain.Organization{}, err
	}

	u.OrganizationID = org.ID
	u.Role = domain.RoleAdmin
	u.Status = domain.UserActive
	u.UpdatedAt = now
	if err := tx.Users().SetMembership(ctx, *u, ""); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Organization{}, domain.Conflict("you already belong to an organization")
		}
		return domain.Organization{}, err
	}
	return org, nil
}

// joinOrganization makes u an active member of org, taking the role of a
// pending invite for u's email and consuming it. It must run inside tx.
func joinOrganization(ctx context.Context, tx store.Tx, u *domain.User, org domain.Organization, now time.Time) error {
	if err := tx.Organizations().LockMembership(ctx, org.ID); err != nil {
		return err
	}

	role := domain.RoleEmployee
	inv, err := tx.Invites().GetInviteByEmail(ctx, org.ID, u.Email)
	switch {
	case err == nil:
		role = inv.Role
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	u.OrganizationID = org.ID
	u.Role = role
	u.Status = domain.UserActive
	u.UpdatedAt = now
	if err := tx.Users().SetMembership(ctx, *u, ""); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Conflict("you already belong to an organization")
		}
		return err
	}

	if inv.ID != "" {
		return tx.Invites().DeleteInvite(ctx, org.ID, inv.ID)
	}
	return nil
}

// memberOf loads userID, reporting users outside orgID as not found.
func memberOf(ctx context.Context, s store.Store, orgID, userID string) (domain.User, error) {
	u, err := s.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if u.OrganizationID != orgID {
		return domain.User{}, domain.NotFound("member")
	}
	return u, nil
}
