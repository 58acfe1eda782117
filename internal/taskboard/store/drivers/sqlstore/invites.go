package sqlstore

import (
	"context"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

const inviteColumns = `id, organization_id, email, role, invited_by, created_at`

type invitesRepo struct {
	q *queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	return r.q.insert(ctx, `
		INSERT INTO invites (id, organization_id, email, role, invited_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OrganizationID, inv.Email, string(inv.Role), inv.InvitedBy, inv.CreatedAt.UTC(),
	)
}

func (r *invitesRepo) ListInvites(ctx context.Context, orgID string) ([]domain.Invite, error) {
	rows, err := r.q.query(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE organization_id = ? ORDER BY created_at, id`, orgID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInvite)
}

func (r *invitesRepo) GetInviteByEmail(ctx context.Context, orgID, email string) (domain.Invite, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE organization_id = ? AND email = ?`, orgID, email)
	return scanInvite(row)
}

func (r *invitesRepo) DeleteInvite(ctx context.Context, orgID, id string) error {
	return r.q.execOne(ctx, store.ErrNotFound,
		`DELETE FROM invites WHERE organization_id = ? AND id = ?`, orgID, id)
}

func scanInvite(s scanner) (domain.Invite, error) {
	var (
		inv  domain.Invite
		role string
	)
	if err := s.Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &role, &inv.InvitedBy, &inv.CreatedAt); err != nil {
		return domain.Invite{}, mapNotFound(err)
	}

	inv.Role = domain.Role(role)
	inv.CreatedAt = inv.CreatedAt.UTC()
	return inv, nil
}
