package sqlstore

import (
	"context"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

const organizationColumns = `id, name, description, created_by, invite_code, project_count, created_at, updated_at`

type organizationsRepo struct {
	q *queries
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	return r.q.insert(ctx, `
		INSERT INTO organizations (id, name, description, created_by, invite_code, project_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Description, o.CreatedBy, o.InviteCode, o.ProjectCount,
		o.CreatedAt.UTC(), o.UpdatedAt.UTC(),
	)
}

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	row := r.q.queryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id)
	return scanOrganization(row)
}

func (r *organizationsRepo) GetOrganizationByInviteCode(ctx context.Context, code string) (domain.Organization, error) {
	row := r.q.queryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE invite_code = ?`, code)
	return scanOrganization(row)
}

func (r *organizationsRepo) LockMembership(ctx context.Context, orgID string) error {
	return r.q.execOne(ctx, store.ErrNotFound,
		`UPDATE organizations SET member_version = member_version + 1 WHERE id = ?`, orgID)
}

func (r *organizationsRepo) AdjustProjectCount(ctx context.Context, orgID string, delta int) error {
	return r.q.execOne(ctx, store.ErrNotFound,
		`UPDATE organizations SET project_count = project_count + ? WHERE id = ?`, delta, orgID)
}

func scanOrganization(s scanner) (domain.Organization, error) {
	var o domain.Organization
	if err := s.Scan(
		&o.ID, &o.Name, &o.Description, &o.CreatedBy, &o.InviteCode, &o.ProjectCount,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return domain.Organization{}, mapNotFound(err)
	}

	o.CreatedAt, o.UpdatedAt = o.CreatedAt.UTC(), o.UpdatedAt.UTC()
	return o, nil
}
