package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

const userColumns = `id, username, email, name, password_hash, organization_id, role, status, created_at, updated_at`

type usersRepo struct {
	q *queries
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	return r.q.insert(ctx, `
		INSERT INTO users (id, username, email, name, password_hash, organization_id, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.Name, u.PasswordHash, mapStringNull(u.OrganizationID),
		string(u.Role), string(u.Status), u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) ListUsersByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	rows, err := r.q.query(ctx,
		`SELECT `+userColumns+` FROM users WHERE organization_id = ? ORDER BY username`, orgID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func (r *usersRepo) SetMembership(ctx context.Context, u domain.User, fromOrgID string) error {
	const set = `UPDATE users SET organization_id = ?, role = ?, status = ?, updated_at = ? WHERE id = ? AND `

	args := []any{mapStringNull(u.OrganizationID), string(u.Role), string(u.Status), u.UpdatedAt.UTC(), u.ID}
	if fromOrgID == "" {
		return r.q.execOne(ctx, store.ErrConflict, set+`organization_id IS NULL`, args...)
	}
	return r.q.execOne(ctx, store.ErrConflict, set+`organization_id = ?`, append(args, fromOrgID)...)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	return r.q.execOne(ctx, store.ErrNotFound,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`, u.Name, u.UpdatedAt.UTC(), u.ID)
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u     domain.User
		orgID sql.NullString
		role  string
		state string
	)
	if err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash, &orgID, &role, &state,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.OrganizationID = mapNullString(orgID)
	u.Role = domain.Role(role)
	u.Status = domain.UserStatus(state)
	u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
	return u, nil
}
