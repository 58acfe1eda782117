package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

const projectColumns = `id, organization_id, name, description, created_by, status, priority, start_date, end_date, due_date, created_at, updated_at`

type projectsRepo struct {
	q *queries
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	if err := r.q.insert(ctx, `
		INSERT INTO projects (id, organization_id, name, description, created_by, status, priority, start_date, end_date, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrganizationID, p.Name, p.Description, p.CreatedBy, string(p.Status), string(p.Priority),
		mapOptionalTime(p.StartDate), mapOptionalTime(p.EndDate), mapOptionalTime(p.DueDate),
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	); err != nil {
		return err
	}

	for _, m := range p.Team {
		if err := r.AddTeamMember(ctx, p.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	p, err := scanProject(r.q.queryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return domain.Project{}, err
	}

	rows, err := r.q.query(ctx, `
		SELECT project_id, user_id, role, assigned_at FROM project_members
		WHERE project_id = ? ORDER BY assigned_at, user_id`, id)
	if err != nil {
		return domain.Project{}, err
	}
	team, err := collect(rows, scanTeamRow)
	if err != nil {
		return domain.Project{}, err
	}

	for _, t := range team {
		p.Team = append(p.Team, t.member)
	}
	return p, nil
}

func (r *projectsRepo) ListProjectsByOrganization(ctx context.Context, orgID string) ([]domain.Project, error) {
	rows, err := r.q.query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE organization_id = ? ORDER BY created_at DESC, id DESC`, orgID)
	if err != nil {
		return nil, err
	}
	projects, err := collect(rows, scanProject)
	if err != nil {
		return nil, err
	}

	rows, err = r.q.query(ctx, `
		SELECT pm.project_id, pm.user_id, pm.role, pm.assigned_at
		FROM project_members pm JOIN projects p ON p.id = pm.project_id
		WHERE p.organization_id = ? ORDER BY pm.assigned_at, pm.user_id`, orgID)
	if err != nil {
		return nil, err
	}
	team, err := collect(rows, scanTeamRow)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string][]domain.TeamMember, len(projects))
	for _, t := range team {
		byProject[t.projectID] = append(byProject[t.projectID], t.member)
	}
	for i := range projects {
		projects[i].Team = byProject[projects[i].ID]
	}
	return projects, nil
}

func (r *projectsRepo) UpdateProject(ctx context.Context, p domain.Project) error {
	return r.q.execOne(ctx, store.ErrNotFound, `
		UPDATE projects SET name = ?, description = ?, status = ?, priority = ?,
			start_date = ?, end_date = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, string(p.Status), string(p.Priority),
		mapOptionalTime(p.StartDate), mapOptionalTime(p.EndDate), mapOptionalTime(p.DueDate),
		p.UpdatedAt.UTC(), p.ID,
	)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	return r.q.execOne(ctx, store.ErrNotFound, `DELETE FROM projects WHERE id = ?`, id)
}

func (r *projectsRepo) AddTeamMember(ctx context.Context, projectID string, m domain.TeamMember) error {
	return r.q.insert(ctx, `
		INSERT INTO project_members (project_id, user_id, role, assigned_at) VALUES (?, ?, ?, ?)`,
		projectID, m.UserID, m.Role, m.AssignedAt.UTC(),
	)
}

func (r *projectsRepo) RemoveTeamMember(ctx context.Context, projectID, userID string) error {
	return r.q.execOne(ctx, store.ErrNotFound,
		`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID)
}

func (r *projectsRepo) CountTeamMembers(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.q.queryRow(ctx, `
		SELECT COUNT(DISTINCT pm.user_id)
		FROM project_members pm JOIN projects p ON p.id = pm.project_id
		WHERE p.organization_id = ?`, orgID).Scan(&n)
	return n, err
}

func scanProject(s scanner) (domain.Project, error) {
	var (
		p                   domain.Project
		status, priority    string
		start, end, dueDate sql.NullTime
	)
	if err := s.Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.Description, &p.CreatedBy, &status, &priority,
		&start, &end, &dueDate, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return domain.Project{}, mapNotFound(err)
	}

	p.Status = domain.ProjectStatus(status)
	p.Priority = domain.Priority(priority)
	p.StartDate = mapNullTimePtr(start)
	p.EndDate = mapNullTimePtr(end)
	p.DueDate = mapNullTimePtr(dueDate)
	p.CreatedAt, p.UpdatedAt = p.CreatedAt.UTC(), p.UpdatedAt.UTC()
	return p, nil
}

type teamRow struct {
	projectID string
	member    domain.TeamMember
}

func scanTeamRow(s scanner) (teamRow, error) {
	var t teamRow
	if err := s.Scan(&t.projectID, &t.member.UserID, &t.member.Role, &t.member.AssignedAt); err != nil {
		return teamRow{}, err
	}
	t.member.AssignedAt = t.member.AssignedAt.UTC()
	return t, nil
}
