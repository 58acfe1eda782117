package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/access"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type ProjectService struct {
	Deps
}

// NewProject is a project creation request. Empty status and priority take
// the defaults planning and medium.
type NewProject struct {
	Name        string
	Description string
	Status      domain.ProjectStatus
	Priority    domain.Priority
	StartDate   *time.Time
	EndDate     *time.Time
	DueDate     *time.Time
	Team        []domain.TeamMember
}

// Create stores a new project owned by the caller and bumps the
// organization's project counter.
func (s *ProjectService) Create(ctx context.Context, id domain.Identity, in NewProject) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	if err := authorizeOrganization(id, access.CreateProject); err != nil {
		return domain.Project{}, err
	}

	name, err := domain.RequireText("name", in.Name)
	if err != nil {
		return domain.Project{}, err
	}
	if in.Status == "" {
		in.Status = domain.ProjectPlanning
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}

	now := s.Now()
	p := domain.Project{
		ID:             idx.NewAt(now).String(),
		OrganizationID: id.OrganizationID,
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		CreatedBy:      id.UserID,
		Status:         in.Status,
		Priority:       in.Priority,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		DueDate:        in.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validateProject(p); err != nil {
		return domain.Project{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	for _, m := range in.Team {
		if slices.ContainsFunc(p.Team, func(x domain.TeamMember) bool { return x.UserID == m.UserID }) {
			return domain.Project{}, domain.Validation("user %s is listed twice", m.UserID)
		}
		if _, err := orgMember(ctx, s.Store, id.OrganizationID, m.UserID, "team member"); err != nil {
			return domain.Project{}, err
		}
		if m.Role == "" {
			m.Role = domain.DefaultProjectRole
		}
		m.AssignedAt = now
		p.Team = append(p.Team, m)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Projects().CreateProject(ctx, p); err != nil {
			return err
		}
		return tx.Organizations().AdjustProjectCount(ctx, p.OrganizationID, 1)
	})
	if err != nil {
		return domain.Project{}, fail(ctx, "project", err)
	}

	log.Info("project created", slog.String("project_id", p.ID), slog.String("organization_id", p.OrganizationID))
	return p, nil
}

// Get returns one project with its team.
func (s *ProjectService) Get(ctx context.Context, id domain.Identity, projectID string) (domain.Project, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	return loadProject(ctx, s.Store, id, projectID, access.Read)
}

// List returns the caller's organization's projects, newest first.
func (s *ProjectService) List(ctx context.Context, id domain.Identity) ([]domain.Project, error) {
	if err := authorizeOrganization(id, access.Read); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	projects, err := s.Store.Projects().ListProjectsByOrganization(ctx, id.OrganizationID)
	return projects, fail(ctx, "project", err)
}

// Update applies patch to a project.
func (s *ProjectService) Update(ctx context.Context, id domain.Identity, projectID string, patch domain.ProjectPatch) (domain.Project, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, projectID, access.UpdateProject)
	if err != nil {
		return domain.Project{}, err
	}

	if patch.Name != nil {
		name, err := domain.RequireText("name", *patch.Name)
		if err != nil {
			return domain.Project{}, err
		}
		patch.Name = &name
	}
	patch.Apply(&p)
	if err := validateProject(p); err != nil {
		return domain.Project{}, err
	}
	p.UpdatedAt = s.Now()

	if err := s.Store.Projects().UpdateProject(ctx, p); err != nil {
		return domain.Project{}, fail(ctx, "project", err)
	}
	return p, nil
}

// Delete removes a project with its tasks and time entries.
func (s *ProjectService) Delete(ctx context.Context, id domain.Identity, projectID string) error {
	log := slogx.FromContext(ctx)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, projectID, access.DeleteProject)
	if err != nil {
		log.Warn("project deletion rejected", slog.String("project_id", projectID), slog.Any("error", err))
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Projects().DeleteProject(ctx, p.ID); err != nil {
			return err
		}
		return tx.Organizations().AdjustProjectCount(ctx, p.OrganizationID, -1)
	})
	if err != nil {
		return fail(ctx, "project", err)
	}

	log.Info("project deleted", slog.String("project_id", p.ID))
	return nil
}

// Team returns the project's team.
func (s *ProjectService) Team(ctx context.Context, id domain.Identity, projectID string) ([]domain.TeamMember, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, projectID, access.Read)
	if err != nil {
		return nil, err
	}
	return p.Team, nil
}

// AddMember puts an organization member on the team. An empty role becomes
// the default project role.
func (s *ProjectService) AddMember(ctx context.Context, id domain.Identity, projectID, userID, role string) (domain.Project, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, projectID, access.ManageTeam)
	if err != nil {
		return domain.Project{}, err
	}
	if _, err := orgMember(ctx, s.Store, p.OrganizationID, userID, "user"); err != nil {
		return domain.Project{}, err
	}

	role = strings.TrimSpace(role)
	if role == "" {
		role = domain.DefaultProjectRole
	}
	m := domain.TeamMember{UserID: userID, Role: role, AssignedAt: s.Now()}

	if err := s.Store.Projects().AddTeamMember(ctx, p.ID, m); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Project{}, domain.Conflict("user is already on the team")
		}
		return domain.Project{}, fail(ctx, "team member", err)
	}

	p.Team = append(p.Team, m)
	return p, nil
}

// RemoveMember takes a user off the team.
func (s *ProjectService) RemoveMember(ctx context.Context, id domain.Identity, projectID, userID string) (domain.Project, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, projectID, access.ManageTeam)
	if err != nil {
		return domain.Project{}, err
	}

	if err := s.Store.Projects().RemoveTeamMember(ctx, p.ID, userID); err != nil {
		return domain.Project{}, fail(ctx, "team member", err)
	}

	p.Team = slices.DeleteFunc(p.Team, func(m domain.TeamMember) bool { return m.UserID == userID })
	return p, nil
}

// AvailableMembers lists active organization members not yet on the team.
func (s *ProjectService) AvailableMembers(ctx context.Context, id domain.Identity, projectID string) ([]domain.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := loadProject(ctx, s.Store, id, projectID, access.Read)
	if err != nil {
		return nil, err
	}

	users, err := s.Store.Users().ListUsersByOrganization(ctx, p.OrganizationID)
	if err != nil {
		return nil, fail(ctx, "user", err)
	}

	return slices.DeleteFunc(users, func(u domain.User) bool {
		return u.Status != domain.UserActive || p.HasMember(u.ID)
	}), nil
}

// loadProject fetches a project and checks the caller may perform a on it.
// Projects of other organizations are reported as not found.
func loadProject(ctx context.Context, s store.Store, id domain.Identity, projectID string, a access.Action) (domain.Project, error) {
	if err := requireOrganization(id); err != nil {
		return domain.Project{}, err
	}

	p, err := s.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		return domain.Project{}, fail(ctx, "project", err)
	}
	if err := access.Authorize(id, access.Project(p), a); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func validateProject(p domain.Project) error {
	if !p.Status.Valid() {
		return domain.Validation("invalid project status %q", p.Status)
	}
	if !p.Priority.Valid() {
		return domain.Validation("invalid priority %q", p.Priority)
	}
	if err := optionalText("description", p.Description); err != nil {
		return err
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return domain.Validation("end date must not be before start date")
	}
	return nil
}
