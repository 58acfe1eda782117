package tasksdk

import (
	"context"
	"net/http"
)

func (s *Session) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var p Project
	if err := s.call(ctx, http.MethodPost, "/v1/projects", req, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) Project(ctx context.Context, projectID string) (*Project, error) {
	var p Project
	if err := s.call(ctx, http.MethodGet, "/v1/projects/"+projectID, nil, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

// Projects lists the organization's projects, newest first.
func (s *Session) Projects(ctx context.Context) ([]Project, error) {
	var resp ProjectsResponse
	if err := s.call(ctx, http.MethodGet, "/v1/projects", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (s *Session) UpdateProject(ctx context.Context, projectID string, req UpdateProjectRequest) (*Project, error) {
	var p Project
	if err := s.call(ctx, http.MethodPatch, "/v1/projects/"+projectID, req, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes the project with its tasks and time entries.
func (s *Session) DeleteProject(ctx context.Context, projectID string) error {
	return s.callNoContent(ctx, http.MethodDelete, "/v1/projects/"+projectID)
}

func (s *Session) Team(ctx context.Context, projectID string) ([]TeamMember, error) {
	var resp TeamResponse
	if err := s.call(ctx, http.MethodGet, "/v1/projects/"+projectID+"/team", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Team, nil
}

// AddTeamMember puts userID on the team. An empty role means "member".
func (s *Session) AddTeamMember(ctx context.Context, projectID, userID, role string) (*Project, error) {
	var p Project
	req := AddTeamMemberRequest{UserID: userID, Role: role}
	if err := s.call(ctx, http.MethodPost, "/v1/projects/"+projectID+"/team", req, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) RemoveTeamMember(ctx context.Context, projectID, userID string) (*Project, error) {
	var p Project
	path := "/v1/projects/" + projectID + "/team/" + userID
	if err := s.call(ctx, http.MethodDelete, path, nil, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

// AvailableMembers lists active members not yet on the team.
func (s *Session) AvailableMembers(ctx context.Context, projectID string) ([]User, error) {
	var resp UsersResponse
	path := "/v1/projects/" + projectID + "/available-members"
	if err := s.call(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Users, nil
}
