package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// Seeder replays a Fixture against a running taskboard through the public
// API, so everything it creates passes the same validation as user input.
type Seeder struct {
	Client *tasksdk.SDKClient
	Logger *slog.Logger
	Now    func() time.Time
}

type Result struct {
	OrganizationID string
	InviteCode     string
	Users          int
	Projects       int
	Tasks          int
	Meetings       int
	TrackedMinutes int
}

type seedRun struct {
	*Seeder
	fx       Fixture
	sessions map[string]*tasksdk.Session
	projects map[string]string
	res      Result
}

func (s *Seeder) Run(ctx context.Context, fx Fixture) (Result, error) {
	if err := fx.Validate(); err != nil {
		return Result{}, err
	}

	run := &seedRun{
		Seeder:   s,
		fx:       fx,
		sessions: make(map[string]*tasksdk.Session),
		projects: make(map[string]string),
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"organization", run.organization},
		{"members", run.members},
		{"projects", run.seedProjects},
		{"meetings", run.meetings},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return run.res, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return run.res, nil
}

func (r *seedRun) admin() *tasksdk.Session {
	return r.sessions[r.fx.Admin.Username]
}

func (r *seedRun) session(username string) *tasksdk.Session {
	if username == "" {
		return r.admin()
	}
	return r.sessions[username]
}

func (r *seedRun) userID(username string) string {
	if username == "" {
		return ""
	}
	return r.sessions[username].User().ID
}

func (r *seedRun) organization(ctx context.Context) error {
	a := r.fx.Admin
	sess, err := r.Client.Register(ctx, tasksdk.RegisterRequest{
		Username:                a.Username,
		Email:                   a.Email,
		Password:                a.Password,
		Name:                    a.Name,
		OrganizationName:        r.fx.Organization.Name,
		OrganizationDescription: r.fx.Organization.Description,
	})
	if err != nil {
		return err
	}
	r.sessions[a.Username] = sess

	org, err := sess.Organization(ctx)
	if err != nil {
		return err
	}
	r.res.OrganizationID = org.ID
	r.res.InviteCode = org.InviteCode
	r.res.Users++

	r.Logger.Info("organization created", "organization_id", org.ID, "admin", a.Username)
	return nil
}

// members invites every non-employee first so the role is applied when
// they register with the organization's code.
func (r *seedRun) members(ctx context.Context) error {
	for _, m := range r.fx.Members {
		if m.Role == "manager" {
			if _, err := r.admin().Invite(ctx, m.Email, m.Role); err != nil {
				return fmt.Errorf("invite %s: %w", m.Username, err)
			}
		}

		sess, err := r.Client.Register(ctx, tasksdk.RegisterRequest{
			Username:   m.Username,
			Email:      m.Email,
			Password:   m.Password,
			Name:       m.Name,
			InviteCode: r.res.InviteCode,
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", m.Username, err)
		}
		r.sessions[m.Username] = sess
		r.res.Users++

		r.Logger.Debug("member joined", "username", m.Username, "role", sess.User().Role)
	}
	return nil
}

func (r *seedRun) seedProjects(ctx context.Context) error {
	for _, p := range r.fx.Projects {
		team := make([]tasksdk.AddTeamMemberRequest, 0, len(p.Team))
		for _, u := range p.Team {
			team = append(team, tasksdk.AddTeamMemberRequest{UserID: r.userID(u)})
		}

		owner := r.session(p.Owner)
		project, err := owner.CreateProject(ctx, tasksdk.CreateProjectRequest{
			Name:        p.Name,
			Description: p.Description,
			Status:      p.Status,
			Priority:    p.Priority,
			Team:        team,
		})
		if err != nil {
			return fmt.Errorf("project %q: %w", p.Name, err)
		}
		if p.Key != "" {
			r.projects[p.Key] = project.ID
		}
		r.res.Projects++

		for _, t := range p.Tasks {
			if err := r.task(ctx, owner, project.ID, t); err != nil {
				return fmt.Errorf("project %q task %q: %w", p.Name, t.Title, err)
			}
		}

		r.Logger.Info("project seeded", "project_id", project.ID, "tasks", len(p.Tasks))
	}
	return nil
}

func (r *seedRun) task(ctx context.Context, owner *tasksdk.Session, projectID string, t Task) error {
	task, err := owner.CreateTask(ctx, tasksdk.CreateTaskRequest{
		ProjectID:      projectID,
		Title:          t.Title,
		Description:    t.Description,
		AssignedTo:     r.userID(t.Assignee),
		Priority:       t.Priority,
		EstimatedHours: t.EstimatedHours,
		Tags:           t.Tags,
	})
	if err != nil {
		return err
	}
	r.res.Tasks++

	if t.Tracked > 0 {
		worker := r.sessions[t.Assignee]
		entry, err := worker.StartTracking(ctx, task.ID)
		if err != nil {
			return err
		}
		end := entry.StartTime.Add(t.Tracked)
		stopped, err := worker.StopTracking(ctx, task.ID, tasksdk.StopTrackingRequest{
			EndTime: &end,
			Note:    "seeded",
		})
		if err != nil {
			return err
		}
		r.res.TrackedMinutes += stopped.Entry.Duration
	}

	// Tracking may have moved the task on, so the fixture's status is
	// applied last.
	if t.Status != "" {
		if _, err := owner.SetTaskStatus(ctx, task.ID, t.Status); err != nil {
			return err
		}
	}
	return nil
}

func (r *seedRun) meetings(ctx context.Context) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	base := now().UTC().Truncate(time.Minute)

	for _, m := range r.fx.Meetings {
		attendees := make([]string, 0, len(m.Attendees))
		for _, u := range m.Attendees {
			attendees = append(attendees, r.userID(u))
		}

		start := base.Add(m.StartsIn)
		_, err := r.session(m.Organizer).CreateMeeting(ctx, tasksdk.CreateMeetingRequest{
			Title:       m.Title,
			Location:    m.Location,
			MeetingType: m.Type,
			MeetingURL:  m.URL,
			StartTime:   start,
			EndTime:     start.Add(m.Duration),
			ProjectID:   r.projects[m.Project],
			Attendees:   attendees,
		})
		if err != nil {
			return fmt.Errorf("meeting %q: %w", m.Title, err)
		}
		r.res.Meetings++
	}
	return nil
}
