package service

import (
	"context"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/access"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

type DashboardService struct {
	Deps
}

// Summary is the caller's dashboard. Task figures cover the tasks the
// caller's listing scope shows.
type Summary struct {
	Projects         int
	Tasks            int
	TasksByStatus    map[domain.TaskStatus]int
	TeamMembers      int
	TotalTimeSpent   int // minutes
	UpcomingMeetings int
}

func (s *DashboardService) Summary(ctx context.Context, id domain.Identity) (Summary, error) {
	if err := authorizeOrganization(id, access.Read); err != nil {
		return Summary{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, id.OrganizationID)
	if err != nil {
		return Summary{}, fail(ctx, "organization", err)
	}

	scope := access.TasksVisibleTo(id)
	tasks, err := s.Store.Tasks().ListTasks(ctx, store.TaskFilter{
		OrganizationID: scope.OrganizationID,
		InvolvedUserID: scope.UserID,
	})
	if err != nil {
		return Summary{}, fail(ctx, "task", err)
	}

	members, err := s.Store.Projects().CountTeamMembers(ctx, id.OrganizationID)
	if err != nil {
		return Summary{}, fail(ctx, "team member", err)
	}

	upcoming, err := s.Store.Meetings().ListMeetings(ctx, store.MeetingFilter{
		OrganizationID: id.OrganizationID,
		ParticipantID:  id.UserID,
		Status:         domain.MeetingScheduled,
		StartFrom:      s.Now(),
	})
	if err != nil {
		return Summary{}, fail(ctx, "meeting", err)
	}

	sum := Summary{
		Projects: org.ProjectCount,
		Tasks:    len(tasks),
		TasksByStatus: map[domain.TaskStatus]int{
			domain.TaskPending:    0,
			domain.TaskInProgress: 0,
			domain.TaskCompleted:  0,
		},
		TeamMembers:      members,
		UpcomingMeetings: len(upcoming),
	}
	for _, t := range tasks {
		sum.TasksByStatus[t.Status]++
		sum.TotalTimeSpent += t.TotalTimeSpent
	}
	return sum, nil
}
