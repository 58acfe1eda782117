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

// UpcomingMeetingLimit caps MeetingService.Upcoming.
const UpcomingMeetingLimit = 10

type MeetingService struct {
	Deps
}

// NewMeeting is a meeting creation request. An empty type means physical.
type NewMeeting struct {
	Title       string
	Description string
	Location    string
	Type        domain.MeetingType
	URL         string
	StartTime   time.Time
	EndTime     time.Time
	ProjectID   string
	Attendees   []string
	Notes       string
}

// Create schedules a meeting organized by the caller.
func (s *MeetingService) Create(ctx context.Context, id domain.Identity, in NewMeeting) (domain.Meeting, error) {
	log := slogx.FromContext(ctx)

	if err := authorizeOrganization(id, access.CreateMeeting); err != nil {
		return domain.Meeting{}, err
	}

	title, err := domain.RequireText("title", in.Title)
	if err != nil {
		return domain.Meeting{}, err
	}
	if in.Type == "" {
		in.Type = domain.MeetingPhysical
	}

	now := s.Now()
	m := domain.Meeting{
		ID:             idx.NewAt(now).String(),
		OrganizationID: id.OrganizationID,
		OrganizerID:    id.UserID,
		ProjectID:      in.ProjectID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Location:       strings.TrimSpace(in.Location),
		Type:           in.Type,
		URL:            strings.TrimSpace(in.URL),
		StartTime:      in.StartTime.UTC().Truncate(time.Millisecond),
		EndTime:        in.EndTime.UTC().Truncate(time.Millisecond),
		Status:         domain.MeetingScheduled,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validateMeeting(m); err != nil {
		return domain.Meeting{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.checkReferences(ctx, id.OrganizationID, m.ProjectID, in.Attendees); err != nil {
		return domain.Meeting{}, err
	}
	for _, userID := range dedupe(in.Attendees) {
		m.Attendees = append(m.Attendees, domain.Attendee{UserID: userID, Status: domain.AttendanceInvited})
	}

	if err := s.Store.Meetings().CreateMeeting(ctx, m); err != nil {
		return domain.Meeting{}, fail(ctx, "meeting", err)
	}

	log.Info("meeting created", slog.String("meeting_id", m.ID), slog.Int("attendees", len(m.Attendees)))
	return m, nil
}

func (s *MeetingService) Get(ctx context.Context, id domain.Identity, meetingID string) (domain.Meeting, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	return loadMeeting(ctx, s.Store, id, meetingID, access.Read)
}

// ListMine returns meetings the caller organizes or attends, by start time.
func (s *MeetingService) ListMine(ctx context.Context, id domain.Identity) ([]domain.Meeting, error) {
	return s.list(ctx, id, store.MeetingFilter{})
}

// Upcoming returns the caller's next scheduled meetings.
func (s *MeetingService) Upcoming(ctx context.Context, id domain.Identity) ([]domain.Meeting, error) {
	return s.list(ctx, id, store.MeetingFilter{
		Status:    domain.MeetingScheduled,
		StartFrom: s.Now(),
		Limit:     UpcomingMeetingLimit,
	})
}

// Today returns the caller's meetings starting within the current UTC day.
func (s *MeetingService) Today(ctx context.Context, id domain.Identity) ([]domain.Meeting, error) {
	day := s.Now().Truncate(24 * time.Hour)
	return s.list(ctx, id, store.MeetingFilter{
		StartFrom:   day,
		StartBefore: day.Add(24 * time.Hour),
	})
}

// Update applies patch. Cancelled meetings are frozen.
func (s *MeetingService) Update(ctx context.Context, id domain.Identity, meetingID string, patch domain.MeetingPatch) (domain.Meeting, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	m, err := loadMeeting(ctx, s.Store, id, meetingID, access.UpdateMeeting)
	if err != nil {
		return domain.Meeting{}, err
	}
	if m.Status == domain.MeetingCancelled {
		return domain.Meeting{}, domain.StateError("cancelled meetings cannot be changed")
	}

	if patch.Title != nil {
		title, err := domain.RequireText("title", *patch.Title)
		if err != nil {
			return domain.Meeting{}, err
		}
		patch.Title = &title
	}
	var attendees []string
	if patch.Attendees != nil {
		attendees = dedupe(*patch.Attendees)
		patch.Attendees = &attendees
	}
	projectID := ""
	if patch.ProjectID != nil {
		projectID = *patch.ProjectID
	}
	if err := s.checkReferences(ctx, m.OrganizationID, projectID, attendees); err != nil {
		return domain.Meeting{}, err
	}

	patch.Apply(&m)
	m.StartTime = m.StartTime.UTC().Truncate(time.Millisecond)
	m.EndTime = m.EndTime.UTC().Truncate(time.Millisecond)
	if err := validateMeeting(m); err != nil {
		return domain.Meeting{}, err
	}
	m.UpdatedAt = s.Now()

	if err := s.Store.Meetings().UpdateMeeting(ctx, m); err != nil {
		return domain.Meeting{}, fail(ctx, "meeting", err)
	}
	return m, nil
}

// Cancel marks a meeting cancelled.
func (s *MeetingService) Cancel(ctx context.Context, id domain.Identity, meetingID string) (domain.Meeting, error) {
	log := slogx.FromContext(ctx)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	m, err := loadMeeting(ctx, s.Store, id, meetingID, access.CancelMeeting)
	if err != nil {
		return domain.Meeting{}, err
	}
	if m.Status == domain.MeetingCancelled {
		return domain.Meeting{}, domain.StateError("meeting is already cancelled")
	}

	m.Status = domain.MeetingCancelled
	m.UpdatedAt = s.Now()
	if err := s.Store.Meetings().UpdateMeeting(ctx, m); err != nil {
		return domain.Meeting{}, fail(ctx, "meeting", err)
	}

	log.Info("meeting cancelled", slog.String("meeting_id", m.ID))
	return m, nil
}

func (s *MeetingService) Delete(ctx context.Context, id domain.Identity, meetingID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	m, err := loadMeeting(ctx, s.Store, id, meetingID, access.DeleteMeeting)
	if err != nil {
		return err
	}
	return fail(ctx, "meeting", s.Store.Meetings().DeleteMeeting(ctx, m.ID))
}

// Respond records the caller's answer to a meeting invitation.
func (s *MeetingService) Respond(ctx context.Context, id domain.Identity, meetingID string, answer domain.Attendance) (domain.Meeting, error) {
	if !answer.Valid() {
		return domain.Meeting{}, domain.Validation("response must be accepted, declined or maybe")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	m, err := loadMeeting(ctx, s.Store, id, meetingID, access.Read)
	if err != nil {
		return domain.Meeting{}, err
	}
	if !m.IsAttendee(id.UserID) {
		return domain.Meeting{}, domain.Forbidden("you are not invited to this meeting")
	}
	if m.Status == domain.MeetingCancelled {
		return domain.Meeting{}, domain.StateError("meeting is cancelled")
	}

	if err := s.Store.Meetings().SetAttendance(ctx, m.ID, id.UserID, answer); err != nil {
		return domain.Meeting{}, fail(ctx, "attendee", err)
	}

	for i := range m.Attendees {
		if m.Attendees[i].UserID == id.UserID {
			m.Attendees[i].Status = answer
		}
	}
	return m, nil
}

func (s *MeetingService) list(ctx context.Context, id domain.Identity, f store.MeetingFilter) ([]domain.Meeting, error) {
	if err := authorizeOrganization(id, access.Read); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	f.OrganizationID = id.OrganizationID
	f.ParticipantID = id.UserID
	meetings, err := s.Store.Meetings().ListMeetings(ctx, f)
	return meetings, fail(ctx, "meeting", err)
}

// checkReferences requires the project and attendees, when given, to
// belong to orgID.
func (s *MeetingService) checkReferences(ctx context.Context, orgID, projectID string, attendees []string) error {
	if projectID != "" {
		p, err := s.Store.Projects().GetProjectByID(ctx, projectID)
		switch {
		case errors.Is(err, store.ErrNotFound), err == nil && p.OrganizationID != orgID:
			return domain.Validation("project is not part of this organization")
		case err != nil:
			return fail(ctx, "project", err)
		}
	}
	for _, userID := range attendees {
		if _, err := orgMember(ctx, s.Store, orgID, userID, "attendee"); err != nil {
			return err
		}
	}
	return nil
}

// loadMeeting fetches a meeting and checks the caller may perform a on it.
func loadMeeting(ctx context.Context, s store.Store, id domain.Identity, meetingID string, a access.Action) (domain.Meeting, error) {
	if err := requireOrganization(id); err != nil {
		return domain.Meeting{}, err
	}

	m, err := s.Meetings().GetMeetingByID(ctx, meetingID)
	if err != nil {
		return domain.Meeting{}, fail(ctx, "meeting", err)
	}
	if err := access.Authorize(id, access.Meeting(m), a); err != nil {
		return domain.Meeting{}, err
	}
	return m, nil
}

func validateMeeting(m domain.Meeting) error {
	if !m.Type.Valid() {
		return domain.Validation("invalid meeting type %q", m.Type)
	}
	if m.Type.NeedsURL() && m.URL == "" {
		return domain.Validation("%s meetings need a meeting url", m.Type)
	}
	if err := domain.ValidateMeetingWindow(m.StartTime, m.EndTime); err != nil {
		return err
	}
	if err := optionalText("description", m.Description); err != nil {
		return err
	}
	return optionalText("notes", m.Notes)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
