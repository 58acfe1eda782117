package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

const meetingColumns = `m.id, m.organization_id, m.organizer_id, m.project_id, m.title, m.description, m.location,
	m.meeting_type, m.url, m.start_time, m.end_time, m.status, m.notes, m.created_at, m.updated_at`

type meetingsRepo struct {
	q *queries
}

func (r *meetingsRepo) CreateMeeting(ctx context.Context, m domain.Meeting) error {
	if err := r.q.insert(ctx, `
		INSERT INTO meetings (id, organization_id, organizer_id, project_id, title, description, location,
			meeting_type, url, start_time, end_time, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OrganizationID, m.OrganizerID, mapStringNull(m.ProjectID), m.Title, m.Description, m.Location,
		string(m.Type), m.URL, m.StartTime.UTC(), m.EndTime.UTC(), string(m.Status), m.Notes,
		m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	); err != nil {
		return err
	}
	return r.insertAttendees(ctx, m.ID, m.Attendees)
}

func (r *meetingsRepo) GetMeetingByID(ctx context.Context, id string) (domain.Meeting, error) {
	m, err := scanMeeting(r.q.queryRow(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.id = ?`, id))
	if err != nil {
		return domain.Meeting{}, err
	}

	attendees, err := r.attendees(ctx, `a.meeting_id = ?`, id)
	if err != nil {
		return domain.Meeting{}, err
	}
	m.Attendees = attendees[m.ID]
	return m, nil
}

func (r *meetingsRepo) ListMeetings(ctx context.Context, f store.MeetingFilter) ([]domain.Meeting, error) {
	var (
		where []string
		args  []any
	)
	if f.OrganizationID != "" {
		where = append(where, `m.organization_id = ?`)
		args = append(args, f.OrganizationID)
	}
	if f.ParticipantID != "" {
		where = append(where, `(m.organizer_id = ? OR EXISTS (
			SELECT 1 FROM meeting_attendees x WHERE x.meeting_id = m.id AND x.user_id = ?))`)
		args = append(args, f.ParticipantID, f.ParticipantID)
	}
	if f.Status != "" {
		where = append(where, `m.status = ?`)
		args = append(args, string(f.Status))
	}
	if !f.StartFrom.IsZero() {
		where = append(where, `m.start_time >= ?`)
		args = append(args, f.StartFrom.UTC())
	}
	if !f.StartBefore.IsZero() {
		where = append(where, `m.start_time < ?`)
		args = append(args, f.StartBefore.UTC())
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + meetingColumns + ` FROM meetings m`)
	if len(where) > 0 {
		b.WriteString(` WHERE ` + strings.Join(where, ` AND `))
	}
	b.WriteString(` ORDER BY m.start_time, m.id`)
	if f.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := r.q.query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	meetings, err := collect(rows, scanMeeting)
	if err != nil || len(meetings) == 0 {
		return meetings, err
	}

	marks := make([]string, len(meetings))
	idArgs := make([]any, len(meetings))
	for i, m := range meetings {
		marks[i] = "?"
		idArgs[i] = m.ID
	}

	attendees, err := r.attendees(ctx, `a.meeting_id IN (`+strings.Join(marks, ", ")+`)`, idArgs...)
	if err != nil {
		return nil, err
	}
	for i := range meetings {
		meetings[i].Attendees = attendees[meetings[i].ID]
	}
	return meetings, nil
}

func (r *meetingsRepo) UpdateMeeting(ctx context.Context, m domain.Meeting) error {
	if err := r.q.execOne(ctx, store.ErrNotFound, `
		UPDATE meetings SET project_id = ?, title = ?, description = ?, location = ?, meeting_type = ?,
			url = ?, start_time = ?, end_time = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		mapStringNull(m.ProjectID), m.Title, m.Description, m.Location, string(m.Type),
		m.URL, m.StartTime.UTC(), m.EndTime.UTC(), string(m.Status), m.Notes, m.UpdatedAt.UTC(), m.ID,
	); err != nil {
		return err
	}

	if _, err := r.q.exec(ctx, `DELETE FROM meeting_attendees WHERE meeting_id = ?`, m.ID); err != nil {
		return err
	}
	return r.insertAttendees(ctx, m.ID, m.Attendees)
}

func (r *meetingsRepo) DeleteMeeting(ctx context.Context, id string) error {
	return r.q.execOne(ctx, store.ErrNotFound, `DELETE FROM meetings WHERE id = ?`, id)
}

func (r *meetingsRepo) SetAttendance(ctx context.Context, meetingID, userID string, a domain.Attendance) error {
	return r.q.execOne(ctx, store.ErrNotFound,
		`UPDATE meeting_attendees SET status = ? WHERE meeting_id = ? AND user_id = ?`,
		string(a), meetingID, userID)
}

func (r *meetingsRepo) insertAttendees(ctx context.Context, meetingID string, attendees []domain.Attendee) error {
	for i, a := range attendees {
		if err := r.q.insert(ctx, `
			INSERT INTO meeting_attendees (meeting_id, user_id, status, position) VALUES (?, ?, ?, ?)`,
			meetingID, a.UserID, string(a.Status), i,
		); err != nil {
			return err
		}
	}
	return nil
}

// attendees loads attendee lists keyed by meeting for the rows matching cond.
func (r *meetingsRepo) attendees(ctx context.Context, cond string, args ...any) (map[string][]domain.Attendee, error) {
	rows, err := r.q.query(ctx, `
		SELECT a.meeting_id, a.user_id, a.status FROM meeting_attendees a
		WHERE `+cond+` ORDER BY a.meeting_id, a.position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.Attendee)
	for rows.Next() {
		var meetingID, userID, status string
		if err := rows.Scan(&meetingID, &userID, &status); err != nil {
			return nil, err
		}
		out[meetingID] = append(out[meetingID], domain.Attendee{UserID: userID, Status: domain.Attendance(status)})
	}
	return out, rows.Err()
}

func scanMeeting(s scanner) (domain.Meeting, error) {
	var (
		m                   domain.Meeting
		projectID           sql.NullString
		meetingType, status string
	)
	if err := s.Scan(
		&m.ID, &m.OrganizationID, &m.OrganizerID, &projectID, &m.Title, &m.Description, &m.Location,
		&meetingType, &m.URL, &m.StartTime, &m.EndTime, &status, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return domain.Meeting{}, mapNotFound(err)
	}

	m.ProjectID = mapNullString(projectID)
	m.Type = domain.MeetingType(meetingType)
	m.Status = domain.MeetingStatus(status)
	m.StartTime, m.EndTime = m.StartTime.UTC(), m.EndTime.UTC()
	m.CreatedAt, m.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	return m, nil
}
