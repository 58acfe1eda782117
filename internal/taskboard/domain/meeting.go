package domain

import (
	"slices"
	"time"
)

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingOngoing   MeetingStatus = "ongoing"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

type MeetingType string

const (
	MeetingOnline   MeetingType = "online"
	MeetingPhysical MeetingType = "physical"
	MeetingHybrid   MeetingType = "hybrid"
)

func (t MeetingType) Valid() bool {
	switch t {
	case MeetingOnline, MeetingPhysical, MeetingHybrid:
		return true
	}
	return false
}

// NeedsURL reports whether the meeting type requires a meeting link.
func (t MeetingType) NeedsURL() bool {
	return t == MeetingOnline || t == MeetingHybrid
}

type Attendance string

const (
	AttendanceInvited  Attendance = "invited"
	AttendanceAccepted Attendance = "accepted"
	AttendanceDeclined Attendance = "declined"
	AttendanceMaybe    Attendance = "maybe"
)

// Valid reports whether an attendee may answer with a.
func (a Attendance) Valid() bool {
	switch a {
	case AttendanceAccepted, AttendanceDeclined, AttendanceMaybe:
		return true
	}
	return false
}

type Attendee struct {
	UserID string
	Status Attendance
}

type Meeting struct {
	ID             string
	OrganizationID string
	OrganizerID    string
	ProjectID      string // optional
	Title          string
	Description    string
	Location       string
	Type           MeetingType
	URL            string
	StartTime      time.Time
	EndTime        time.Time
	Status         MeetingStatus
	Attendees      []Attendee
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m Meeting) IsAttendee(userID string) bool {
	return slices.ContainsFunc(m.Attendees, func(a Attendee) bool { return a.UserID == userID })
}

// MeetingPatch lists the mutable meeting fields. Attendees replaces the
// whole list; existing answers are kept for users that remain.
type MeetingPatch struct {
	Title       *string
	Description *string
	Location    *string
	Type        *MeetingType
	URL         *string
	StartTime   *time.Time
	EndTime     *time.Time
	ProjectID   *string
	Attendees   *[]string
	Notes       *string
}

// Apply copies the set fields onto m.
func (mp MeetingPatch) Apply(m *Meeting) {
	if mp.Title != nil {
		m.Title = *mp.Title
	}
	if mp.Description != nil {
		m.Description = *mp.Description
	}
	if mp.Location != nil {
		m.Location = *mp.Location
	}
	if mp.Type != nil {
		m.Type = *mp.Type
	}
	if mp.URL != nil {
		m.URL = *mp.URL
	}
	if mp.StartTime != nil {
		m.StartTime = *mp.StartTime
	}
	if mp.EndTime != nil {
		m.EndTime = *mp.EndTime
	}
	if mp.ProjectID != nil {
		m.ProjectID = *mp.ProjectID
	}
	if mp.Notes != nil {
		m.Notes = *mp.Notes
	}
	if mp.Attendees != nil {
		prev := make(map[string]Attendance, len(m.Attendees))
		for _, a := range m.Attendees {
			prev[a.UserID] = a.Status
		}

		next := make([]Attendee, 0, len(*mp.Attendees))
		for _, id := range *mp.Attendees {
			status, ok := prev[id]
			if !ok {
				status = AttendanceInvited
			}
			next = append(next, Attendee{UserID: id, Status: status})
		}
		m.Attendees = next
	}
}
