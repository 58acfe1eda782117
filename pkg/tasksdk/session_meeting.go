package tasksdk

import (
	"context"
	"net/http"
)

func (s *Session) CreateMeeting(ctx context.Context, req CreateMeetingRequest) (*Meeting, error) {
	var m Meeting
	if err := s.call(ctx, http.MethodPost, "/v1/meetings", req, &m, http.StatusCreated); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Session) Meeting(ctx context.Context, meetingID string) (*Meeting, error) {
	var m Meeting
	if err := s.call(ctx, http.MethodGet, "/v1/meetings/"+meetingID, nil, &m, http.StatusOK); err != nil {
		return nil, err
	}
	return &m, nil
}

// MyMeetings lists meetings the caller organizes or attends.
func (s *Session) MyMeetings(ctx context.Context) ([]Meeting, error) {
	return s.meetings(ctx, "/v1/meetings")
}

func (s *Session) UpcomingMeetings(ctx context.Context) ([]Meeting, error) {
	return s.meetings(ctx, "/v1/meetings/upcoming")
}

func (s *Session) TodaysMeetings(ctx context.Context) ([]Meeting, error) {
	return s.meetings(ctx, "/v1/meetings/today")
}

func (s *Session) meetings(ctx context.Context, path string) ([]Meeting, error) {
	var resp MeetingsResponse
	if err := s.call(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Meetings, nil
}

func (s *Session) UpdateMeeting(ctx context.Context, meetingID string, req UpdateMeetingRequest) (*Meeting, error) {
	var m Meeting
	if err := s.call(ctx, http.MethodPatch, "/v1/meetings/"+meetingID, req, &m, http.StatusOK); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Session) CancelMeeting(ctx context.Context, meetingID string) (*Meeting, error) {
	var m Meeting
	if err := s.call(ctx, http.MethodPost, "/v1/meetings/"+meetingID+"/cancel", nil, &m, http.StatusOK); err != nil {
		return nil, err
	}
	return &m, nil
}

// RespondToMeeting answers an invitation with accepted, declined or maybe.
func (s *Session) RespondToMeeting(ctx context.Context, meetingID, status string) (*Meeting, error) {
	var m Meeting
	req := RespondRequest{Status: status}
	if err := s.call(ctx, http.MethodPost, "/v1/meetings/"+meetingID+"/respond", req, &m, http.StatusOK); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Session) DeleteMeeting(ctx context.Context, meetingID string) error {
	return s.callNoContent(ctx, http.MethodDelete, "/v1/meetings/"+meetingID)
}
