// Package api exposes the meeting lifecycle as a connect RPC service.
package api

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/speaktime/go/internal/meeting"
	"github.com/mcdev12/speaktime/go/internal/models"
)

// ErrConfirmationRequired is returned by ClearHistory without confirm set.
var ErrConfirmationRequired = errors.New("clearing history requires confirmation")

// MeetingApp defines what the service layer needs from the meeting manager
type MeetingApp interface {
	StartSession(ctx context.Context, entries []models.RosterEntry) (meeting.View, error)
	Toggle(id uuid.UUID) (bool, error)
	EndMeeting(ctx context.Context) (meeting.Result, error)
	ClearHistory(ctx context.Context) error
	LastRoster(ctx context.Context) ([]models.RosterEntry, error)
	View() meeting.View
}

// Service implements the MeetingService RPC interface
type Service struct {
	app MeetingApp
}

// NewService creates a new meeting service
func NewService(app MeetingApp) *Service {
	return &Service{app: app}
}

// StartSession validates the submitted roster and starts a session
func (s *Service) StartSession(ctx context.Context, req *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error) {
	entries, err := models.ParseRoster(req.Msg.Participants)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	view, err := s.app.StartSession(ctx, entries)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&StartSessionResponse{View: view}), nil
}

// Toggle starts or pauses one participant's timer. An id that is well
// formed but not on the roster is not an error; Toggled reports false.
func (s *Service) Toggle(ctx context.Context, req *connect.Request[ToggleRequest]) (*connect.Response[ToggleResponse], error) {
	id, err := uuid.Parse(req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	toggled, err := s.app.Toggle(id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ToggleResponse{Toggled: toggled, View: s.app.View()}), nil
}

// EndMeeting persists this session's speaking time
func (s *Service) EndMeeting(ctx context.Context, req *connect.Request[EndMeetingRequest]) (*connect.Response[EndMeetingResponse], error) {
	res, err := s.app.EndMeeting(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&EndMeetingResponse{History: res.History, View: s.app.View()}), nil
}

// ClearHistory erases stored history once the caller confirms
func (s *Service) ClearHistory(ctx context.Context, req *connect.Request[ClearHistoryRequest]) (*connect.Response[ClearHistoryResponse], error) {
	if !req.Msg.Confirm {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrConfirmationRequired)
	}

	if err := s.app.ClearHistory(ctx); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ClearHistoryResponse{View: s.app.View()}), nil
}

// GetView returns the current render view
func (s *Service) GetView(ctx context.Context, req *connect.Request[GetViewRequest]) (*connect.Response[GetViewResponse], error) {
	return connect.NewResponse(&GetViewResponse{View: s.app.View()}), nil
}

// GetLastRoster returns the last submitted roster so a form can be prefilled
func (s *Service) GetLastRoster(ctx context.Context, req *connect.Request[GetLastRosterRequest]) (*connect.Response[GetLastRosterResponse], error) {
	entries, err := s.app.LastRoster(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load last roster")
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	if entries == nil {
		entries = []models.RosterEntry{}
	}
	return connect.NewResponse(&GetLastRosterResponse{Participants: entries}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidRoster):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, meeting.ErrNotInSession), errors.Is(err, meeting.ErrSessionInProgress):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, meeting.ErrPersistFailed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
