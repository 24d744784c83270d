package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// MeetingServiceName is the fully-qualified name of the MeetingService.
	MeetingServiceName = "speaktime.v1.MeetingService"

	MeetingServiceStartSessionProcedure  = "/speaktime.v1.MeetingService/StartSession"
	MeetingServiceToggleProcedure        = "/speaktime.v1.MeetingService/Toggle"
	MeetingServiceEndMeetingProcedure    = "/speaktime.v1.MeetingService/EndMeeting"
	MeetingServiceClearHistoryProcedure  = "/speaktime.v1.MeetingService/ClearHistory"
	MeetingServiceGetViewProcedure       = "/speaktime.v1.MeetingService/GetView"
	MeetingServiceGetLastRosterProcedure = "/speaktime.v1.MeetingService/GetLastRoster"
)

// NewMeetingServiceHandler builds an HTTP handler for the service. It returns
// the path on which to mount it.
func NewMeetingServiceHandler(svc *Service, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connect.WithCodec(jsonCodec{name: codecNameJSON}),
		connect.WithCodec(jsonCodec{name: codecNameJSONCharset}),
	}, opts...)

	mux := http.NewServeMux()
	mux.Handle(MeetingServiceStartSessionProcedure, connect.NewUnaryHandler(MeetingServiceStartSessionProcedure, svc.StartSession, opts...))
	mux.Handle(MeetingServiceToggleProcedure, connect.NewUnaryHandler(MeetingServiceToggleProcedure, svc.Toggle, opts...))
	mux.Handle(MeetingServiceEndMeetingProcedure, connect.NewUnaryHandler(MeetingServiceEndMeetingProcedure, svc.EndMeeting, opts...))
	mux.Handle(MeetingServiceClearHistoryProcedure, connect.NewUnaryHandler(MeetingServiceClearHistoryProcedure, svc.ClearHistory, opts...))
	mux.Handle(MeetingServiceGetViewProcedure, connect.NewUnaryHandler(MeetingServiceGetViewProcedure, svc.GetView, opts...))
	mux.Handle(MeetingServiceGetLastRosterProcedure, connect.NewUnaryHandler(MeetingServiceGetLastRosterProcedure, svc.GetLastRoster, opts...))

	return "/" + MeetingServiceName + "/", mux
}

// MeetingServiceClient is a client for the MeetingService
type MeetingServiceClient struct {
	startSession  *connect.Client[StartSessionRequest, StartSessionResponse]
	toggle        *connect.Client[ToggleRequest, ToggleResponse]
	endMeeting    *connect.Client[EndMeetingRequest, EndMeetingResponse]
	clearHistory  *connect.Client[ClearHistoryRequest, ClearHistoryResponse]
	getView       *connect.Client[GetViewRequest, GetViewResponse]
	getLastRoster *connect.Client[GetLastRosterRequest, GetLastRosterResponse]
}

// NewMeetingServiceClient constructs a client for the service at baseURL
func NewMeetingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MeetingServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{name: codecNameJSON})}, opts...)
	return &MeetingServiceClient{
		startSession:  connect.NewClient[StartSessionRequest, StartSessionResponse](httpClient, baseURL+MeetingServiceStartSessionProcedure, opts...),
		toggle:        connect.NewClient[ToggleRequest, ToggleResponse](httpClient, baseURL+MeetingServiceToggleProcedure, opts...),
		endMeeting:    connect.NewClient[EndMeetingRequest, EndMeetingResponse](httpClient, baseURL+MeetingServiceEndMeetingProcedure, opts...),
		clearHistory:  connect.NewClient[ClearHistoryRequest, ClearHistoryResponse](httpClient, baseURL+MeetingServiceClearHistoryProcedure, opts...),
		getView:       connect.NewClient[GetViewRequest, GetViewResponse](httpClient, baseURL+MeetingServiceGetViewProcedure, opts...),
		getLastRoster: connect.NewClient[GetLastRosterRequest, GetLastRosterResponse](httpClient, baseURL+MeetingServiceGetLastRosterProcedure, opts...),
	}
}

func (c *MeetingServiceClient) StartSession(ctx context.Context, req *StartSessionRequest) (*StartSessionResponse, error) {
	res, err := c.startSession.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *MeetingServiceClient) Toggle(ctx context.Context, req *ToggleRequest) (*ToggleResponse, error) {
	res, err := c.toggle.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *MeetingServiceClient) EndMeeting(ctx context.Context, req *EndMeetingRequest) (*EndMeetingResponse, error) {
	res, err := c.endMeeting.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *MeetingServiceClient) ClearHistory(ctx context.Context, req *ClearHistoryRequest) (*ClearHistoryResponse, error) {
	res, err := c.clearHistory.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *MeetingServiceClient) GetView(ctx context.Context, req *GetViewRequest) (*GetViewResponse, error) {
	res, err := c.getView.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *MeetingServiceClient) GetLastRoster(ctx context.Context, req *GetLastRosterRequest) (*GetLastRosterResponse, error) {
	res, err := c.getLastRoster.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}
