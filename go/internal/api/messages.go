package api

import (
	"encoding/json"

	"github.com/mcdev12/speaktime/go/internal/meeting"
	"github.com/mcdev12/speaktime/go/internal/models"
)

// StartSessionRequest carries the raw roster so that shape errors are
// reported the same way as a loaded roster file.
type StartSessionRequest struct {
	Participants json.RawMessage `json:"participants"`
}

type StartSessionResponse struct {
	View meeting.View `json:"view"`
}

type ToggleRequest struct {
	ID string `json:"id"`
}

type ToggleResponse struct {
	Toggled bool         `json:"toggled"`
	View    meeting.View `json:"view"`
}

type EndMeetingRequest struct{}

type EndMeetingResponse struct {
	History map[string]int `json:"history"`
	View    meeting.View   `json:"view"`
}

type ClearHistoryRequest struct {
	Confirm bool `json:"confirm"`
}

type ClearHistoryResponse struct {
	View meeting.View `json:"view"`
}

type GetViewRequest struct{}

type GetViewResponse struct {
	View meeting.View `json:"view"`
}

type GetLastRosterRequest struct{}

type GetLastRosterResponse struct {
	Participants []models.RosterEntry `json:"participants"`
}
