package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event payload types shared between the meeting manager, the publisher and the gateway

// EventType represents the type of meeting event
type EventType string

const (
	EventTypeSessionStarted EventType = "SessionStarted"
	EventTypeTimerToggled   EventType = "TimerToggled"
	EventTypeMeetingEnded   EventType = "MeetingEnded"
	EventTypeHistoryCleared EventType = "HistoryCleared"
)

// Event is the envelope for all meeting events
type Event struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New builds an event with a fresh ID, marshalling payload into Data.
func New(eventType EventType, sessionID uuid.UUID, at time.Time, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		SessionID: sessionID,
		Type:      eventType,
		Timestamp: at.UTC(),
		Data:      data,
	}, nil
}

// ParticipantRef identifies a participant inside payloads
type ParticipantRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionStartedPayload is the payload for a SessionStarted event
type SessionStartedPayload struct {
	Participants []ParticipantRef `json:"participants"`
	HistoryUsed  bool             `json:"history_used"`
	StartedAt    time.Time        `json:"started_at"`
}

// TimerToggledPayload is the payload for a TimerToggled event
type TimerToggledPayload struct {
	Participant  ParticipantRef `json:"participant"`
	Running      bool           `json:"running"`
	TotalSeconds int            `json:"total_seconds"`
	ToggledAt    time.Time      `json:"toggled_at"`
}

// MeetingEndedPayload is the payload for a MeetingEnded event
type MeetingEndedPayload struct {
	History  map[string]int   `json:"history"`
	Order    []ParticipantRef `json:"order"`
	Speakers int              `json:"speakers"`
	EndedAt  time.Time        `json:"ended_at"`
}

// HistoryClearedPayload is the payload for a HistoryCleared event
type HistoryClearedPayload struct {
	ClearedAt time.Time `json:"cleared_at"`
}

// ParsePayload decodes event data into the payload struct for its type.
func ParsePayload(event Event) (any, error) {
	switch event.Type {
	case EventTypeSessionStarted:
		var p SessionStartedPayload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EventTypeTimerToggled:
		var p TimerToggledPayload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EventTypeMeetingEnded:
		var p MeetingEndedPayload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EventTypeHistoryCleared:
		var p HistoryClearedPayload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
