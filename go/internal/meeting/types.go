package meeting

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcdev12/speaktime/go/internal/events"
	"github.com/mcdev12/speaktime/go/internal/models"
	"github.com/mcdev12/speaktime/go/internal/timer"
)

// HistoryRepository defines what the manager needs from history persistence
type HistoryRepository interface {
	Load(ctx context.Context) (models.HistoryRecord, error)
	Save(ctx context.Context, record models.HistoryRecord) error
	Clear(ctx context.Context) error
	SaveRoster(ctx context.Context, entries []models.RosterEntry) error
	LoadRoster(ctx context.Context) ([]models.RosterEntry, error)
}

// Ranker orders the roster between meetings
type Ranker interface {
	Rank(participants []models.Participant, history models.HistoryRecord) []models.Participant
	Alphabetical(participants []models.Participant) []models.Participant
}

// EventPublisher emits meeting events to other systems
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// RenderSink receives full views after mutations and per-tick updates for the
// active participant. Implementations must not block.
type RenderSink interface {
	OnView(view View)
	OnTick(update timer.TickUpdate)
}

// ParticipantView is one row of the rendered roster
type ParticipantView struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	AvatarURL    string             `json:"avatar_url"`
	Status       models.TimerStatus `json:"status"`
	Running      bool               `json:"running"`
	TotalSeconds int                `json:"total_seconds"`
	Elapsed      string             `json:"elapsed"`
	HasPrevious  bool               `json:"has_previous"`
	Previous     string             `json:"previous,omitempty"`
}

// View is the render state of a meeting
type View struct {
	SessionID    uuid.UUID           `json:"session_id"`
	State        models.SessionState `json:"state"`
	Participants []ParticipantView   `json:"participants"`
}

// Result reports the outcome of a successful end-of-meeting reconciliation
type Result struct {
	History models.HistoryRecord `json:"history"`
	Order   []models.Participant `json:"order"`
}
