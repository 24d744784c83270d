package models

import (
	"github.com/google/uuid"
)

// Participant represents a member of the meeting roster.
// Name is display-only; ID identifies the participant within a session.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
}

// NewParticipant creates a participant with a freshly generated ID.
func NewParticipant(name, avatarURL string) Participant {
	return Participant{
		ID:        uuid.New(),
		Name:      name,
		AvatarURL: avatarURL,
	}
}

// TimerState holds one participant's stopwatch for the current session.
// Started is set on the first start and cleared only by a reset, so a timer
// paused before its first tick still reads as paused.
type TimerState struct {
	TotalSeconds int  `json:"total_seconds"`
	Running      bool `json:"running"`
	Started      bool `json:"started"`
}

// HistoryRecord maps participant names to the seconds they spoke in the most
// recently ended meeting.
type HistoryRecord map[string]int

// Clone returns an independent copy of the record. A nil record clones to an empty one.
func (h HistoryRecord) Clone() HistoryRecord {
	out := make(HistoryRecord, len(h))
	for name, secs := range h {
		out[name] = secs
	}
	return out
}

// Seconds returns the stored value for name, or 0 when absent.
func (h HistoryRecord) Seconds(name string) int {
	return h[name]
}

// Has reports whether name has an entry.
func (h HistoryRecord) Has(name string) bool {
	_, ok := h[name]
	return ok
}
