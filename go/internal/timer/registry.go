package timer

import (
	"github.com/google/uuid"

	"github.com/mcdev12/speaktime/go/internal/models"
)

// Registry holds the ordered roster and one timer per participant.
type Registry struct {
	order  []models.Participant
	timers map[uuid.UUID]*models.TimerState
}

// NewRegistry creates a registry with a zeroed timer for every participant.
func NewRegistry(participants []models.Participant) *Registry {
	r := &Registry{
		order:  make([]models.Participant, len(participants)),
		timers: make(map[uuid.UUID]*models.TimerState, len(participants)),
	}
	copy(r.order, participants)
	for _, p := range participants {
		r.timers[p.ID] = &models.TimerState{}
	}
	return r
}

// Participants returns the roster in display order.
func (r *Registry) Participants() []models.Participant {
	out := make([]models.Participant, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the participant with the given ID.
func (r *Registry) Lookup(id uuid.UUID) (models.Participant, bool) {
	for _, p := range r.order {
		if p.ID == id {
			return p, true
		}
	}
	return models.Participant{}, false
}

// State returns a copy of the participant's timer.
func (r *Registry) State(id uuid.UUID) (models.TimerState, bool) {
	st, ok := r.timers[id]
	if !ok {
		return models.TimerState{}, false
	}
	return *st, true
}

// Reorder replaces the display order. Every participant must already be
// registered; timers are not touched.
func (r *Registry) Reorder(participants []models.Participant) bool {
	if len(participants) != len(r.order) {
		return false
	}
	for _, p := range participants {
		if _, ok := r.timers[p.ID]; !ok {
			return false
		}
	}
	copy(r.order, participants)
	return true
}

// Totals returns accumulated seconds keyed by participant name.
func (r *Registry) Totals() map[string]int {
	out := make(map[string]int, len(r.order))
	for _, p := range r.order {
		out[p.Name] = r.timers[p.ID].TotalSeconds
	}
	return out
}

func (r *Registry) timer(id uuid.UUID) *models.TimerState {
	return r.timers[id]
}

func (r *Registry) reset() {
	for _, st := range r.timers {
		*st = models.TimerState{}
	}
}
