// Package timer implements the per-participant stopwatches of a meeting and
// the rule that only one of them runs at a time.
package timer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/speaktime/go/internal/models"
)

// TickUpdate is emitted for the active participant on every tick.
type TickUpdate struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Name          string    `json:"name"`
	TotalSeconds  int       `json:"total_seconds"`
	Elapsed       string    `json:"elapsed"`
}

// TickNotifier receives per-tick updates for the running participant.
type TickNotifier interface {
	OnTick(update TickUpdate)
}

// TickNotifierFunc adapts a function to TickNotifier.
type TickNotifierFunc func(TickUpdate)

func (f TickNotifierFunc) OnTick(u TickUpdate) { f(u) }

// Transition describes a timer starting or pausing.
type Transition struct {
	ParticipantID uuid.UUID
	Running       bool
	TotalSeconds  int
}

// Engine owns the timers of one session. It is not safe for concurrent use;
// the host serialises calls.
type Engine struct {
	registry *Registry
	active   uuid.UUID
	running  bool
	notifier TickNotifier
	onChange func(Transition)
}

// NewEngine creates an engine over a fresh registry. notifier may be nil.
func NewEngine(participants []models.Participant, notifier TickNotifier) *Engine {
	return &Engine{
		registry: NewRegistry(participants),
		notifier: notifier,
	}
}

// OnTransition registers a hook called after every start and pause.
func (e *Engine) OnTransition(fn func(Transition)) {
	e.onChange = fn
}

// Registry exposes the roster and timer states for reading and reordering.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Active returns the running participant, if any.
func (e *Engine) Active() (uuid.UUID, bool) {
	return e.active, e.running
}

// Toggle pauses id if it runs; otherwise it pauses whoever runs and starts id.
// It returns false when id is not on the roster.
func (e *Engine) Toggle(id uuid.UUID) bool {
	st := e.registry.timer(id)
	if st == nil {
		log.Warn().Str("participant_id", id.String()).Msg("toggle for unknown participant ignored")
		return false
	}

	if st.Running {
		e.pause(id)
		return true
	}

	if e.running && e.active != id {
		e.pause(e.active)
	}
	e.start(id)
	return true
}

// StopActive pauses the running participant, if any.
func (e *Engine) StopActive() {
	if e.running {
		e.pause(e.active)
	}
}

// Tick advances the running participant by one second.
func (e *Engine) Tick() {
	if !e.running {
		return
	}
	st := e.registry.timer(e.active)
	st.TotalSeconds++

	if e.notifier == nil {
		return
	}
	p, _ := e.registry.Lookup(e.active)
	e.notifier.OnTick(TickUpdate{
		ParticipantID: p.ID,
		Name:          p.Name,
		TotalSeconds:  st.TotalSeconds,
		Elapsed:       FormatElapsed(st.TotalSeconds),
	})
}

// Reset zeroes every timer and clears the active participant.
func (e *Engine) Reset() {
	e.registry.reset()
	e.active = uuid.Nil
	e.running = false
	log.Debug().Msg("timers reset")
}

// RunningCount reports how many timers are marked running.
func (e *Engine) RunningCount() int {
	n := 0
	for _, p := range e.registry.order {
		if e.registry.timers[p.ID].Running {
			n++
		}
	}
	return n
}

func (e *Engine) start(id uuid.UUID) {
	st := e.registry.timer(id)
	st.Running = true
	st.Started = true
	e.active = id
	e.running = true
	log.Debug().Str("participant_id", id.String()).Int("total_seconds", st.TotalSeconds).Msg("timer started")
	e.emit(id, st)
}

func (e *Engine) pause(id uuid.UUID) {
	st := e.registry.timer(id)
	if st == nil || !st.Running {
		return
	}
	st.Running = false
	if e.active == id {
		e.active = uuid.Nil
		e.running = false
	}
	log.Debug().Str("participant_id", id.String()).Int("total_seconds", st.TotalSeconds).Msg("timer paused")
	e.emit(id, st)
}

func (e *Engine) emit(id uuid.UUID, st *models.TimerState) {
	if e.onChange != nil {
		e.onChange(Transition{ParticipantID: id, Running: st.Running, TotalSeconds: st.TotalSeconds})
	}
}

// FormatElapsed renders seconds as zero-padded MM:SS. Minutes grow past two
// digits rather than wrapping.
func FormatElapsed(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
