// Package meeting runs the lifecycle of a meeting: loading the roster and
// history, driving the timers, and reconciling speaking time into history.
package meeting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/speaktime/go/internal/events"
	"github.com/mcdev12/speaktime/go/internal/metrics"
	"github.com/mcdev12/speaktime/go/internal/models"
	"github.com/mcdev12/speaktime/go/internal/ranking"
	"github.com/mcdev12/speaktime/go/internal/timer"
)

const publishTimeout = 5 * time.Second

// Deps are the collaborators of a Manager. History is required; the rest
// default to no-op or real-clock implementations.
type Deps struct {
	History   HistoryRepository
	Ranker    Ranker
	Publisher EventPublisher
	Sink      RenderSink
	Metrics   metrics.Collector
	Clock     clockwork.Clock
}

// Manager hosts one meeting at a time. All operations, including clock
// ticks, are serialised by mu.
type Manager struct {
	mu sync.Mutex

	history   HistoryRepository
	ranker    Ranker
	publisher EventPublisher
	sink      RenderSink
	metrics   metrics.Collector
	clock     clockwork.Clock

	state     models.SessionState
	sessionID uuid.UUID
	engine    *timer.Engine
	record    models.HistoryRecord
}

// NewManager creates an idle manager.
func NewManager(d Deps) *Manager {
	m := &Manager{
		history:   d.History,
		ranker:    d.Ranker,
		publisher: d.Publisher,
		sink:      d.Sink,
		metrics:   d.Metrics,
		clock:     d.Clock,
		state:     models.SessionStateIdle,
		record:    models.HistoryRecord{},
	}
	if m.ranker == nil {
		m.ranker = ranking.DefaultPolicy()
	}
	if m.metrics == nil {
		m.metrics = metrics.NoOpCollector{}
	}
	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}
	return m
}

// StartSession validates the roster, loads history, ranks the roster and
// creates zeroed timers. A history read failure is treated as no history.
func (m *Manager) StartSession(ctx context.Context, entries []models.RosterEntry) (View, error) {
	if err := models.ValidateRoster(entries); err != nil {
		return View{}, err
	}

	m.mu.Lock()
	if m.state == models.SessionStateInSession {
		m.mu.Unlock()
		return View{}, ErrSessionInProgress
	}

	record, err := m.history.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable, starting without it")
		record = models.HistoryRecord{}
	}

	if err := m.history.SaveRoster(ctx, entries); err != nil {
		log.Warn().Err(err).Msg("failed to remember roster")
	}

	participants := m.ranker.Rank(models.NewParticipants(entries), record)
	m.sessionID = uuid.New()
	m.record = record
	m.engine = timer.NewEngine(participants, timer.TickNotifierFunc(m.onTick))
	m.engine.OnTransition(func(tr timer.Transition) { m.metrics.RecordTimerTransition(tr.Running) })
	m.state = models.SessionStateInSession
	m.metrics.RecordSessionStarted(len(participants))

	view := m.viewLocked()
	sessionID := m.sessionID
	startedAt := m.clock.Now()
	m.mu.Unlock()

	log.Info().
		Str("session_id", sessionID.String()).
		Int("participants", len(participants)).
		Int("history_entries", len(record)).
		Msg("meeting session started")

	m.notify(view)
	m.publish(events.EventTypeSessionStarted, sessionID, startedAt, events.SessionStartedPayload{
		Participants: refs(participants),
		HistoryUsed:  len(record) > 0,
		StartedAt:    startedAt.UTC(),
	})
	return view, nil
}

// Toggle starts or pauses a participant's timer. It returns false for a
// participant that is not on the roster, which leaves every timer untouched.
func (m *Manager) Toggle(id uuid.UUID) (bool, error) {
	m.mu.Lock()
	if m.state != models.SessionStateInSession {
		m.mu.Unlock()
		return false, ErrNotInSession
	}

	if !m.engine.Toggle(id) {
		m.mu.Unlock()
		return false, nil
	}

	p, _ := m.engine.Registry().Lookup(id)
	st, _ := m.engine.Registry().State(id)
	view := m.viewLocked()
	sessionID := m.sessionID
	at := m.clock.Now()
	m.mu.Unlock()

	m.notify(view)
	m.publish(events.EventTypeTimerToggled, sessionID, at, events.TimerToggledPayload{
		Participant:  events.ParticipantRef{ID: p.ID.String(), Name: p.Name},
		Running:      st.Running,
		TotalSeconds: st.TotalSeconds,
		ToggledAt:    at.UTC(),
	})
	return true, nil
}

// Tick delivers one clock tick. Outside a session it is ignored.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != models.SessionStateInSession {
		return
	}
	m.engine.Tick()
}

// onTick runs under mu, from inside Engine.Tick.
func (m *Manager) onTick(update timer.TickUpdate) {
	m.metrics.RecordSpeakingSecond()
	if m.sink != nil {
		m.sink.OnTick(update)
	}
}

// EndMeeting stops the active timer, merges this session's non-zero totals
// over the previous record and persists it. Only after the write is
// confirmed does in-memory history change, the roster get re-ranked and the
// timers reset. On a failed write the counters are kept so a retry is possible.
func (m *Manager) EndMeeting(ctx context.Context) (Result, error) {
	m.mu.Lock()
	if m.state != models.SessionStateInSession {
		m.mu.Unlock()
		return Result{}, ErrNotInSession
	}

	m.engine.StopActive()

	updated := Reconcile(m.record, m.engine.Registry().Totals())

	if err := m.history.Save(ctx, updated); err != nil {
		m.metrics.RecordMeetingEnded(false)
		view := m.viewLocked()
		sessionID := m.sessionID
		m.mu.Unlock()

		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to persist meeting history")
		m.notify(view)
		return Result{}, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	m.record = updated
	order := m.ranker.Rank(m.engine.Registry().Participants(), updated)
	m.engine.Registry().Reorder(order)
	speakers := countSpeakers(m.engine.Registry().Totals())
	m.engine.Reset()
	m.state = models.SessionStateEnded
	m.metrics.RecordMeetingEnded(true)

	view := m.viewLocked()
	sessionID := m.sessionID
	endedAt := m.clock.Now()
	m.mu.Unlock()

	log.Info().
		Str("session_id", sessionID.String()).
		Int("speakers", speakers).
		Int("history_entries", len(updated)).
		Msg("meeting ended and history saved")

	m.notify(view)
	m.publish(events.EventTypeMeetingEnded, sessionID, endedAt, events.MeetingEndedPayload{
		History:  updated.Clone(),
		Order:    refs(order),
		Speakers: speakers,
		EndedAt:  endedAt.UTC(),
	})
	return Result{History: updated.Clone(), Order: order}, nil
}

// Reconcile returns a copy of previous in which every participant with a
// positive total is overwritten. Zero totals keep their previous value or
// absence.
func Reconcile(previous models.HistoryRecord, totals map[string]int) models.HistoryRecord {
	updated := previous.Clone()
	for name, secs := range totals {
		if secs > 0 {
			updated[name] = secs
		}
	}
	return updated
}

// ClearHistory erases stored history, orders the roster alphabetically and
// resets live timers. Callers confirm with the user before calling.
func (m *Manager) ClearHistory(ctx context.Context) error {
	m.mu.Lock()
	if err := m.history.Clear(ctx); err != nil {
		m.metrics.RecordHistoryCleared(false)
		m.mu.Unlock()
		log.Error().Err(err).Msg("failed to clear meeting history")
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	m.record = models.HistoryRecord{}
	if m.engine != nil {
		m.engine.StopActive()
		m.engine.Registry().Reorder(m.ranker.Alphabetical(m.engine.Registry().Participants()))
		m.engine.Reset()
	}
	m.metrics.RecordHistoryCleared(true)

	view := m.viewLocked()
	sessionID := m.sessionID
	at := m.clock.Now()
	m.mu.Unlock()

	log.Info().Str("session_id", sessionID.String()).Msg("meeting history cleared")

	m.notify(view)
	m.publish(events.EventTypeHistoryCleared, sessionID, at, events.HistoryClearedPayload{ClearedAt: at.UTC()})
	return nil
}

// DiscardSession drops the current session without saving anything.
func (m *Manager) DiscardSession() {
	m.mu.Lock()
	if m.state == models.SessionStateIdle {
		m.mu.Unlock()
		return
	}
	sessionID := m.sessionID
	m.engine = nil
	m.sessionID = uuid.Nil
	m.state = models.SessionStateIdle
	view := m.viewLocked()
	m.mu.Unlock()

	log.Info().Str("session_id", sessionID.String()).Msg("meeting session discarded")
	m.notify(view)
}

// LastRoster returns the most recently submitted roster, if any.
func (m *Manager) LastRoster(ctx context.Context) ([]models.RosterEntry, error) {
	return m.history.LoadRoster(ctx)
}

// State returns the lifecycle state.
func (m *Manager) State() models.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// History returns a copy of the in-memory history record.
func (m *Manager) History() models.HistoryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.Clone()
}

// View returns the current render view.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Manager) viewLocked() View {
	v := View{
		SessionID:    m.sessionID,
		State:        m.state,
		Participants: []ParticipantView{},
	}
	if m.engine == nil {
		return v
	}
	reg := m.engine.Registry()
	for _, p := range reg.Participants() {
		st, _ := reg.State(p.ID)
		v.Participants = append(v.Participants, participantView(p, st, m.record))
	}
	return v
}

func (m *Manager) notify(view View) {
	if m.sink != nil {
		m.sink.OnView(view)
	}
}

func (m *Manager) publish(eventType events.EventType, sessionID uuid.UUID, at time.Time, payload any) {
	if m.publisher == nil {
		return
	}
	evt, err := events.New(eventType, sessionID, at, payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := m.publisher.Publish(ctx, evt); err != nil {
		log.Error().
			Err(err).
			Str("event_type", string(eventType)).
			Str("session_id", sessionID.String()).
			Msg("failed to publish meeting event")
	}
}

func refs(ps []models.Participant) []events.ParticipantRef {
	out := make([]events.ParticipantRef, 0, len(ps))
	for _, p := range ps {
		out = append(out, events.ParticipantRef{ID: p.ID.String(), Name: p.Name})
	}
	return out
}

func countSpeakers(totals map[string]int) int {
	n := 0
	for _, secs := range totals {
		if secs > 0 {
			n++
		}
	}
	return n
}
