// Package clock delivers the one-second tick that drives meeting timers.
package clock

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Interval is the tick period. Timers count whole ticks, not wall time.
const Interval = time.Second

// Tickable receives ticks.
type Tickable interface {
	Tick()
}

// Ticker forwards clock ticks to a target until its context is cancelled.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Ticker struct {
	clock  clockwork.Clock
	target Tickable
}

// NewTicker creates a ticker for target on the given clock.
func NewTicker(clock clockwork.Clock, target Tickable) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ticker{clock: clock, target: target}
}

// Run blocks, calling target.Tick once per Interval, until ctx is done.
func (t *Ticker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", Interval).Msg("meeting clock started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("meeting clock stopped")
			return
		case <-ticker.Chan():
			t.target.Tick()
		}
	}
}
