package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector defines the measurements the meeting manager records
type Collector interface {
	RecordTimerTransition(running bool)
	RecordSpeakingSecond()
	RecordMeetingEnded(success bool)
	RecordHistoryCleared(success bool)
	RecordSessionStarted(participants int)
}

// NoOpCollector is a no-op implementation for when metrics aren't needed
type NoOpCollector struct{}

func (NoOpCollector) RecordTimerTransition(running bool)    {}
func (NoOpCollector) RecordSpeakingSecond()                 {}
func (NoOpCollector) RecordMeetingEnded(success bool)       {}
func (NoOpCollector) RecordHistoryCleared(success bool)     {}
func (NoOpCollector) RecordSessionStarted(participants int) {}

// PrometheusCollector implements Collector with Prometheus metrics
type PrometheusCollector struct {
	transitions   *prometheus.CounterVec
	speaking      prometheus.Counter
	activeTimers  prometheus.Gauge
	meetingsEnded *prometheus.CounterVec
	clears        *prometheus.CounterVec
	rosterSize    prometheus.Gauge
}

// NewPrometheusCollector creates the collectors and registers them on reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speaktime",
			Name:      "timer_transitions_total",
			Help:      "Timer starts and pauses.",
		}, []string{"state"}),
		speaking: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "speaktime",
			Name:      "speaking_seconds_total",
			Help:      "Seconds credited to active speakers.",
		}),
		activeTimers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speaktime",
			Name:      "active_timers",
			Help:      "Timers currently running (0 or 1).",
		}),
		meetingsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speaktime",
			Name:      "meetings_ended_total",
			Help:      "End-of-meeting reconciliations by outcome.",
		}, []string{"status"}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speaktime",
			Name:      "history_clears_total",
			Help:      "History clear requests by outcome.",
		}, []string{"status"}),
		rosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speaktime",
			Name:      "roster_size",
			Help:      "Participants in the current session.",
		}),
	}
	reg.MustRegister(c.transitions, c.speaking, c.activeTimers, c.meetingsEnded, c.clears, c.rosterSize)
	return c
}

func (c *PrometheusCollector) RecordTimerTransition(running bool) {
	if running {
		c.transitions.WithLabelValues("started").Inc()
		c.activeTimers.Set(1)
		return
	}
	c.transitions.WithLabelValues("paused").Inc()
	c.activeTimers.Set(0)
}

func (c *PrometheusCollector) RecordSpeakingSecond() {
	c.speaking.Inc()
}

func (c *PrometheusCollector) RecordMeetingEnded(success bool) {
	c.meetingsEnded.WithLabelValues(status(success)).Inc()
}

func (c *PrometheusCollector) RecordHistoryCleared(success bool) {
	c.clears.WithLabelValues(status(success)).Inc()
}

func (c *PrometheusCollector) RecordSessionStarted(participants int) {
	c.rosterSize.Set(float64(participants))
	c.activeTimers.Set(0)
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
