package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordSessionStarted(4)
	c.RecordTimerTransition(true)
	c.RecordSpeakingSecond()
	c.RecordSpeakingSecond()
	c.RecordTimerTransition(false)
	c.RecordMeetingEnded(false)
	c.RecordMeetingEnded(true)
	c.RecordHistoryCleared(true)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.rosterSize))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.speaking))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.activeTimers))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.meetingsEnded.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.meetingsEnded.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.clears.WithLabelValues("success")))
}
