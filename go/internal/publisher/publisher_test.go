package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/speaktime/go/internal/events"
)

func TestSubjectAndStreamConfig(t *testing.T) {
	cfg := DefaultJetStreamConfig()

	assert.Equal(t, "meeting.events.MeetingEnded", Subject(cfg.SubjectPrefix, events.EventTypeMeetingEnded))

	sc := StreamConfig(cfg)
	assert.Equal(t, "MEETING_EVENTS", sc.Name)
	assert.Equal(t, []string{"meeting.events.>"}, sc.Subjects)
	assert.True(t, isStreamConfigEqual(sc, StreamConfig(cfg)))

	cfg.MaxAge = time.Hour
	assert.False(t, isStreamConfigEqual(sc, StreamConfig(cfg)))
}

func TestEnvelope(t *testing.T) {
	evt, err := events.New(events.EventTypeHistoryCleared, uuid.New(), time.Now(), events.HistoryClearedPayload{})
	require.NoError(t, err)

	msg, err := Envelope("meeting.events.HistoryCleared", evt)
	require.NoError(t, err)

	assert.Equal(t, "meeting.events.HistoryCleared", msg.Subject)
	assert.Equal(t, evt.ID.String(), msg.Header.Get("Event-ID"))
	assert.Equal(t, "HistoryCleared", msg.Header.Get("Event-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.JSONEq(t, `"`+evt.SessionID.String()+`"`, string(body["sessionId"]))
	assert.Contains(t, body, "payload")
}
