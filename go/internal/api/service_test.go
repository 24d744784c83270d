package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/speaktime/go/internal/history"
	"github.com/mcdev12/speaktime/go/internal/meeting"
	"github.com/mcdev12/speaktime/go/internal/models"
)

type failingStore struct {
	*history.MemoryStore
	fail bool
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.fail && key == history.KeyPreviousMeeting {
		return assert.AnError
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func newTestClient(t *testing.T) (*MeetingServiceClient, *meeting.Manager, *failingStore) {
	t.Helper()
	store := &failingStore{MemoryStore: history.NewMemoryStore()}
	manager := meeting.NewManager(meeting.Deps{History: history.NewRepository(store)})

	mux := http.NewServeMux()
	path, handler := NewMeetingServiceHandler(NewService(manager))
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewMeetingServiceClient(srv.Client(), srv.URL), manager, store
}

const team = `[
	{"name": "Bob", "avatarUrl": "https://avatars.example/bob.png"},
	{"name": "Alice", "avatarUrl": "https://avatars.example/alice.png"}
]`

func TestMeetingServiceFlow(t *testing.T) {
	ctx := context.Background()
	client, _, _ := newTestClient(t)

	started, err := client.StartSession(ctx, &StartSessionRequest{Participants: json.RawMessage(team)})
	require.NoError(t, err)
	require.Len(t, started.View.Participants, 2)
	assert.Equal(t, models.SessionStateInSession, started.View.State)
	assert.Equal(t, "Alice", started.View.Participants[0].Name)

	bob := started.View.Participants[1].ID
	toggled, err := client.Toggle(ctx, &ToggleRequest{ID: bob.String()})
	require.NoError(t, err)
	assert.True(t, toggled.Toggled)
	assert.True(t, toggled.View.Participants[1].Running)

	missing, err := client.Toggle(ctx, &ToggleRequest{ID: uuid.NewString()})
	require.NoError(t, err)
	assert.False(t, missing.Toggled)

	ended, err := client.EndMeeting(ctx, &EndMeetingRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStateEnded, ended.View.State)
	assert.Empty(t, ended.History, "no ticks were delivered")

	view, err := client.GetView(ctx, &GetViewRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStateEnded, view.View.State)

	last, err := client.GetLastRoster(ctx, &GetLastRosterRequest{})
	require.NoError(t, err)
	require.Len(t, last.Participants, 2)
	assert.Equal(t, "Bob", last.Participants[0].Name)
	assert.Equal(t, "https://avatars.example/alice.png", last.Participants[1].AvatarURL)
}

func TestMeetingServiceErrorCodes(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed roster", func(t *testing.T) {
		client, _, _ := newTestClient(t)
		for _, raw := range []string{
			`{"name":"Alice"}`,
			`[]`,
			`[{"name":"Alice"}]`,
			`[{"name":null,"avatarUrl":"x"}]`,
			`[{"name":"A","avatarUrl":"x"},{"name":"A","avatarUrl":"y"}]`,
		} {
			_, err := client.StartSession(ctx, &StartSessionRequest{Participants: json.RawMessage(raw)})
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), raw)
		}
	})

	t.Run("wrong state", func(t *testing.T) {
		client, _, _ := newTestClient(t)
		_, err := client.EndMeeting(ctx, &EndMeetingRequest{})
		assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

		_, err = client.Toggle(ctx, &ToggleRequest{ID: uuid.NewString()})
		assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

		_, err = client.StartSession(ctx, &StartSessionRequest{Participants: json.RawMessage(team)})
		require.NoError(t, err)
		_, err = client.StartSession(ctx, &StartSessionRequest{Participants: json.RawMessage(team)})
		assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		client, _, _ := newTestClient(t)
		_, err := client.StartSession(ctx, &StartSessionRequest{Participants: json.RawMessage(team)})
		require.NoError(t, err)
		_, err = client.Toggle(ctx, &ToggleRequest{ID: "not-a-uuid"})
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("persistence failure", func(t *testing.T) {
		client, manager, store := newTestClient(t)
		started, err := client.StartSession(ctx, &StartSessionRequest{Participants: json.RawMessage(team)})
		require.NoError(t, err)
		_, err = client.Toggle(ctx, &ToggleRequest{ID: started.View.Participants[0].ID.String()})
		require.NoError(t, err)
		manager.Tick()

		store.fail = true
		_, err = client.EndMeeting(ctx, &EndMeetingRequest{})
		assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
		assert.Equal(t, models.SessionStateInSession, manager.State())
		assert.Equal(t, 1, manager.View().Participants[0].TotalSeconds)
	})

	t.Run("clear requires confirmation", func(t *testing.T) {
		client, _, _ := newTestClient(t)
		_, err := client.ClearHistory(ctx, &ClearHistoryRequest{})
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

		res, err := client.ClearHistory(ctx, &ClearHistoryRequest{Confirm: true})
		require.NoError(t, err)
		assert.Equal(t, models.SessionStateIdle, res.View.State)
	})
}

func TestGetLastRosterEmpty(t *testing.T) {
	client, _, _ := newTestClient(t)
	res, err := client.GetLastRoster(context.Background(), &GetLastRosterRequest{})
	require.NoError(t, err)
	assert.NotNil(t, res.Participants)
	assert.Empty(t, res.Participants)
}

func TestMeetingServiceAcceptsJSONContentTypes(t *testing.T) {
	store := history.NewMemoryStore()
	manager := meeting.NewManager(meeting.Deps{History: history.NewRepository(store)})
	mux := http.NewServeMux()
	path, handler := NewMeetingServiceHandler(NewService(manager))
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	for _, contentType := range []string{"application/json", "application/json; charset=utf-8"} {
		t.Run(contentType, func(t *testing.T) {
			res, err := srv.Client().Post(srv.URL+MeetingServiceGetViewProcedure, contentType, strings.NewReader(`{}`))
			require.NoError(t, err)
			defer res.Body.Close()
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			require.Equal(t, http.StatusOK, res.StatusCode, string(body))
			var out GetViewResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, models.SessionStateIdle, out.View.State)
		})
	}
}
