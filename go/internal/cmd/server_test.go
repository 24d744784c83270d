package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/speaktime/go/internal/api"
	"github.com/mcdev12/speaktime/go/internal/config"
	"github.com/mcdev12/speaktime/go/internal/history"
	"github.com/mcdev12/speaktime/go/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.History.Backend = config.BackendMemory
	cfg.Server.RateLimitRPS = 0
	cfg.Roster = []models.RosterEntry{
		{Name: "Alice", AvatarURL: "https://avatars.example/alice.png"},
	}
	return cfg
}

func startServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store, closeStore, err := setupStore(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(closeStore)

	services, err := setupServices(ctx, cfg, store)
	require.NoError(t, err)
	t.Cleanup(services.Close)
	go services.Hub.Start(ctx)

	srv := httptest.NewServer(setupServer(cfg, services).Handler)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestServerRoutes(t *testing.T) {
	srv := startServer(t, testConfig(t))

	code, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)

	client := api.NewMeetingServiceClient(srv.Client(), srv.URL)
	roster, err := client.GetLastRoster(context.Background(), &api.GetLastRosterRequest{})
	require.NoError(t, err)
	require.Len(t, roster.Participants, 1)
	assert.Equal(t, "Alice", roster.Participants[0].Name)

	raw, err := json.Marshal(roster.Participants)
	require.NoError(t, err)
	_, err = client.StartSession(context.Background(), &api.StartSessionRequest{Participants: raw})
	require.NoError(t, err)

	code, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "speaktime_roster_size 1")

	code, body = get(t, srv.URL+"/ws/stats")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"total_connections":0}`, body)
}

func TestSeedRosterKeepsExisting(t *testing.T) {
	ctx := context.Background()
	repo := history.NewRepository(history.NewMemoryStore())
	existing := []models.RosterEntry{{Name: "Bob", AvatarURL: "b.png"}}
	require.NoError(t, repo.SaveRoster(ctx, existing))

	require.NoError(t, seedRoster(ctx, repo, []models.RosterEntry{{Name: "Alice", AvatarURL: "a.png"}}))

	got, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestSetupStoreRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.History.Backend = "redis"
	_, _, err := setupStore(context.Background(), cfg)
	assert.Error(t, err)
}
