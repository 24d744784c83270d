package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/mcdev12/speaktime/go/internal/api"
	"github.com/mcdev12/speaktime/go/internal/clock"
	"github.com/mcdev12/speaktime/go/internal/config"
	"github.com/mcdev12/speaktime/go/internal/gateway"
	"github.com/mcdev12/speaktime/go/internal/history"
	"github.com/mcdev12/speaktime/go/internal/meeting"
	"github.com/mcdev12/speaktime/go/internal/metrics"
	"github.com/mcdev12/speaktime/go/internal/models"
	"github.com/mcdev12/speaktime/go/internal/publisher"
	"github.com/mcdev12/speaktime/go/internal/ranking"
)

type Services struct {
	Manager     *meeting.Manager
	Meeting     *api.Service
	Hub         *gateway.Hub
	Ticker      *clock.Ticker
	Registry    *prometheus.Registry
	RateLimiter *api.RateLimiter

	publisher *publisher.JetStreamPublisher
}

func setupServices(ctx context.Context, cfg *config.Config, store history.Store) (*Services, error) {
	// Wire up dependency injection chain
	// Store → Repository → Manager → Service / Hub / Ticker

	lang, err := language.Parse(cfg.Ranking.Language)
	if err != nil {
		return nil, fmt.Errorf("invalid ranking language %q: %w", cfg.Ranking.Language, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repo := history.NewRepository(store)
	if err := seedRoster(ctx, repo, cfg.Roster); err != nil {
		log.Warn().Err(err).Msg("failed to seed default roster")
	}

	hub := gateway.NewHub(gateway.DefaultConnectionConfig(), nil)
	deps := meeting.Deps{
		History: repo,
		Ranker:  ranking.NewPolicy(lang),
		Sink:    hub,
		Metrics: metrics.NewPrometheusCollector(registry),
	}

	s := &Services{
		Hub:         hub,
		Registry:    registry,
		RateLimiter: api.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	}

	if cfg.NATS.Enabled {
		jsCfg := publisher.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATS.URL
		pub, err := publisher.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATS.URL).Msg("NATS unavailable, meeting events disabled")
		} else {
			s.publisher = pub
			deps.Publisher = pub
		}
	}

	s.Manager = meeting.NewManager(deps)
	hub.SetViewProvider(s.Manager)
	s.Meeting = api.NewService(s.Manager)
	s.Ticker = clock.NewTicker(nil, s.Manager)

	return s, nil
}

// seedRoster stores the configured roster when none has been saved yet
func seedRoster(ctx context.Context, repo *history.Repository, roster []models.RosterEntry) error {
	if len(roster) == 0 {
		return nil
	}
	existing, err := repo.LoadRoster(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	log.Info().Int("participants", len(roster)).Msg("seeding default roster")
	return repo.SaveRoster(ctx, roster)
}

// Close releases connections held by the services
func (s *Services) Close() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close NATS publisher")
		}
	}
}
