package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/speaktime/go/internal/config"
	"github.com/mcdev12/speaktime/go/internal/dbconfig"
	"github.com/mcdev12/speaktime/go/internal/history"
)

// setupStore opens the configured history backend. The returned func
// releases it.
func setupStore(ctx context.Context, cfg *config.Config) (history.Store, func(), error) {
	switch cfg.History.Backend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory history, nothing survives a restart")
		return history.NewMemoryStore(), func() {}, nil

	case config.BackendFile:
		store, err := history.NewFileStore(cfg.History.Dir)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", cfg.History.Dir).Msg("using file history store")
		return store, func() {}, nil

	case config.BackendPostgres:
		database, err := setupDatabase(ctx)
		if err != nil {
			return nil, nil, err
		}
		store := history.NewPostgresStore(database)
		if err := store.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		return store, func() { database.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

func setupDatabase(ctx context.Context) (*sql.DB, error) {
	dbCfg := dbconfig.NewConfigFromEnv()

	database, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("dsn", dbCfg.Redacted()).Msg("connected to database")
	return database, nil
}
