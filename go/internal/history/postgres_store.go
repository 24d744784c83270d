package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"
)

// Schema creates the table backing PostgresStore.
const Schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key        TEXT PRIMARY KEY,
    value      JSONB,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	getSQL = `SELECT value FROM kv_store WHERE key = $1`

	upsertSQL = `
INSERT INTO kv_store (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	deleteSQL = `DELETE FROM kv_store WHERE key = $1`
)

// PostgresStore keeps values in a kv_store table. Values must be JSON.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle (lib/pq driver).
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the kv_store table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	log.Info().Str("table", "kv_store").Msg("history schema ready")
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value pqtype.NullRawMessage
	err := s.db.QueryRowContext(ctx, getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if !value.Valid {
		return nil, false, nil
	}
	return value.RawMessage, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	arg := pqtype.NullRawMessage{RawMessage: value, Valid: len(value) > 0}
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, arg); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteSQL, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
