package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/speaktime/go/internal/dbconfig"
	"github.com/mcdev12/speaktime/go/internal/history"
	"github.com/mcdev12/speaktime/go/internal/models"
)

const defaultSnapshot = "go/internal/assets/history.json"

// Snapshot is an export of the browser storage: the previous meeting's
// speaking times and the last roster, under their storage keys.
type Snapshot map[string]json.RawMessage

func main() {
	path := defaultSnapshot
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Validate before touching the database
	values := make(map[string][]byte, len(snap))
	for key, raw := range snap {
		value, err := normalize(key, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid %s: %v\n", key, err)
			os.Exit(1)
		}
		if value == nil {
			fmt.Fprintf(os.Stderr, "skipping unknown key %s\n", key)
			continue
		}
		values[key] = value
	}

	// 3) Connect using shared dbconfig
	ctx := context.Background()
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, history.Schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create schema: %v\n", err)
		os.Exit(1)
	}

	// 4) Upsert and count
	var written, errs int
	for key, value := range values {
		_, err := pool.Exec(ctx, `
            INSERT INTO kv_store (key, value, updated_at)
            VALUES ($1, $2::jsonb, now())
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
        `, key, string(value))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", key, err)
			errs++
			continue
		}
		written++
	}

	fmt.Printf("History seed complete: %d keys, %d written, %d errors\n", len(snap), written, errs)
}

// normalize re-encodes a known key's value after validating it. Unknown keys
// return nil.
func normalize(key string, raw json.RawMessage) ([]byte, error) {
	switch key {
	case history.KeyPreviousMeeting:
		var record models.HistoryRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, err
		}
		for name, secs := range record {
			if secs < 0 {
				return nil, fmt.Errorf("negative total for %s", name)
			}
		}
		return json.Marshal(record)
	case history.KeyTeamMembers:
		entries, err := models.ParseRoster(raw)
		if err != nil {
			return nil, err
		}
		return json.Marshal(entries)
	default:
		return nil, nil
	}
}
