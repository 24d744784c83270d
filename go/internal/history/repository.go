package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/speaktime/go/internal/models"
)

// Repository reads and writes history records and saved rosters on a Store.
type Repository struct {
	store Store
}

// NewRepository creates a repository over store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Load returns the stored record. A missing key yields an empty record; an
// unreadable or corrupt value is returned as an error alongside an empty record
// so callers can fall back to "no history".
func (r *Repository) Load(ctx context.Context) (models.HistoryRecord, error) {
	data, ok, err := r.store.Get(ctx, KeyPreviousMeeting)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok || len(data) == 0 {
		return models.HistoryRecord{}, nil
	}

	var record models.HistoryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return models.HistoryRecord{}, fmt.Errorf("failed to decode history: %w", err)
	}
	if record == nil {
		record = models.HistoryRecord{}
	}
	for name, secs := range record {
		if secs < 0 {
			log.Warn().Str("name", name).Int("seconds", secs).Msg("dropping negative history entry")
			delete(record, name)
		}
	}
	return record, nil
}

// Save writes record. It returns only after the store confirms the write.
func (r *Repository) Save(ctx context.Context, record models.HistoryRecord) error {
	if record == nil {
		record = models.HistoryRecord{}
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := r.store.Set(ctx, KeyPreviousMeeting, data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Clear removes the stored record.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, KeyPreviousMeeting); err != nil {
		return fmt.Errorf("failed to remove history: %w", err)
	}
	return nil
}

// SaveRoster remembers the last submitted roster.
func (r *Repository) SaveRoster(ctx context.Context, entries []models.RosterEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := r.store.Set(ctx, KeyTeamMembers, data); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}

// LoadRoster returns the last saved roster, or nil when none was saved.
func (r *Repository) LoadRoster(ctx context.Context) ([]models.RosterEntry, error) {
	data, ok, err := r.store.Get(ctx, KeyTeamMembers)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	if !ok {
		return nil, nil
	}
	entries, err := models.ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	return entries, nil
}
