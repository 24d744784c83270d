package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RosterEntry is one record as delivered by the configuration surface.
type RosterEntry struct {
	Name      string `json:"name" yaml:"name"`
	AvatarURL string `json:"avatarUrl" yaml:"avatarUrl"`
}

// ParseRoster decodes and validates a JSON roster. The payload must be a
// non-empty array of objects that each carry string "name" and "avatarUrl"
// fields. Names must be non-empty and unique.
func ParseRoster(data []byte) ([]RosterEntry, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: team members must be an array of objects: %v", ErrInvalidRoster, err)
	}

	entries := make([]RosterEntry, 0, len(raw))
	for i, rec := range raw {
		if rec == nil {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrInvalidRoster, i)
		}
		name, err := stringField(rec, "name")
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidRoster, i, err)
		}
		avatar, err := stringField(rec, "avatarUrl")
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidRoster, i, err)
		}
		entries = append(entries, RosterEntry{Name: name, AvatarURL: avatar})
	}

	if err := ValidateRoster(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ValidateRoster checks an already-decoded roster.
func ValidateRoster(entries []RosterEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: roster is empty", ErrInvalidRoster)
	}

	// history is keyed by name, so "Alice" and "Alice " would split one record
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("%w: entry %d has an empty name", ErrInvalidRoster, i)
		}
		if j, dup := seen[name]; dup {
			return fmt.Errorf("%w: entries %d and %d share the name %q", ErrInvalidRoster, j, i, name)
		}
		seen[name] = i
	}
	return nil
}

// NewParticipants assigns IDs to validated roster entries, keeping input order.
func NewParticipants(entries []RosterEntry) []Participant {
	out := make([]Participant, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewParticipant(e.Name, e.AvatarURL))
	}
	return out
}

func stringField(rec map[string]json.RawMessage, key string) (string, error) {
	v, ok := rec[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	var s string
	if string(v) == "null" {
		return "", fmt.Errorf("%q must be a string", key)
	}
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%q must be a string", key)
	}
	return s, nil
}
