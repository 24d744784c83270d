package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoster(t *testing.T) {
	entries, err := ParseRoster([]byte(`[
		{"name": "Alice", "avatarUrl": "https://avatars.example/alice.png"},
		{"name": "Bob", "avatarUrl": "", "role": "lead"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []RosterEntry{
		{Name: "Alice", AvatarURL: "https://avatars.example/alice.png"},
		{Name: "Bob", AvatarURL: ""},
	}, entries)
}

func TestParseRosterRejects(t *testing.T) {
	cases := map[string]string{
		"not json":             `[{`,
		"object not array":     `{"name":"Alice","avatarUrl":"a"}`,
		"empty array":          `[]`,
		"number element":       `[1]`,
		"null element":         `[null]`,
		"string element":       `["Alice"]`,
		"missing name":         `[{"avatarUrl":"a"}]`,
		"missing avatar":       `[{"name":"Alice"}]`,
		"null name":            `[{"name":null,"avatarUrl":"a"}]`,
		"null avatar":          `[{"name":"Alice","avatarUrl":null}]`,
		"numeric avatar":       `[{"name":"Alice","avatarUrl":5}]`,
		"numeric name":         `[{"name":7,"avatarUrl":"a"}]`,
		"empty name":           `[{"name":"","avatarUrl":"a"}]`,
		"whitespace name":      `[{"name":"   ","avatarUrl":"a"}]`,
		"duplicate name":       `[{"name":"Alice","avatarUrl":"a"},{"name":"Alice","avatarUrl":"b"}]`,
		"duplicate after trim": `[{"name":"Alice","avatarUrl":"a"},{"name":"Alice ","avatarUrl":"b"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoster([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidRoster)
		})
	}
}

func TestValidateRosterTrimmedDuplicates(t *testing.T) {
	err := ValidateRoster([]RosterEntry{{Name: " Bob", AvatarURL: "a"}, {Name: "Bob\t", AvatarURL: "b"}})
	assert.ErrorIs(t, err, ErrInvalidRoster)

	assert.NoError(t, ValidateRoster([]RosterEntry{{Name: "Bob", AvatarURL: "a"}, {Name: "bob", AvatarURL: "b"}}))
}

func TestNewParticipantsKeepsOrder(t *testing.T) {
	ps := NewParticipants([]RosterEntry{{Name: "Zoe", AvatarURL: "z"}, {Name: "Adam", AvatarURL: "a"}})
	require.Len(t, ps, 2)
	assert.Equal(t, "Zoe", ps[0].Name)
	assert.Equal(t, "Adam", ps[1].Name)
	assert.NotEqual(t, ps[0].ID, ps[1].ID)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name  string
		state TimerState
		want  TimerStatus
	}{
		{"never started", TimerState{}, TimerStatusIdle},
		{"running", TimerState{Running: true, Started: true}, TimerStatusRunning},
		{"paused with time", TimerState{TotalSeconds: 12, Started: true}, TimerStatusPaused},
		{"paused before first tick", TimerState{Started: true}, TimerStatusPaused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.state))
		})
	}
}
