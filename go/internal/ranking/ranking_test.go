package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/mcdev12/speaktime/go/internal/models"
)

func roster(names ...string) []models.Participant {
	out := make([]models.Participant, 0, len(names))
	for _, n := range names {
		out = append(out, models.NewParticipant(n, ""))
	}
	return out
}

func names(ps []models.Participant) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestRank(t *testing.T) {
	t.Run("descending seconds with alphabetical tie-break", func(t *testing.T) {
		got := Rank(roster("Bob", "Carol", "Alice"), models.HistoryRecord{"Alice": 5, "Bob": 5, "Carol": 9})
		assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names(got))
	})

	t.Run("empty history falls back to alphabetical", func(t *testing.T) {
		got := Rank(roster("dave", "Carol", "alice", "Bob"), models.HistoryRecord{})
		assert.Equal(t, []string{"alice", "Bob", "Carol", "dave"}, names(got))
	})

	t.Run("nil history behaves like empty", func(t *testing.T) {
		got := Rank(roster("Bob", "Alice"), nil)
		assert.Equal(t, []string{"Alice", "Bob"}, names(got))
	})

	t.Run("participants without history rank below speakers", func(t *testing.T) {
		got := Rank(roster("Zoe", "Adam", "Mia"), models.HistoryRecord{"Zoe": 1, "Ghost": 100})
		assert.Equal(t, []string{"Zoe", "Adam", "Mia"}, names(got))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := roster("Bob", "Alice")
		_ = Rank(in, models.HistoryRecord{"Alice": 3})
		assert.Equal(t, []string{"Bob", "Alice"}, names(in))
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		in := roster("Émile", "Eve", "edgar", "Ed")
		h := models.HistoryRecord{"Eve": 2}
		first := Rank(in, h)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Rank(in, h))
		}
	})
}

func TestPolicyLocale(t *testing.T) {
	t.Run("accented names sort with their base letter", func(t *testing.T) {
		got := NewPolicy(language.French).Alphabetical(roster("Zoé", "Élodie", "Fabien", "Eric"))
		assert.Equal(t, []string{"Élodie", "Eric", "Fabien", "Zoé"}, names(got))
	})
}

func TestAlphabetical(t *testing.T) {
	got := Alphabetical(roster("Carol", "alice", "Bob"))
	assert.Equal(t, []string{"alice", "Bob", "Carol"}, names(got))
}
