// Package ranking orders a roster by the previous meeting's speaking time.
package ranking

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mcdev12/speaktime/go/internal/models"
)

// Policy ranks participants: most seconds in the last meeting first, ties by
// name using the collation rules of the configured language.
type Policy struct {
	mu       sync.Mutex // collate.Collator keeps internal buffers
	collator *collate.Collator
}

// NewPolicy creates a policy whose name tie-break follows lang.
func NewPolicy(lang language.Tag) *Policy {
	return &Policy{collator: collate.New(lang)}
}

var defaultPolicy = NewPolicy(language.English)

// DefaultPolicy returns the shared English policy.
func DefaultPolicy() *Policy {
	return defaultPolicy
}

// Rank orders participants using English collation for ties.
func Rank(participants []models.Participant, history models.HistoryRecord) []models.Participant {
	return defaultPolicy.Rank(participants, history)
}

// Alphabetical orders participants by name only.
func Alphabetical(participants []models.Participant) []models.Participant {
	return defaultPolicy.Alphabetical(participants)
}

// Rank returns a new slice ordered by descending history seconds, then name.
// The input slice is left untouched.
func (p *Policy) Rank(participants []models.Participant, history models.HistoryRecord) []models.Participant {
	return p.sorted(participants, func(a, b models.Participant) int {
		sa, sb := history.Seconds(a.Name), history.Seconds(b.Name)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
}

// Alphabetical returns a new slice ordered by name.
func (p *Policy) Alphabetical(participants []models.Participant) []models.Participant {
	return p.sorted(participants, func(a, b models.Participant) int { return 0 })
}

// sorted applies primary, then collated name, then raw bytes. Stable sort keeps
// input order for names that compare equal on every key.
func (p *Policy) sorted(participants []models.Participant, primary func(a, b models.Participant) int) []models.Participant {
	out := make([]models.Participant, len(participants))
	copy(out, participants)

	p.mu.Lock()
	defer p.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := primary(a, b); c != 0 {
			return c < 0
		}
		if c := p.collator.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})
	return out
}
