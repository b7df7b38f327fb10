package memory

import (
	"sync/atomic"

	"github.com/google/uuid"
)

type snapshot struct {
	round   Round
	symbols map[int]Symbol
}

// Table maps card ids of the current deck to their symbols.
//
// A Table is written only by its Dealer, which swaps in a complete new
// mapping on every deal. Readers see either the previous mapping or the
// next one, never a mix of the two. The zero value is an empty table.
type Table struct {
	current atomic.Pointer[snapshot]
}

func (t *Table) install(round Round, deck Deck) {
	symbols := make(map[int]Symbol, len(deck))
	for _, c := range deck {
		symbols[c.ID] = c.Value
	}

	t.current.Store(&snapshot{round: round, symbols: symbols})
}

func (t *Table) load() *snapshot {
	if s := t.current.Load(); s != nil {
		return s
	}

	return &snapshot{round: uuid.Nil}
}

// Check reports whether id1 and id2 both belong to the current deck and
// show the same symbol. Passing the same id twice matches if the id exists.
func (t *Table) Check(id1, id2 int) bool {
	s := t.load()

	a, ok := s.symbols[id1]
	if !ok || a == "" {
		return false
	}

	b, ok := s.symbols[id2]
	if !ok || b == "" {
		return false
	}

	return a == b
}

// Round returns the identifier of the current deal, or uuid.Nil before
// the first one.
func (t *Table) Round() Round {
	return t.load().round
}

// Len returns the number of cards in the current deck.
func (t *Table) Len() int {
	return len(t.load().symbols)
}
