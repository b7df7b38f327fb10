package memory

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Dealer builds shuffled decks from a fixed symbol set and installs each
// one into its Table.
type Dealer struct {
	mu      sync.Mutex
	symbols []Symbol
	rng     *rand.Rand
	table   *Table
}

// NewDealer returns a Dealer for symbols that writes into table. rng is
// owned by the Dealer afterwards; callers must not use it concurrently.
func NewDealer(symbols []Symbol, rng *rand.Rand, table *Table) (*Dealer, error) {
	if err := ValidateSymbols(symbols); err != nil {
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Dealer{
		symbols: append([]Symbol(nil), symbols...),
		rng:     rng,
		table:   table,
	}, nil
}

// NewSeededRand returns a generator whose output depends only on seed.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ValidateSymbols reports whether symbols can form a deck.
func ValidateSymbols(symbols []Symbol) error {
	if len(symbols) == 0 {
		return fmt.Errorf("%w: at least one symbol is required", ErrInvalidSymbols)
	}

	seen := make(map[Symbol]struct{}, len(symbols))
	for _, s := range symbols {
		if s == "" {
			return fmt.Errorf("%w: empty symbol", ErrInvalidSymbols)
		}
		if _, ok := seen[s]; ok {
			return fmt.Errorf("%w: duplicate symbol %q", ErrInvalidSymbols, s)
		}
		seen[s] = struct{}{}
	}

	return nil
}

// Symbols returns a copy of the configured symbol set.
func (d *Dealer) Symbols() []Symbol {
	return append([]Symbol(nil), d.symbols...)
}

// Deal shuffles a fresh deck and replaces the table with it. The returned
// deck is owned by the caller.
func (d *Dealer) Deal() (Deck, Round) {
	d.mu.Lock()
	defer d.mu.Unlock()

	deck := make(Deck, 0, 2*len(d.symbols))
	for _, s := range d.symbols {
		deck = append(deck, Card{ID: len(deck), Value: s})
		deck = append(deck, Card{ID: len(deck), Value: s})
	}

	shuffle(d.rng, deck)

	round := uuid.New()
	d.table.install(round, deck)

	return deck, round
}

// Fisher-Yates
func shuffle(rng *rand.Rand, deck Deck) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}
