package memory

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDealer(t *testing.T, symbols []Symbol, seed uint64) (*Dealer, *Table) {
	t.Helper()

	table := &Table{}
	dealer, err := NewDealer(symbols, NewSeededRand(seed), table)
	require.NoError(t, err)

	return dealer, table
}

func TestDealPairsEverySymbolTwice(t *testing.T) {
	dealer, table := newTestDealer(t, DefaultSymbols, 1)

	for range 50 {
		deck, round := dealer.Deal()

		require.Len(t, deck, 2*len(DefaultSymbols))
		assert.Equal(t, round, table.Round())
		assert.Equal(t, len(deck), table.Len())

		counts := make(map[Symbol]int)
		ids := make(map[int]bool)
		for _, c := range deck {
			counts[c.Value]++

			assert.False(t, ids[c.ID], "duplicate id %d", c.ID)
			ids[c.ID] = true
			assert.GreaterOrEqual(t, c.ID, 0)
			assert.Less(t, c.ID, len(deck))
		}

		for _, s := range DefaultSymbols {
			assert.Equal(t, 2, counts[s], "symbol %s", s)
		}
	}
}

func TestDealAssignsIDsInSymbolOrder(t *testing.T) {
	dealer, _ := newTestDealer(t, []Symbol{"A", "B", "C"}, 7)

	deck, _ := dealer.Deal()

	bySymbol := make(map[Symbol][]int)
	for _, c := range deck {
		bySymbol[c.Value] = append(bySymbol[c.Value], c.ID)
	}

	assert.ElementsMatch(t, []int{0, 1}, bySymbol["A"])
	assert.ElementsMatch(t, []int{2, 3}, bySymbol["B"])
	assert.ElementsMatch(t, []int{4, 5}, bySymbol["C"])
}

func TestDealIsReproducibleForSeed(t *testing.T) {
	a, _ := newTestDealer(t, DefaultSymbols, 42)
	b, _ := newTestDealer(t, DefaultSymbols, 42)

	for range 10 {
		deckA, roundA := a.Deal()
		deckB, roundB := b.Deal()

		assert.Equal(t, deckA, deckB)
		assert.NotEqual(t, roundA, roundB)
	}
}

func TestDealIssuesNewRoundEachTime(t *testing.T) {
	dealer, table := newTestDealer(t, DefaultSymbols, 3)

	_, first := dealer.Deal()
	_, second := dealer.Deal()

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, table.Round())
}

func TestShuffleHasNoPositionalBias(t *testing.T) {
	const deals = 12000

	dealer, _ := newTestDealer(t, DefaultSymbols, 2024)
	n := 2 * len(DefaultSymbols)

	// positions[id][pos] counts how often card id landed at pos.
	positions := make([][]int, n)
	for i := range positions {
		positions[i] = make([]int, n)
	}

	for range deals {
		deck, _ := dealer.Deal()
		for pos, c := range deck {
			positions[c.ID][pos]++
		}
	}

	expected := float64(deals) / float64(n)

	var chi2 float64
	for id := range positions {
		for pos, got := range positions[id] {
			diff := float64(got) - expected
			chi2 += diff * diff / expected

			assert.InDelta(t, expected, float64(got), expected*0.2,
				"card %d at position %d", id, pos)
		}
	}

	// 121 degrees of freedom; 200 is far beyond the 0.1% tail.
	assert.Less(t, chi2, 200.0)
}

func TestShuffleKeepsCards(t *testing.T) {
	deck := Deck{{0, "A"}, {1, "A"}, {2, "B"}, {3, "B"}}
	orig := append(Deck(nil), deck...)

	shuffle(rand.New(rand.NewPCG(1, 2)), deck)

	assert.ElementsMatch(t, orig, deck)
}

func TestNewDealerRejectsBadSymbols(t *testing.T) {
	tests := []struct {
		name    string
		symbols []Symbol
	}{
		{"empty", nil},
		{"blank", []Symbol{"A", ""}},
		{"duplicate", []Symbol{"A", "B", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDealer(tt.symbols, nil, &Table{})
			assert.ErrorIs(t, err, ErrInvalidSymbols)
		})
	}
}

func TestDealerCopiesSymbols(t *testing.T) {
	symbols := []Symbol{"A", "B"}
	dealer, _ := newTestDealer(t, symbols, 1)

	symbols[0] = "Z"

	assert.Equal(t, []Symbol{"A", "B"}, dealer.Symbols())
}
