package poker

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestDeckDealsEveryCardOnce(t *testing.T) {
	t.Parallel()
	deck := NewDeck(rand.New(rand.NewPCG(1, 2)))
	require.Equal(t, DeckSize, deck.Remaining())

	seen := make(map[Card]bool, DeckSize)
	for i := range DeckSize {
		card, err := deck.DealCard()
		require.NoError(t, err)
		require.True(t, card.Valid(), "card %v", card)
		require.False(t, seen[card], "duplicate card %v", card)
		seen[card] = true
		assert.False(t, deck.Contains(card))
		assert.Equal(t, DeckSize, deck.Remaining()+deck.Dealt())
		assert.Equal(t, i+1, deck.Dealt())
	}
	assert.Len(t, seen, DeckSize)

	_, err := deck.DealCard()
	assert.ErrorIs(t, err, ErrDeckExhausted)
}

func TestDeckReset(t *testing.T) {
	t.Parallel()
	deck := NewDeck(rand.New(rand.NewPCG(3, 4)))
	_, err := deck.DealN(20)
	require.NoError(t, err)
	assert.Equal(t, 32, deck.Remaining())

	deck.Reset()
	assert.Equal(t, DeckSize, deck.Remaining())
	assert.Equal(t, 0, deck.Dealt())
	for _, suit := range Suits {
		for value := Two; value <= Ace; value++ {
			assert.True(t, deck.Contains(NewCard(value, suit)))
		}
	}
}

func TestDeckDealNStopsWhenExhausted(t *testing.T) {
	t.Parallel()
	deck := NewDeck(nil)
	cards, err := deck.DealN(60)
	assert.ErrorIs(t, err, ErrDeckExhausted)
	assert.Len(t, cards, DeckSize)
}

func TestDeckSameSeedSameDeal(t *testing.T) {
	t.Parallel()
	a, err := NewDeck(rand.New(rand.NewPCG(42, 0))).DealN(9)
	require.NoError(t, err)
	b, err := NewDeck(rand.New(rand.NewPCG(42, 0))).DealN(9)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeckDealsUniformly(t *testing.T) {
	t.Parallel()
	const perCard = 400
	deck := NewDeck(rand.New(rand.NewPCG(7, 8)))

	// first and fifth card of each fresh deck, so later draws are covered too
	for _, position := range []int{1, 5} {
		counts := make([]int, DeckSize)
		for range DeckSize * perCard {
			deck.Reset()
			cards, err := deck.DealN(position)
			require.NoError(t, err)
			counts[cards[position-1].Index()]++
		}

		var chi2 float64
		for _, n := range counts {
			d := float64(n - perCard)
			chi2 += d * d / perCard
		}
		p := distuv.ChiSquared{K: DeckSize - 1}.Survival(chi2)
		assert.Greater(t, p, 0.001, "position %d: chi2=%.1f", position, chi2)
	}
}
