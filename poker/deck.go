package poker

import (
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Deck is a standard 52-card deck dealt by uniform random draw without replacement.
// A Deck is not safe for concurrent use; each game keeps its own.
type Deck struct {
	remaining []Card
	rng       *rand.Rand
}

// NewDeck creates a full deck. A nil rng falls back to the global source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		remaining: make([]Card, 0, DeckSize),
		rng:       rng,
	}
	d.Reset()
	return d
}

// DealCard removes and returns a random remaining card.
func (d *Deck) DealCard() (Card, error) {
	n := len(d.remaining)
	if n == 0 {
		return Card{}, ErrDeckExhausted
	}

	var i int
	if d.rng != nil {
		i = d.rng.IntN(n)
	} else {
		i = rand.IntN(n)
	}

	card := d.remaining[i]
	// Swap-remove keeps the draw O(1); order of the remaining set carries no meaning.
	d.remaining[i] = d.remaining[n-1]
	d.remaining = d.remaining[:n-1]
	return card, nil
}

// DealN deals n cards, stopping at the first error
func (d *Deck) DealN(n int) ([]Card, error) {
	cards := make([]Card, 0, n)
	for range n {
		card, err := d.DealCard()
		if err != nil {
			return cards, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.remaining)
}

// Dealt returns how many cards have been dealt since the last reset
func (d *Deck) Dealt() int {
	return DeckSize - len(d.remaining)
}

// Contains reports whether card is still in the deck
func (d *Deck) Contains(card Card) bool {
	return containsCard(d.remaining, card)
}

// Reset restores all 52 cards, discarding prior deals
func (d *Deck) Reset() {
	d.remaining = d.remaining[:0]
	for value := Two; value <= Ace; value++ {
		for _, suit := range Suits {
			d.remaining = append(d.remaining, NewCard(value, suit))
		}
	}
}
