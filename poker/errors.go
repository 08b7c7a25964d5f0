package poker

import "errors"

var (
	// ErrDeckExhausted is returned when dealing from a deck with no cards left.
	ErrDeckExhausted = errors.New("deck exhausted: cannot deal more than 52 cards")

	// ErrInvalidHandSize is returned when a hand has the wrong number of cards.
	ErrInvalidHandSize = errors.New("invalid hand size")

	// ErrInvalidCard is returned when a hand holds a card outside the standard deck.
	ErrInvalidCard = errors.New("invalid card")

	// ErrNoActivePlayers is returned by the showdown when every player has folded.
	ErrNoActivePlayers = errors.New("no active players at showdown")

	// ErrUnhandledCategory marks a category that reached kicker resolution without a kicker rule.
	ErrUnhandledCategory = errors.New("unhandled category in kicker logic")
)
