// Package oracle scores hands with an independent lookup-table evaluator so the
// engine's results can be cross-checked.
package oracle

import (
	"fmt"

	hankin "github.com/paulhankin/poker"

	"github.com/lox/holdem-showdown/poker"
)

var suits = [...]hankin.Suit{
	poker.Clubs:    hankin.Club,
	poker.Hearts:   hankin.Heart,
	poker.Diamonds: hankin.Diamond,
	poker.Spades:   hankin.Spade,
}

// Convert maps an engine card to the oracle's representation. The oracle ranks
// aces as 1.
func Convert(c poker.Card) (hankin.Card, error) {
	if !c.Valid() {
		var zero hankin.Card
		return zero, fmt.Errorf("oracle: invalid card %v", c)
	}
	rank := c.Value
	if c.IsAce() {
		rank = 1
	}
	return hankin.MakeCard(suits[c.Suit], hankin.Rank(rank))
}

// Eval7 scores exactly seven cards. Higher is stronger and equal scores are equal hands.
func Eval7(cards []poker.Card) (int16, error) {
	if len(cards) != 7 {
		return 0, fmt.Errorf("oracle: need 7 cards, got %d", len(cards))
	}
	var hand [7]hankin.Card
	for i, c := range cards {
		hc, err := Convert(c)
		if err != nil {
			return 0, err
		}
		hand[i] = hc
	}
	return hankin.Eval7(&hand), nil
}

// Eval5 scores exactly five cards.
func Eval5(cards []poker.Card) (int16, error) {
	if len(cards) != 5 {
		return 0, fmt.Errorf("oracle: need 5 cards, got %d", len(cards))
	}
	var hand [5]hankin.Card
	for i, c := range cards {
		hc, err := Convert(c)
		if err != nil {
			return 0, err
		}
		hand[i] = hc
	}
	return hankin.Eval5(&hand), nil
}

// Winners returns the ids of the active players holding the strongest seven-card
// hand, in the given seat order.
func Winners(order []string, players map[string]poker.PlayerData, board []poker.Card) ([]string, error) {
	var (
		winners []string
		best    int16
	)
	for _, id := range order {
		p, ok := players[id]
		if !ok || !p.Active {
			continue
		}
		cards := append(append(make([]poker.Card, 0, 7), p.Hand...), board...)
		score, err := Eval7(cards)
		if err != nil {
			return nil, fmt.Errorf("oracle: %s: %w", id, err)
		}
		switch {
		case len(winners) == 0 || score > best:
			best = score
			winners = []string{id}
		case score == best:
			winners = append(winners, id)
		}
	}
	return winners, nil
}
