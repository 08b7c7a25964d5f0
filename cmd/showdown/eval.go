package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/holdem-showdown/internal/oracle"
	"github.com/lox/holdem-showdown/poker"
)

// EvalCmd classifies a single hand
type EvalCmd struct {
	Cards  []string `arg:"" help:"5 to 7 cards, e.g. 'As Kd Qh Jc Ts 2d'"`
	Oracle bool     `help:"Also print the independent evaluator's rank for the best five"`
}

func (c *EvalCmd) Run(g *Globals) error {
	return c.run(os.Stdout)
}

func (c *EvalCmd) run(w io.Writer) error {
	cards, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return fmt.Errorf("parsing cards: %w", err)
	}
	if err := distinct(cards); err != nil {
		return err
	}

	score, err := poker.BestHand(cards)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Cards:"), renderCards(cards, score.Hand))
	fmt.Fprintf(w, "%s %s %s\n", headerStyle.Render("Best:"), renderCards(score.Hand, score.CardsUsed),
		categoryStyle.Render("("+score.Type+")"))
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Category:"), score.Category)
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Used:"), renderCards(score.CardsUsed, nil))
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Kickers:"), renderCards(score.Kickers(), nil))

	if c.Oracle {
		rank, err := oracle.Eval5(score.Hand)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %d\n", headerStyle.Render("Oracle rank:"), rank)
	}
	return nil
}

// distinct reports the first card that appears more than once
func distinct(groups ...[]poker.Card) error {
	seen := make(map[poker.Card]bool)
	for _, cards := range groups {
		for _, card := range cards {
			if seen[card] {
				return fmt.Errorf("duplicate card found: %s", card)
			}
			seen[card] = true
		}
	}
	return nil
}
