package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/lox/holdem-showdown/internal/oracle"
	"github.com/lox/holdem-showdown/poker"
)

// WinnerCmd resolves a showdown given on the command line
type WinnerCmd struct {
	Board  string   `short:"b" required:"" help:"Five community cards, e.g. '2d3c5s8s8d'"`
	Seats  []string `arg:"" help:"Seats in order as id=cards, e.g. player=AsKd ai1=QhQc"`
	Folded []string `short:"f" help:"Seat ids that folded before the showdown"`
	Verify bool     `help:"Cross-check the winners with the independent evaluator"`
}

func (c *WinnerCmd) Run(g *Globals) error {
	return c.run(os.Stdout)
}

type seatHand struct {
	id   string
	hole []poker.Card
}

func parseSeats(args []string) ([]seatHand, error) {
	seats := make([]seatHand, 0, len(args))
	seen := make(map[string]bool, len(args))
	for i, arg := range args {
		id, cards, ok := strings.Cut(arg, "=")
		if !ok {
			id, cards = fmt.Sprintf("seat%d", i+1), arg
		}
		if id == "" {
			return nil, fmt.Errorf("seat %d: empty id", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("seat %s: duplicate id", id)
		}
		seen[id] = true

		hole, err := poker.ParseCards(cards)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", id, err)
		}
		if len(hole) != 2 {
			return nil, fmt.Errorf("seat %s: must hold exactly 2 cards, got %d", id, len(hole))
		}
		seats = append(seats, seatHand{id: id, hole: hole})
	}
	return seats, nil
}

func (c *WinnerCmd) run(w io.Writer) error {
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("parsing board: %w", err)
	}
	if len(board) != 5 {
		return fmt.Errorf("board must have 5 cards, got %d", len(board))
	}
	seats, err := parseSeats(c.Seats)
	if err != nil {
		return err
	}
	if len(seats) < 2 {
		return fmt.Errorf("a showdown needs at least 2 seats, got %d", len(seats))
	}

	groups := [][]poker.Card{board}
	order := make([]string, len(seats))
	players := make(map[string]poker.PlayerData, len(seats))
	for i, s := range seats {
		groups = append(groups, s.hole)
		order[i] = s.id
		players[s.id] = poker.PlayerData{Active: !slices.Contains(c.Folded, s.id), Hand: s.hole}
	}
	for _, id := range c.Folded {
		if _, ok := players[id]; !ok {
			return fmt.Errorf("folded seat %s is not seated", id)
		}
	}
	if err := distinct(groups...); err != nil {
		return err
	}

	e := poker.NewEvaluator(nil)
	result, err := e.GetWinnerOrdered(order, players, board)
	if err != nil {
		return err
	}

	highlight := result.UsedCards()
	fmt.Fprintf(w, "%s %s\n\n", headerStyle.Render("Board:"), renderCards(board, highlight))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tHOLE\tBEST FIVE\tHAND\tKICKERS\t")
	winners := result.WinnerIDs()
	for _, s := range seats {
		if !players[s.id].Active {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\t\n", dimStyle.Render(s.id), renderCards(s.hole, nil),
				dimStyle.Render("folded"), "")
			continue
		}
		score, err := e.GetScore(s.hole, board, s.id)
		if err != nil {
			return err
		}
		id := seatStyle.Render(s.id)
		if slices.Contains(winners, s.id) {
			id = winStyle.Render(s.id + " *")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", id, renderCards(s.hole, highlight),
			renderCards(score.Hand, highlight), categoryStyle.Render(score.Type),
			renderCards(result.Kickers[s.id], nil))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", renderNotify(result))

	if result.Error {
		return fmt.Errorf("showdown failed: %w", result.Err)
	}

	if c.Verify {
		want, err := oracle.Winners(order, players, board)
		if err != nil {
			return err
		}
		if !slices.Equal(want, winners) {
			return fmt.Errorf("independent evaluator disagrees: engine %v, oracle %v", winners, want)
		}
		fmt.Fprintln(w, dimStyle.Render("Independent evaluator agrees."))
	}
	return nil
}
