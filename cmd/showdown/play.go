package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-showdown/internal/config"
	"github.com/lox/holdem-showdown/internal/randutil"
	"github.com/lox/holdem-showdown/internal/table"
	"github.com/lox/holdem-showdown/poker"
)

// PlayCmd seats the configured players and plays hands until the table breaks
type PlayCmd struct {
	Hands int    `default:"0" help:"Stop after this many hands (0 plays until input ends or only one seat has chips)"`
	Seed  *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := g.logger(cfg, "play")
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.play(ctx, cfg, os.Stdin, os.Stdout, logger)
}

func thresholds(cfg *config.Config) table.Thresholds {
	return table.Thresholds{
		Fold:      *cfg.AI.FoldThreshold,
		Raise:     *cfg.AI.RaiseThreshold,
		OpenRaise: *cfg.AI.OpenRaiseThreshold,
	}
}

func (c *PlayCmd) seed(logger *log.Logger) int64 {
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		return *c.Seed
	}
	seed := time.Now().UnixNano()
	logger.Info("Using random seed", "seed", seed)
	return seed
}

func (c *PlayCmd) play(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *log.Logger) error {
	delay, err := cfg.ThinkDelay()
	if err != nil {
		return err
	}
	rng := randutil.New(c.seed(logger))

	var (
		tbl    *table.Table
		humans []*table.Seat
		seats  = make([]*table.Seat, 0, len(cfg.Seats))
	)
	render := func(s table.State) string {
		return renderPrompt(s, tbl.Messages())
	}
	for i, sc := range cfg.Seats {
		seat := &table.Seat{
			ID:      sc.ID,
			Name:    sc.Name,
			Balance: cfg.Table.StartingBalance,
		}
		switch sc.Kind {
		case config.KindHuman:
			seat.Agent = table.NewHumanAgent(in, out, render)
			humans = append(humans, seat)
		default:
			seat.Agent = table.NewRandomAgent(randutil.ForHand(rng.Int64(), i), thresholds(cfg), nil, delay,
				logger.WithPrefix(sc.ID))
		}
		seats = append(seats, seat)
	}
	if len(humans) == 0 && c.Hands == 0 {
		return fmt.Errorf("--hands is required when no seat is human")
	}

	opts := table.Options{
		Ante:         cfg.Table.Ante,
		MaxRaise:     cfg.Table.MaxRaise,
		MessageLimit: cfg.Table.MessageLimit,
	}
	tbl, err = table.New(opts, seats, rng, poker.NewEvaluator(nil), nil, logger)
	if err != nil {
		return err
	}

	for n := 0; c.Hands == 0 || n < c.Hands; n++ {
		if len(humans) > 0 && !slices.ContainsFunc(humans, tbl.CanPlay) {
			fmt.Fprintln(out, headerStyle.Render("You can no longer cover the ante. Game over."))
			printBalances(out, tbl)
			return nil
		}
		hr, err := tbl.PlayHand(ctx)
		switch {
		case errors.Is(err, table.ErrNotEnoughPlayers):
			fmt.Fprintln(out, headerStyle.Render("Only one seat has chips left. Game over."))
			printBalances(out, tbl)
			return nil
		case errors.Is(err, table.ErrInputClosed):
			fmt.Fprintln(out, dimStyle.Render("\nInput closed, hand abandoned and antes returned."))
			printBalances(out, tbl)
			return nil
		case errors.Is(err, context.Canceled):
			printBalances(out, tbl)
			return nil
		case err != nil:
			return err
		}
		printHand(out, tbl, hr)
	}
	printBalances(out, tbl)
	return nil
}

// renderPrompt shows the acting seat its view of the hand and the latest table messages
func renderPrompt(s table.State, messages []string) string {
	self := s.Self()
	var b strings.Builder
	b.WriteString("\n")
	for _, m := range messages {
		b.WriteString(dimStyle.Render(m) + "\n")
	}
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render(s.Stage.String()+":"), renderCards(s.Board, nil))
	fmt.Fprintf(&b, "%s %s  pot %d  balance %d", seatStyle.Render("Your hand:"), renderCards(self.Hand, nil),
		s.Pot, self.Balance)
	if s.ToCall > 0 {
		fmt.Fprintf(&b, "  to call %d", s.ToCall)
	}
	b.WriteString("\n")
	if s.CanRaise {
		b.WriteString("[f]old, [c]all, [r]aise <amount> > ")
	} else {
		b.WriteString("[f]old, [c]all > ")
	}
	return b.String()
}

// printHand reveals the hands that reached showdown and the outcome
func printHand(w io.Writer, tbl *table.Table, hr *table.HandResult) {
	fmt.Fprintf(w, "\n%s %s\n", headerStyle.Render("Board:"), renderCards(hr.Board, hr.Highlight))
	if hr.Showdown {
		for _, s := range tbl.Seats() {
			hole, ok := hr.Hands[s.ID]
			if !ok || slices.Contains(hr.Folded, s.ID) {
				continue
			}
			fmt.Fprintf(w, "  %-14s %s\n", s.Name, renderCards(hole, hr.Highlight))
		}
	}
	fmt.Fprintln(w, renderNotify(hr.Result))
	for _, s := range tbl.Seats() {
		if net := hr.Net(s.ID); net != 0 {
			fmt.Fprintf(w, "  %-14s %+d\n", s.Name, net)
		}
	}
}

func printBalances(w io.Writer, tbl *table.Table) {
	fmt.Fprintln(w, headerStyle.Render("Balances:"))
	for _, s := range tbl.Seats() {
		fmt.Fprintf(w, "  %-14s %d\n", s.Name, s.Balance)
	}
}
