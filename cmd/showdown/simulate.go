package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-showdown/internal/config"
	"github.com/lox/holdem-showdown/internal/fileutil"
	"github.com/lox/holdem-showdown/internal/simulator"
	"github.com/lox/holdem-showdown/poker"
)

// SimulateCmd runs a batch of independent hands through the engine
type SimulateCmd struct {
	Hands   int           `help:"Number of hands (default from config)"`
	Workers int           `short:"w" help:"Concurrent workers (default from config)"`
	Seed    *int64        `help:"RNG seed (default from config, random when unset there)"`
	Mode    string        `default:"showdown" enum:"showdown,table" help:"showdown deals straight to the river; table plays full hands between random agents"`
	Track   string        `help:"Seat whose net chips are reported (default first seat)"`
	Verify  bool          `help:"Cross-check every showdown against the independent evaluator"`
	Timeout time.Duration `default:"5s" help:"Per-hand timeout in table mode"`
	Output  string        `short:"o" type:"path" help:"Also write the summary to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := g.logger(cfg, "simulate")
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.run(ctx, cfg, os.Stdout, logger)
}

func (c *SimulateCmd) config(cfg *config.Config, logger *log.Logger) simulator.Config {
	hands := cfg.Simulation.Hands
	if c.Hands > 0 {
		hands = c.Hands
	}
	workers := cfg.Simulation.Workers
	if c.Workers > 0 {
		workers = c.Workers
	}
	seed := cfg.Simulation.Seed
	switch {
	case c.Seed != nil:
		seed = *c.Seed
	case seed == 0:
		seed = time.Now().UnixNano()
	}

	return simulator.Config{
		Hands:           hands,
		Workers:         workers,
		Seed:            seed,
		Mode:            simulator.Mode(c.Mode),
		Seats:           cfg.SeatOrder(),
		Track:           c.Track,
		StartingBalance: cfg.Table.StartingBalance,
		Ante:            cfg.Table.Ante,
		MaxRaise:        cfg.Table.MaxRaise,
		Thresholds:      thresholds(cfg),
		Verify:          c.Verify,
		Timeout:         c.Timeout,
		Cache:           poker.NewScoreCacheSize(cfg.Simulation.CacheSize),
		Logger:          logger,
	}
}

func (c *SimulateCmd) run(ctx context.Context, cfg *config.Config, w io.Writer, logger *log.Logger) error {
	simCfg := c.config(cfg, logger)
	logger.Info("Starting simulation",
		"hands", simCfg.Hands,
		"workers", simCfg.Workers,
		"seed", simCfg.Seed,
		"mode", simCfg.Mode,
		"verify", simCfg.Verify)

	sim := simulator.New(simCfg)
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	track := simCfg.Track
	if track == "" {
		track = simCfg.Seats[0]
	}
	simulator.PrintSummary(w, report, track)
	if c.Output != "" {
		if err := writeSummary(c.Output, report, track); err != nil {
			return err
		}
		logger.Info("Wrote summary", "path", c.Output)
	}

	if len(report.Mismatches) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s\n", errorStyle.Render("=== MISMATCHES ==="))
	for _, m := range report.Mismatches {
		fmt.Fprintf(w, "hand %d seed %d board %s engine %v oracle %v\n",
			m.Hand, m.Seed, poker.FormatCards(m.Board), m.Engine, m.Oracle)
		for _, id := range simCfg.Seats {
			if hole, ok := m.Hands[id]; ok {
				fmt.Fprintf(w, "  %s %s\n", id, poker.FormatCards(hole))
			}
		}
	}
	return fmt.Errorf("%d showdowns disagreed with the independent evaluator", len(report.Mismatches))
}

// writeSummary writes the plain summary to path so readers never see a partial report
func writeSummary(path string, report *simulator.Report, track string) error {
	var buf bytes.Buffer
	simulator.PrintSummary(&buf, report, track)
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
