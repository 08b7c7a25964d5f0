package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lox/holdem-showdown/internal/handid"
	"github.com/lox/holdem-showdown/internal/oracle"
	"github.com/lox/holdem-showdown/internal/randutil"
	"github.com/lox/holdem-showdown/internal/statistics"
	"github.com/lox/holdem-showdown/internal/table"
	"github.com/lox/holdem-showdown/poker"
)

// Mode selects how each simulated hand is produced
type Mode string

const (
	// ModeShowdown deals every seat and the full board and resolves at once
	ModeShowdown Mode = "showdown"
	// ModeTable plays a full table hand between random agents
	ModeTable Mode = "table"
)

// Config holds configuration for running simulations
type Config struct {
	Hands   int
	Workers int
	Seed    int64
	Mode    Mode

	// Seats in resolution order; Track is the seat whose net chips are measured
	// and defaults to the first seat.
	Seats []string
	Track string

	StartingBalance int
	Ante            int
	MaxRaise        int
	Thresholds      table.Thresholds

	// Verify cross-checks every showdown's winners against the oracle evaluator
	Verify bool

	Timeout time.Duration
	Cache   *poker.ScoreCache
	Logger  *log.Logger
}

// Mismatch records a showdown where the engine and the oracle disagreed
type Mismatch struct {
	Hand   int
	Seed   int64
	Board  []poker.Card
	Hands  map[string][]poker.Card
	Engine []string
	Oracle []string
}

// Report is the outcome of a simulation run
type Report struct {
	Seats      []string
	Stats      *statistics.Statistics
	Mismatches []Mismatch
	CacheHits  int64
	CacheSize  int
	CacheCap   int
	Elapsed    time.Duration
}

// Simulator runs batches of independent hands
type Simulator struct {
	config    Config
	evaluator *poker.Evaluator
	ids       *handid.Generator
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Mode == "" {
		config.Mode = ModeShowdown
	}
	if config.Track == "" && len(config.Seats) > 0 {
		config.Track = config.Seats[0]
	}
	if config.Cache == nil {
		config.Cache = poker.NewScoreCache()
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{
		config:    config,
		evaluator: poker.NewEvaluator(config.Cache),
		ids:       handid.NewGenerator(nil, nil),
	}
}

func (s *Simulator) validate() error {
	if s.config.Hands < 1 {
		return fmt.Errorf("hands must be positive, got %d", s.config.Hands)
	}
	if len(s.config.Seats) < 2 {
		return fmt.Errorf("simulation needs at least 2 seats, got %d", len(s.config.Seats))
	}
	if len(s.config.Seats)*2+5 > 52 {
		return fmt.Errorf("too many seats for one deck: %d", len(s.config.Seats))
	}
	if !slices.Contains(s.config.Seats, s.config.Track) {
		return fmt.Errorf("tracked seat %q is not seated", s.config.Track)
	}
	switch s.config.Mode {
	case ModeShowdown, ModeTable:
	default:
		return fmt.Errorf("unknown mode %q", s.config.Mode)
	}
	if s.config.Mode == ModeTable && s.config.StartingBalance < s.config.Ante {
		return fmt.Errorf("starting balance %d does not cover ante %d", s.config.StartingBalance, s.config.Ante)
	}
	return nil
}

// Run plays every hand across the worker pool and aggregates the results
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	hitsBefore := s.config.Cache.Hits()

	var (
		mu         sync.Mutex
		stats      = statistics.New()
		mismatches []Mismatch
	)

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for n := range s.config.Hands {
			select {
			case jobs <- n:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := range s.config.Workers {
		g.Go(func() error {
			local := statistics.New()
			var found []Mismatch
			for n := range jobs {
				result, mismatch, err := s.playHand(ctx, n)
				if err != nil {
					return fmt.Errorf("hand %d (seed %d): %w", n, randutil.Derive(s.config.Seed, n), err)
				}
				local.Add(result)
				if mismatch != nil {
					found = append(found, *mismatch)
				}
			}
			s.config.Logger.Debug("Worker finished", "worker", w, "hands", local.Hands)

			mu.Lock()
			defer mu.Unlock()
			stats.Merge(local)
			mismatches = append(mismatches, found...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Validate statistics before returning
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].Hand < mismatches[j].Hand })

	report := &Report{
		Seats:      s.config.Seats,
		Stats:      stats,
		Mismatches: mismatches,
		CacheHits:  s.config.Cache.Hits() - hitsBefore,
		CacheSize:  s.config.Cache.Len(),
		CacheCap:   s.config.Cache.Cap(),
		Elapsed:    time.Since(start),
	}
	s.config.Logger.Info("Simulation complete",
		"hands", stats.Hands,
		"workers", s.config.Workers,
		"mode", s.config.Mode,
		"mismatches", len(mismatches),
		"elapsed", report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// playHand produces hand n from its own seeded generator
func (s *Simulator) playHand(ctx context.Context, n int) (statistics.HandResult, *Mismatch, error) {
	if err := ctx.Err(); err != nil {
		return statistics.HandResult{}, nil, err
	}
	seed := randutil.Derive(s.config.Seed, n)
	rng := randutil.New(seed)

	var (
		hr  *table.HandResult
		err error
	)
	switch s.config.Mode {
	case ModeTable:
		hr, err = s.playTableHand(ctx, rng)
	default:
		hr, err = s.dealShowdown(rng)
	}
	if err != nil {
		return statistics.HandResult{}, nil, err
	}
	if hr.Result.Error {
		return statistics.HandResult{}, nil, fmt.Errorf("showdown failed: %s", hr.Result.Notify)
	}

	result := statistics.HandResult{
		Seed:     seed,
		Net:      float64(hr.Net(s.config.Track)),
		Showdown: hr.Showdown,
		Pot:      hr.Pot,
		Winners:  hr.Result.WinnerIDs(),
	}
	if !hr.Showdown {
		return result, nil, nil
	}
	result.Category = hr.Result.Winners[0].Category
	result.PotSplit = hr.Result.PotSplit
	result.KickerTie = hr.Result.KickerCardTie
	result.BoardPlays = hr.Result.BoardPlays

	if !s.config.Verify {
		return result, nil, nil
	}
	mismatch, err := s.verify(n, seed, hr)
	if err != nil {
		return statistics.HandResult{}, nil, err
	}
	result.Verified = true
	result.Mismatch = mismatch != nil
	return result, mismatch, nil
}

// dealShowdown deals two cards to every seat and a full board, then resolves
// with every seat active. Each seat antes into the pot.
func (s *Simulator) dealShowdown(rng *rand.Rand) (*table.HandResult, error) {
	deck := poker.NewDeck(rng)
	hands := make(map[string][]poker.Card, len(s.config.Seats))
	players := make(map[string]poker.PlayerData, len(s.config.Seats))
	contributions := make(map[string]int, len(s.config.Seats))
	for _, id := range s.config.Seats {
		hole, err := deck.DealN(2)
		if err != nil {
			return nil, err
		}
		hands[id] = hole
		players[id] = poker.PlayerData{Active: true, Hand: hole}
		contributions[id] = s.config.Ante
	}
	board, err := deck.DealN(5)
	if err != nil {
		return nil, err
	}

	result, err := s.evaluator.GetWinnerOrdered(s.config.Seats, players, board)
	if err != nil {
		return nil, err
	}
	pot := s.config.Ante * len(s.config.Seats)
	return &table.HandResult{
		Board:         board,
		Hands:         hands,
		Reached:       table.Showdown,
		Showdown:      true,
		Result:        result,
		Pot:           pot,
		Contributions: contributions,
		Payouts:       table.SplitPot(pot, result.WinnerIDs()),
		Highlight:     result.UsedCards(),
	}, nil
}

// playTableHand plays one hand between random agents at a fresh table
func (s *Simulator) playTableHand(ctx context.Context, rng *rand.Rand) (*table.HandResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	seats := make([]*table.Seat, len(s.config.Seats))
	for i, id := range s.config.Seats {
		seats[i] = &table.Seat{
			ID:      id,
			Name:    id,
			Agent:   table.NewRandomAgent(rng, s.config.Thresholds, nil, 0, s.config.Logger),
			Balance: s.config.StartingBalance,
		}
	}
	opts := table.Options{
		Ante:         s.config.Ante,
		MaxRaise:     s.config.MaxRaise,
		MessageLimit: 1,
	}
	tbl, err := table.New(opts, seats, rng, s.evaluator, s.ids, s.config.Logger)
	if err != nil {
		return nil, err
	}

	hr, err := tbl.PlayHand(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("hand timed out after %v: %w", s.config.Timeout, err)
	}
	return hr, err
}

// verify compares the engine's winners with the oracle's for a showdown
func (s *Simulator) verify(n int, seed int64, hr *table.HandResult) (*Mismatch, error) {
	players := make(map[string]poker.PlayerData, len(hr.Hands))
	for id, hole := range hr.Hands {
		players[id] = poker.PlayerData{Active: !slices.Contains(hr.Folded, id), Hand: hole}
	}
	want, err := oracle.Winners(s.config.Seats, players, hr.Board)
	if err != nil {
		return nil, err
	}
	got := hr.Result.WinnerIDs()
	if slices.Equal(want, got) {
		return nil, nil
	}

	s.config.Logger.Warn("Winner mismatch",
		"hand", n,
		"seed", seed,
		"board", poker.FormatCards(hr.Board),
		"engine", got,
		"oracle", want,
		"notify", hr.Result.Notify)
	return &Mismatch{
		Hand:   n,
		Seed:   seed,
		Board:  hr.Board,
		Hands:  hr.Hands,
		Engine: got,
		Oracle: want,
	}, nil
}

// RunSimulation is a convenience function for running a showdown simulation with basic parameters
func RunSimulation(ctx context.Context, hands, workers int, seed int64, seats []string, logger *log.Logger) (*Report, error) {
	config := Config{
		Hands:   hands,
		Workers: workers,
		Seed:    seed,
		Seats:   seats,
		Ante:    10,
		Logger:  logger,
	}

	simulator := New(config)
	return simulator.Run(ctx)
}

// PrintSummary prints a comprehensive summary of simulation results
func PrintSummary(w io.Writer, report *Report, track string) {
	stats := report.Stats
	p := message.NewPrinter(language.English)

	mean := stats.Mean()
	median := stats.Median()
	stdDev := stats.StdDev()
	stdErr := stats.StdError()
	low, high := stats.ConfidenceInterval95()
	p05 := stats.Percentile(0.05)
	p25 := stats.Percentile(0.25)
	p75 := stats.Percentile(0.75)
	p95 := stats.Percentile(0.95)

	p.Fprintf(w, "\n=== FINAL RESULTS ===\n")
	p.Fprintf(w, "Hands played: %d (%d showdowns, %d walkovers)\n",
		stats.Hands, stats.ShowdownHands, stats.Walkovers)

	p.Fprintf(w, "\n=== NET CHIPS FOR %s ===\n", track)
	p.Fprintf(w, "Mean: %.4f chips/hand\n", mean)
	p.Fprintf(w, "Median: %.4f chips/hand\n", median)
	p.Fprintf(w, "Std Dev: %.4f chips\n", stdDev)
	p.Fprintf(w, "Std Error: %.4f chips\n", stdErr)
	p.Fprintf(w, "95%% CI: [%.4f, %.4f] chips/hand\n", low, high)
	p.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n", p05, p25, p75, p95)
	p.Fprintf(w, "Max pot observed: %d chips\n", stats.MaxPot)

	p.Fprintf(w, "\n=== WINNING CATEGORIES ===\n")
	for _, c := range poker.Categories {
		if stats.Categories[c] == 0 {
			continue
		}
		p.Fprintf(w, "%-16s %9d (%.2f%%)\n", c, stats.Categories[c], stats.CategoryRate(c)*100)
	}

	p.Fprintf(w, "\n=== DRAWS ===\n")
	p.Fprintf(w, "Split pots: %d, kicker draws: %d, board plays: %d\n",
		stats.Draws, stats.KickerDraws, stats.BoardDraws)

	p.Fprintf(w, "\n=== SEATS ===\n")
	for _, id := range report.Seats {
		var seat statistics.SeatStats
		if s, ok := stats.Seats[id]; ok {
			seat = *s
		}
		p.Fprintf(w, "%-10s wins %8d  splits %8d  share %.2f%%\n",
			id, seat.Wins, seat.Splits, stats.WinShare(id)*100)
	}
	chi2, pValue := stats.SeatFairness(report.Seats)
	p.Fprintf(w, "Seat fairness: chi2=%.3f p=%.4f\n", chi2, pValue)

	p.Fprintf(w, "\n=== ENGINE ===\n")
	p.Fprintf(w, "Cache: %d of %d entries, %d hits\n", report.CacheSize, report.CacheCap, report.CacheHits)
	if stats.Verified > 0 {
		p.Fprintf(w, "Verified: %d showdowns, %d mismatches\n", stats.Verified, stats.Mismatches)
	}
	p.Fprintf(w, "Elapsed: %v\n", report.Elapsed.Round(time.Millisecond))
}
