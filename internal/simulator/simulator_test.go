package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-showdown/internal/table"
	"github.com/lox/holdem-showdown/poker"
)

var fourSeats = []string{"player", "ai1", "ai2", "ai3"}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestNew(t *testing.T) {
	t.Parallel()
	sim := New(Config{Hands: 100, Seed: 12345, Seats: fourSeats})

	require.NotNil(t, sim)
	assert.Equal(t, 1, sim.config.Workers)
	assert.Equal(t, ModeShowdown, sim.config.Mode)
	assert.Equal(t, "player", sim.config.Track)
	assert.NotNil(t, sim.config.Cache)
	assert.NotNil(t, sim.config.Logger)
}

func TestRunShowdownMode(t *testing.T) {
	t.Parallel()
	cache := poker.NewScoreCache()
	sim := New(Config{
		Hands:   500,
		Workers: 4,
		Seed:    7,
		Seats:   fourSeats,
		Ante:    10,
		Verify:  true,
		Cache:   cache,
		Logger:  testLogger(),
	})

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	stats := report.Stats
	assert.Equal(t, 500, stats.Hands)
	assert.Equal(t, 500, stats.ShowdownHands)
	assert.Zero(t, stats.Walkovers)
	assert.Equal(t, 500, stats.Verified)
	assert.Zero(t, stats.Mismatches)
	assert.Empty(t, report.Mismatches)
	assert.Equal(t, 40, stats.MaxPot)
	assert.Positive(t, report.CacheSize)
	assert.Equal(t, cache.Len(), report.CacheSize)
	assert.Equal(t, fourSeats, report.Seats)

	assert.Positive(t, stats.Categories[poker.Pair]+stats.Categories[poker.TwoPair])
	for _, id := range fourSeats {
		assert.Contains(t, stats.Seats, id)
	}
}

func TestRunKeepsCacheBounded(t *testing.T) {
	t.Parallel()
	cache := poker.NewScoreCacheSize(2000)
	sim := New(Config{
		Hands:   400,
		Workers: 4,
		Seed:    11,
		Seats:   fourSeats,
		Verify:  true,
		Cache:   cache,
		Logger:  testLogger(),
	})

	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Stats.Mismatches)
	assert.Equal(t, 2000, report.CacheCap)
	assert.LessOrEqual(t, report.CacheSize, 2000)
	assert.LessOrEqual(t, cache.Len(), 2000)
	// 400 four-seat hands score far more than 2000 distinct hands, so eviction ran
	assert.Equal(t, 2000, cache.Len())
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()
	run := func(workers int) *Report {
		sim := New(Config{Hands: 200, Workers: workers, Seed: 42, Seats: fourSeats, Ante: 10, Logger: testLogger()})
		report, err := sim.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	one, many := run(1), run(8)
	assert.Equal(t, one.Stats.Categories, many.Stats.Categories)
	assert.Equal(t, one.Stats.Draws, many.Stats.Draws)
	assert.Equal(t, one.Stats.SumNet, many.Stats.SumNet)
	assert.Equal(t, one.Stats.Median(), many.Stats.Median())
	for _, id := range fourSeats {
		assert.Equal(t, one.Stats.Seats[id].Wins, many.Stats.Seats[id].Wins, id)
	}
}

func TestRunTableMode(t *testing.T) {
	t.Parallel()
	sim := New(Config{
		Hands:           200,
		Workers:         3,
		Seed:            3,
		Mode:            ModeTable,
		Seats:           fourSeats,
		Track:           "ai2",
		StartingBalance: 100,
		Ante:            10,
		MaxRaise:        200,
		Thresholds:      table.DefaultThresholds,
		Verify:          true,
		Timeout:         5 * time.Second,
		Logger:          testLogger(),
	})

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	stats := report.Stats
	assert.Equal(t, 200, stats.Hands)
	assert.Positive(t, stats.Walkovers)
	assert.Positive(t, stats.ShowdownHands)
	assert.Equal(t, stats.ShowdownHands, stats.Verified)
	assert.Zero(t, stats.Mismatches)
	assert.LessOrEqual(t, stats.MaxPot, 400)
}

func TestRunValidates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		config Config
	}{
		{"no hands", Config{Seats: fourSeats}},
		{"one seat", Config{Hands: 1, Seats: []string{"player"}}},
		{"unknown tracked seat", Config{Hands: 1, Seats: fourSeats, Track: "ai9"}},
		{"unknown mode", Config{Hands: 1, Seats: fourSeats, Mode: "cash"}},
		{"ante over balance", Config{Hands: 1, Seats: fourSeats, Mode: ModeTable, Ante: 10, StartingBalance: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.config).Run(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Hands: 1000, Workers: 2, Seats: fourSeats, Logger: testLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation_Convenience(t *testing.T) {
	t.Parallel()
	report, err := RunSimulation(context.Background(), 50, 2, 12345, []string{"a", "b"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 50, report.Stats.Hands)

	share := 0.0
	for _, seat := range report.Stats.Seats {
		share += seat.Share
	}
	assert.InDelta(t, 50, share, 1e-9)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()
	report, err := New(Config{Hands: 100, Seed: 1, Seats: fourSeats, Ante: 10, Verify: true, Logger: testLogger()}).
		Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, report, "player")
	out := buf.String()

	assert.Contains(t, out, "Hands played: 100")
	assert.Contains(t, out, "NET CHIPS FOR player")
	assert.Contains(t, out, "WINNING CATEGORIES")
	assert.Contains(t, out, "Verified: 100 showdowns, 0 mismatches")
	assert.Contains(t, out, "Seat fairness: chi2=")
	for _, id := range fourSeats {
		assert.Contains(t, out, id)
	}
}
