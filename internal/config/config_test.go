package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"player", "ai1", "ai2", "ai3"}, cfg.SeatOrder())
	assert.Equal(t, DefaultAnte, cfg.Table.Ante)
	assert.Equal(t, DefaultMessageLimit, cfg.Table.MessageLimit)
	assert.InDelta(t, DefaultFoldThreshold, *cfg.AI.FoldThreshold, 1e-9)
	assert.Equal(t, DefaultCacheSize, cfg.Simulation.CacheSize)
	assert.Equal(t, "text", cfg.Log.Format)

	delay, err := cfg.ThinkDelay()
	require.NoError(t, err)
	assert.Equal(t, time.Second, delay)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "showdown.hcl")
	src := `
table {
  starting_balance = 500
  ante             = 5
  think_delay      = "250ms"
}

seat "alice" {
  name = "Alice"
  kind = "human"
}

seat "bob" {}

ai {
  fold_threshold = 0
}

simulation {
  hands      = 200
  workers    = 2
  seed       = 9
  cache_size = 5000
}

log {
  level  = "debug"
  format = "json"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500, cfg.Table.StartingBalance)
	assert.Equal(t, 5, cfg.Table.Ante)
	assert.Equal(t, DefaultMaxRaise, cfg.Table.MaxRaise)
	assert.Equal(t, []string{"alice", "bob"}, cfg.SeatOrder())
	assert.Equal(t, "Alice", cfg.Seats[0].Name)
	assert.Equal(t, "bob", cfg.Seats[1].Name)
	assert.Equal(t, KindRandom, cfg.Seats[1].Kind)
	assert.Zero(t, *cfg.AI.FoldThreshold)
	assert.InDelta(t, DefaultRaiseThreshold, *cfg.AI.RaiseThreshold, 1e-9)
	assert.Equal(t, int64(9), cfg.Simulation.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5000, cfg.Simulation.CacheSize)

	delay, err := cfg.ThinkDelay()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, delay)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte(`table {`), "broken.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`table { ante = "lots" }`), "typed.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`unknown_block {}`), "unknown.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{"one seat", `seat "solo" {}`},
		{"five seats", `seat "a" {}
seat "b" {}
seat "c" {}
seat "d" {}
seat "e" {}`},
		{"duplicate seat", `seat "a" {}
seat "a" {}`},
		{"two humans", `seat "a" { kind = "human" }
seat "b" { kind = "human" }`},
		{"unknown kind", `seat "a" { kind = "robot" }
seat "b" {}`},
		{"threshold above one", `ai { fold_threshold = 1.5 }`},
		{"raise below fold", `ai {
  fold_threshold  = 0.5
  raise_threshold = 0.2
}`},
		{"ante above balance", `table {
  starting_balance = 10
  ante             = 20
}`},
		{"bad delay", `table { think_delay = "soon" }`},
		{"negative delay", `table { think_delay = "-1s" }`},
		{"bad log level", `log { level = "loud" }`},
		{"negative workers", `simulation { workers = -1 }`},
		{"negative cache size", `simulation { cache_size = -1 }`},
		{"bad log format", `log { format = "xml" }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Parse([]byte(tt.src), "test.hcl")
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	settings := &LogSettings{Level: "warn"}
	logger, closer, err := settings.NewLogger(&buf, "TEST")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, log.WarnLevel, logger.GetLevel())
	logger.Info("hidden")
	logger.Warn("shown", "hand", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "TEST")
}

func TestNewLoggerFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "showdown.log")
	settings := &LogSettings{Level: "info", File: path}
	logger, closer, err := settings.NewLogger(nil, "MAIN")
	require.NoError(t, err)
	logger.Info("hand complete", "winner", "ai1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "winner=ai1")
}

func TestNewLoggerFormats(t *testing.T) {
	t.Parallel()
	tests := []struct {
		format string
		expect string
	}{
		{"json", `"winner":"ai1"`},
		{"logfmt", `winner=ai1`},
		{"text", `winner=ai1`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			settings := &LogSettings{Level: "info", Format: tt.format}
			logger, closer, err := settings.NewLogger(&buf, "")
			require.NoError(t, err)
			defer closer.Close()

			logger.Info("hand complete", "winner", "ai1")
			assert.Contains(t, buf.String(), tt.expect)
			assert.Contains(t, buf.String(), "hand complete")
		})
	}
}
