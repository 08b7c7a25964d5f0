package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-showdown/poker"
)

// Seat kinds
const (
	KindHuman  = "human"
	KindRandom = "random"
)

// Config represents the complete showdown configuration
type Config struct {
	Table      *TableSettings      `hcl:"table,block"`
	Seats      []SeatConfig        `hcl:"seat,block"`
	AI         *AISettings         `hcl:"ai,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Log        *LogSettings        `hcl:"log,block"`
}

// TableSettings contains table-level rules
type TableSettings struct {
	StartingBalance int    `hcl:"starting_balance,optional"`
	Ante            int    `hcl:"ante,optional"`
	MaxRaise        int    `hcl:"max_raise,optional"`
	ThinkDelay      string `hcl:"think_delay,optional"`
	MessageLimit    int    `hcl:"message_limit,optional"`
}

// SeatConfig defines one seat. Seats are dealt and resolved in file order.
type SeatConfig struct {
	ID   string `hcl:"id,label"`
	Name string `hcl:"name,optional"`
	Kind string `hcl:"kind,optional"`
}

// AISettings holds the random agent's decision thresholds
type AISettings struct {
	FoldThreshold      *float64 `hcl:"fold_threshold,optional"`
	RaiseThreshold     *float64 `hcl:"raise_threshold,optional"`
	OpenRaiseThreshold *float64 `hcl:"open_raise_threshold,optional"`
}

// SimulationSettings configures batch runs
type SimulationSettings struct {
	Hands     int   `hcl:"hands,optional"`
	Workers   int   `hcl:"workers,optional"`
	Seed      int64 `hcl:"seed,optional"`
	CacheSize int   `hcl:"cache_size,optional"`
}

// LogSettings configures logging
type LogSettings struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
	File   string `hcl:"file,optional"`
}

// Default values
const (
	DefaultStartingBalance    = 100
	DefaultAnte               = 10
	DefaultMaxRaise           = 200
	DefaultThinkDelay         = time.Second
	DefaultMessageLimit       = 4
	DefaultFoldThreshold      = 0.15
	DefaultRaiseThreshold     = 0.30
	DefaultOpenRaiseThreshold = 0.15
	DefaultHands              = 10000
	DefaultWorkers            = 4
	DefaultCacheSize          = poker.DefaultCacheSize
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// DefaultSeats is the four-seat table of one human and three random opponents
func DefaultSeats() []SeatConfig {
	return []SeatConfig{
		{ID: "player", Name: "Player", Kind: KindHuman},
		{ID: "ai1", Name: "AI Opponent 1", Kind: KindRandom},
		{ID: "ai2", Name: "AI Opponent 2", Kind: KindRandom},
		{ID: "ai3", Name: "AI Opponent 3", Kind: KindRandom},
	}
}

// Default returns the default configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse decodes configuration from HCL source
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Table.StartingBalance == 0 {
		c.Table.StartingBalance = DefaultStartingBalance
	}
	if c.Table.Ante == 0 {
		c.Table.Ante = DefaultAnte
	}
	if c.Table.MaxRaise == 0 {
		c.Table.MaxRaise = DefaultMaxRaise
	}
	if c.Table.ThinkDelay == "" {
		c.Table.ThinkDelay = DefaultThinkDelay.String()
	}
	if c.Table.MessageLimit == 0 {
		c.Table.MessageLimit = DefaultMessageLimit
	}

	if len(c.Seats) == 0 {
		c.Seats = DefaultSeats()
	}
	for i := range c.Seats {
		if c.Seats[i].Name == "" {
			c.Seats[i].Name = c.Seats[i].ID
		}
		if c.Seats[i].Kind == "" {
			c.Seats[i].Kind = KindRandom
		}
	}

	if c.AI == nil {
		c.AI = &AISettings{}
	}
	if c.AI.FoldThreshold == nil {
		c.AI.FoldThreshold = ptr(DefaultFoldThreshold)
	}
	if c.AI.RaiseThreshold == nil {
		c.AI.RaiseThreshold = ptr(DefaultRaiseThreshold)
	}
	if c.AI.OpenRaiseThreshold == nil {
		c.AI.OpenRaiseThreshold = ptr(DefaultOpenRaiseThreshold)
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationSettings{}
	}
	if c.Simulation.Hands == 0 {
		c.Simulation.Hands = DefaultHands
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = DefaultWorkers
	}
	if c.Simulation.CacheSize == 0 {
		c.Simulation.CacheSize = DefaultCacheSize
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func ptr[T any](v T) *T { return &v }

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive")
	}
	if c.Table.Ante < 0 || c.Table.Ante > c.Table.StartingBalance {
		return fmt.Errorf("ante must be between 0 and the starting balance")
	}
	if c.Table.MaxRaise <= 0 {
		return fmt.Errorf("max raise must be positive")
	}
	if _, err := c.ThinkDelay(); err != nil {
		return err
	}
	if c.Table.MessageLimit < 1 {
		return fmt.Errorf("message limit must be at least 1")
	}

	if len(c.Seats) < 2 || len(c.Seats) > 4 {
		return fmt.Errorf("table needs 2 to 4 seats, got %d", len(c.Seats))
	}
	ids := make(map[string]bool, len(c.Seats))
	humans := 0
	for _, seat := range c.Seats {
		if ids[seat.ID] {
			return fmt.Errorf("seat %s: duplicate id", seat.ID)
		}
		ids[seat.ID] = true
		switch seat.Kind {
		case KindHuman:
			humans++
		case KindRandom:
		default:
			return fmt.Errorf("seat %s: invalid kind %s", seat.ID, seat.Kind)
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one human seat is allowed, got %d", humans)
	}

	for name, v := range map[string]float64{
		"fold_threshold":       *c.AI.FoldThreshold,
		"raise_threshold":      *c.AI.RaiseThreshold,
		"open_raise_threshold": *c.AI.OpenRaiseThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("ai %s must be between 0 and 1, got %g", name, v)
		}
	}
	if *c.AI.RaiseThreshold < *c.AI.FoldThreshold {
		return fmt.Errorf("ai raise_threshold must not be below fold_threshold")
	}

	if c.Simulation.Hands < 1 {
		return fmt.Errorf("simulation hands must be positive")
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation workers must be positive")
	}
	if c.Simulation.CacheSize < 1 {
		return fmt.Errorf("simulation cache_size must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}

// ThinkDelay returns the parsed AI thinking delay
func (c *Config) ThinkDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Table.ThinkDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid think_delay %q: %w", c.Table.ThinkDelay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("think_delay must not be negative")
	}
	return d, nil
}

// SeatOrder returns seat ids in the order they are dealt and resolved
func (c *Config) SeatOrder() []string {
	order := make([]string, len(c.Seats))
	for i, seat := range c.Seats {
		order[i] = seat.ID
	}
	return order
}
