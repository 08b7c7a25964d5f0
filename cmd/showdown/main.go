package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-showdown/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every subcommand
type Globals struct {
	Config  string `short:"c" default:"showdown.hcl" type:"path" help:"HCL configuration file (defaults apply when missing)"`
	Debug   bool   `help:"Enable debug logging"`
	NoColor bool   `help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Eval     EvalCmd          `cmd:"" help:"Classify a hand of 5 to 7 cards"`
	Winner   WinnerCmd        `cmd:"" help:"Resolve a showdown between seats"`
	Play     PlayCmd          `cmd:"" help:"Play hands at a table against random opponents"`
	Simulate SimulateCmd      `cmd:"" help:"Resolve many random showdowns concurrently"`
}

// loadConfig loads and validates the configuration file
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}

// logger builds the logger for cfg; the closer releases any log file
func (g *Globals) logger(cfg *config.Config, prefix string) (*log.Logger, io.Closer, error) {
	return cfg.Log.NewLogger(os.Stderr, prefix)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("showdown"),
		kong.Description("Texas Hold'em hand evaluation and showdown resolution"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
