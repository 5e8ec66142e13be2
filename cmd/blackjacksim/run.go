package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/report"
	"github.com/lox/blackjacksim/internal/runner"
	"github.com/lox/blackjacksim/internal/strategy"
)

// RunCmd simulates the configured strategies. Flags override the values in
// the configuration file.
type RunCmd struct {
	Config string `short:"c" default:"blackjacksim.hcl" type:"path" help:"HCL configuration file (defaults are used when it does not exist)"`

	Hands         *int     `help:"Maximum hands per simulation"`
	Runs          *int     `short:"n" help:"Simulations per strategy"`
	Seed          *int64   `help:"Master RNG seed (0 picks one from the clock)"`
	Decks         *int     `help:"Decks in the shoe"`
	MinBet        *int     `name:"min-bet" help:"Table minimum bet"`
	Balance       *float64 `help:"Player starting balance"`
	TableBalance  *float64 `name:"table-balance" help:"House bankroll (0 for unlimited)"`
	FailurePolicy string   `name:"failure-policy" help:"What to do when a strategy fails (abort, continue)"`

	System   []string `short:"s" help:"Counting systems to simulate instead of the configured strategies"`
	Decision string   `default:"s17-deviations" help:"Playing policy for --system strategies (basic, basic-h17, s17-deviations, h17-deviations)"`
	Betting  string   `default:"margin" help:"Bet sizing for --system strategies (margin, flat, spread)"`
	Margin   float64  `default:"2" help:"Margin for margin betting"`

	Format   string        `short:"f" help:"Report format (text, json, yaml)"`
	Output   string        `short:"o" type:"path" help:"Write the report to this file instead of stdout"`
	NoColor  bool          `name:"no-color" help:"Disable colour in the text report"`
	LogLevel string        `name:"log-level" help:"Log level (debug, info, warn, error)"`
	Debug    bool          `help:"Enable debug logging"`
	Progress time.Duration `default:"5s" help:"Progress log interval (0 disables)"`
}

func (c *RunCmd) Run() error {
	ctx, cancel := setupSignalHandler(log.Default())
	defer cancel()
	return c.run(ctx, os.Stdout, os.Stderr, quartz.NewReal())
}

func (c *RunCmd) run(ctx context.Context, stdout, stderr io.Writer, clock quartz.Clock) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", c.Config, err)
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	logger, err := c.logger(stderr, cfg.Output.LogLevel)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = clock.Now().UnixNano()
		logger.Info("Using random seed", "seed", cfg.Simulation.Seed)
	} else {
		logger.Info("Using deterministic seed", "seed", cfg.Simulation.Seed)
	}

	strategies, err := buildStrategies(cfg)
	if err != nil {
		return err
	}

	r := runner.New(runner.Config{
		Table:            cfg.Table,
		Simulation:       cfg.Simulation,
		Logger:           logger,
		Clock:            clock,
		ProgressInterval: c.Progress,
	})

	result, runErr := r.Run(ctx, strategies)
	if result == nil {
		return runErr
	}

	rep := report.New(result, cfg.Table, cfg.Simulation, clock.Now())
	var opts []report.Option
	if c.NoColor {
		opts = append(opts, report.WithoutColor())
	}
	reporter := report.NewReporter(stdout, logger, opts...)

	if cfg.Output.File != "" {
		err = reporter.WriteFile(cfg.Output.File, rep, format)
	} else {
		err = reporter.Write(rep, format)
	}
	return errors.Join(runErr, err)
}

// apply overrides cfg with the flags that were given and re-validates it
func (c *RunCmd) apply(cfg *config.Config) error {
	if c.Hands != nil {
		cfg.Simulation.Hands = *c.Hands
	}
	if c.Runs != nil {
		cfg.Simulation.Runs = *c.Runs
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.FailurePolicy != "" {
		cfg.Simulation.FailurePolicy = c.FailurePolicy
	}
	if c.Decks != nil {
		cfg.Table.Decks = *c.Decks
	}
	if c.MinBet != nil {
		cfg.Table.MinBet = *c.MinBet
	}
	if c.Balance != nil {
		cfg.Table.PlayerBalance = *c.Balance
	}
	if c.TableBalance != nil {
		cfg.Table.TableBalance = *c.TableBalance
	}
	if len(c.System) > 0 {
		cfg.Strategies = make([]strategy.Spec, 0, len(c.System))
		for _, name := range c.System {
			cfg.Strategies = append(cfg.Strategies, strategy.Spec{
				Counting: name,
				Decision: c.Decision,
				Betting:  c.Betting,
				Margin:   c.Margin,
			})
		}
	}
	if c.Format != "" {
		cfg.Output.Format = c.Format
	}
	if c.Output != "" {
		cfg.Output.File = c.Output
	}
	if c.LogLevel != "" {
		cfg.Output.LogLevel = c.LogLevel
	}
	if c.Debug {
		cfg.Output.LogLevel = "debug"
	}
	return cfg.Validate()
}

func (c *RunCmd) logger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}), nil
}

func buildStrategies(cfg *config.Config) ([]strategy.Strategy, error) {
	strategies := make([]strategy.Strategy, 0, len(cfg.Strategies))
	for _, spec := range cfg.Strategies {
		s, err := strategy.Build(spec, cfg.Table.Decks, cfg.Table.MinBet)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", spec.Counting, err)
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}
