// Package simulator plays repeated games of one strategy against its own
// shoe and reports each game as a summary delta.
package simulator

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/randutil"
	"github.com/lox/blackjacksim/internal/statistics"
	"github.com/lox/blackjacksim/internal/strategy"
)

// Config holds configuration for running simulations
type Config struct {
	Table  config.Table
	Hands  int
	Runs   int
	Seed   int64
	Logger *log.Logger
}

// Simulator owns the shoe, table and player for one strategy. It is not
// safe for concurrent use.
type Simulator struct {
	config   Config
	strategy strategy.Strategy
	table    *game.Table
	player   *game.Player
	game     *game.Game
	logger   *log.Logger
}

// New creates a simulator for s. The shoe is shuffled from cfg.Seed.
func New(cfg Config, s strategy.Strategy) *Simulator {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	logger := cfg.Logger.WithPrefix("simulator").With("strategy", s.Label())

	shoe := deck.NewShoe(cfg.Table.Decks, cfg.Table.Penetration, randutil.New(cfg.Seed))
	return newWithShoe(cfg, s, shoe, logger)
}

func newWithShoe(cfg Config, s strategy.Strategy, shoe *deck.Shoe, logger *log.Logger) *Simulator {
	table := game.NewTable(cfg.Table, shoe, logger)
	player := game.NewPlayer(cfg.Table.PlayerBalance, s)
	return &Simulator{
		config:   cfg,
		strategy: s,
		table:    table,
		player:   player,
		game:     game.New(table, player, cfg.Hands, logger),
		logger:   logger,
	}
}

// Label returns the strategy label
func (s *Simulator) Label() string {
	return s.strategy.Label()
}

// RunSingle plays one game and returns its summary. Player and house
// balances are restored afterwards; the shoe carries on where it stopped.
func (s *Simulator) RunSingle(ctx context.Context) (*statistics.Summary, error) {
	defer func() {
		s.player.Balance = s.config.Table.PlayerBalance
		s.table.ResetBalance()
	}()

	result, err := s.game.Run(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(s.strategy.Label(), result), nil
}

// Run plays cfg.Runs games, passing each summary to emit. It stops at the
// first error from a game or from emit.
func (s *Simulator) Run(ctx context.Context, emit func(*statistics.Summary) error) error {
	for i := 0; i < s.config.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary, err := s.RunSingle(ctx)
		if err != nil {
			return fmt.Errorf("simulation %d: %w", i+1, err)
		}

		s.logger.Debug("Simulation complete",
			"run", i+1,
			"wins", summary.Wins,
			"pushes", summary.Pushes,
			"losses", summary.Losses,
			"winnings", summary.Winnings,
			"blackjacks", summary.Blackjacks,
			"ended_early", summary.EarlyEndings == 1)

		if err := emit(summary); err != nil {
			return err
		}
	}
	return nil
}

// Summarize converts a game result into a one-simulation summary
func Summarize(label string, r game.Result) *statistics.Summary {
	summary := &statistics.Summary{
		Label:             label,
		Simulations:       1,
		Wins:              r.Wins,
		Pushes:            r.Pushes,
		Losses:            r.Losses,
		Winnings:          r.Winnings,
		Blackjacks:        r.Blackjacks,
		HandsPlayed:       r.HandsPlayed(),
		Surrenders:        r.Surrenders,
		Doubles:           r.Doubles,
		Splits:            r.Splits,
		InsuranceTaken:    r.InsuranceTaken,
		InsuranceWinnings: r.InsuranceNet,
	}
	if r.EndedEarly {
		summary.EarlyEndings = 1
	}
	for _, net := range r.RoundNets {
		summary.Rounds.Add(net)
	}
	return summary
}
