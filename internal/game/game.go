package game

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjacksim/internal/strategy"
)

// Result accumulates the totals of one game
type Result struct {
	Rounds         int
	Wins           int
	Pushes         int
	Losses         int
	Winnings       float64
	Blackjacks     int
	Surrenders     int
	Doubles        int
	Splits         int
	InsuranceTaken int
	InsuranceNet   float64
	EndedEarly     bool
	FinalBalance   float64
	// RoundNets holds the player's net result for every round played
	RoundNets []float64
}

// HandsPlayed returns the number of settled sub-hands
func (r Result) HandsPlayed() int {
	return r.Wins + r.Pushes + r.Losses
}

func (r *Result) add(o HandOutcome) {
	r.Rounds++
	r.Wins += o.Wins
	r.Pushes += o.Pushes
	r.Losses += o.Losses
	r.Winnings += o.Net
	r.Blackjacks += o.Blackjacks
	r.Surrenders += o.Surrenders
	r.Doubles += o.Doubles
	r.Splits += o.Splits
	if o.InsuranceTaken {
		r.InsuranceTaken++
	}
	r.InsuranceNet += o.InsuranceNet
	r.RoundNets = append(r.RoundNets, o.Net)
}

// Game plays up to a fixed number of rounds for one player
type Game struct {
	table  *Table
	player *Player
	hands  int
	logger *log.Logger
}

// New returns a game of at most hands rounds
func New(table *Table, player *Player, hands int, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		table:  table,
		player: player,
		hands:  hands,
		logger: logger.WithPrefix("game"),
	}
}

// Table returns the game's table
func (g *Game) Table() *Table {
	return g.table
}

// Player returns the seated player
func (g *Game) Player() *Player {
	return g.player
}

// Run plays rounds until the hand limit is reached or the player can no
// longer bet. Running out of money ends the game early without an error.
// The context is checked between rounds.
func (g *Game) Run(ctx context.Context) (Result, error) {
	var result Result
	minBet := g.table.rules.MinBet

	for i := 0; i < g.hands; i++ {
		if err := ctx.Err(); err != nil {
			result.FinalBalance = g.player.Balance
			return result, err
		}

		if g.player.Balance < float64(minBet) {
			result.EndedEarly = true
			break
		}

		bet := g.player.strategy.Bet(strategy.BetState{
			Balance:      g.player.Balance,
			RunningCount: g.player.strategy.RunningCount(),
			TrueCount:    g.player.strategy.TrueCount(),
			NumDecks:     g.table.shoe.Decks(),
			MinBet:       minBet,
		})
		if bet == 0 {
			result.EndedEarly = true
			break
		}
		if bet < minBet {
			return result, fmt.Errorf("%w: bet %d, minimum %d", ErrBetBelowMinimum, bet, minBet)
		}
		if float64(bet) > g.player.Balance {
			return result, fmt.Errorf("%w: bet %d, balance %.2f", ErrBetExceedsBalance, bet, g.player.Balance)
		}
		if !g.table.CanCover(bet) {
			g.logger.Debug("House cannot cover bet", "bet", bet, "house", g.table.Balance())
			result.EndedEarly = true
			break
		}

		outcome, err := g.playRound(bet)
		if err != nil {
			return result, fmt.Errorf("round %d: %w", i+1, err)
		}
		result.add(outcome)
	}

	result.FinalBalance = g.player.Balance
	g.logger.Debug("Game finished",
		"rounds", result.Rounds,
		"wins", result.Wins,
		"pushes", result.Pushes,
		"losses", result.Losses,
		"winnings", result.Winnings,
		"ended_early", result.EndedEarly)
	return result, nil
}

func (g *Game) playRound(bet int) (HandOutcome, error) {
	defer func() {
		g.player.ResetHands()
		g.table.Reset()
	}()

	if err := g.player.PlaceBet(bet); err != nil {
		return HandOutcome{}, err
	}
	if err := g.table.DealHand(g.player); err != nil {
		return HandOutcome{}, err
	}

	for !g.player.TurnOver() {
		action, err := g.table.Decide(g.player)
		if err != nil {
			return HandOutcome{}, err
		}
		if err := g.table.Play(g.player, action); err != nil {
			return HandOutcome{}, err
		}
	}

	return g.table.FinishHand(g.player)
}
