package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/strategy"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testRules() config.Table {
	rules := config.DefaultTable()
	rules.MinBet = 10
	rules.PlayerBalance = 100
	rules.TableBalance = 1000
	return rules
}

type alwaysInsure struct{}

func (alwaysInsure) TakeInsurance(float64) bool { return true }

func testStrategy(t *testing.T, decks int, bettor strategy.Bettor, opts ...strategy.Option) *strategy.PlayerStrategy {
	t.Helper()
	counter, err := strategy.NewCounter(strategy.HiLo, decks)
	require.NoError(t, err)
	if bettor == nil {
		bettor = strategy.FlatBetting{Units: 1}
	}
	s, err := strategy.New(counter, strategy.NewBasicStrategy(), bettor, opts...)
	require.NoError(t, err)
	return s
}

// stackedRound seats a player holding balance at a table dealing cards in
// order and places bet
func stackedRound(t *testing.T, rules config.Table, cards string, bet int, opts ...strategy.Option) (*Table, *Player) {
	t.Helper()
	table := NewTable(rules, deck.NewStackedShoe(deck.MustParseCards(cards), 1), quietLogger())
	player := NewPlayer(rules.PlayerBalance, testStrategy(t, 1, nil, opts...))
	require.NoError(t, player.PlaceBet(bet))
	return table, player
}

type fixedBettor int

func (f fixedBettor) Bet(strategy.BetState) int { return int(f) }
