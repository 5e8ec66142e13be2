package runner

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/strategy"
)

func build(t *testing.T, counting string, decks int) strategy.Strategy {
	t.Helper()
	s, err := strategy.Build(strategy.Spec{Counting: counting}, decks, 5)
	require.NoError(t, err)
	return s
}

// underBettor always bets below the table minimum
type underBettor struct {
	strategy.Strategy
}

func (underBettor) Bet(strategy.BetState) int { return 1 }

// gatedStrategy blocks in Bet until the gate is opened
type gatedStrategy struct {
	strategy.Strategy
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
}

func newGated(s strategy.Strategy) *gatedStrategy {
	return &gatedStrategy{
		Strategy: s,
		entered:  make(chan struct{}),
		gate:     make(chan struct{}),
	}
}

func (g *gatedStrategy) Bet(state strategy.BetState) int {
	g.once.Do(func() { close(g.entered) })
	<-g.gate
	return g.Strategy.Bet(state)
}
