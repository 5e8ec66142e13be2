package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/deck"
)

type fixedDecider struct {
	action Action
}

func (f fixedDecider) Decide(TableState, ActionSet) (Action, error) {
	return f.action, nil
}

type recordingBettor struct {
	last BetState
}

func (r *recordingBettor) Bet(state BetState) int {
	r.last = state
	return state.MinBet
}

func TestPlayerStrategyCounts(t *testing.T) {
	counter, err := NewCounter(HiLo, 1)
	require.NoError(t, err)
	bettor := &recordingBettor{}

	s, err := New(counter, NewBasicStrategy(), bettor)
	require.NoError(t, err)
	assert.Equal(t, "HiLo", s.Label())

	for _, card := range deck.MustParseCards("2s3s4sKs") {
		s.Update(card)
	}
	assert.Equal(t, 2.0, s.RunningCount())
	assert.InDelta(t, 2.0/(48.0/52.0), s.TrueCount(), 1e-9)

	bet := s.Bet(BetState{Balance: 100, MinBet: 5, NumDecks: 1})
	assert.Equal(t, 5, bet)
	assert.Equal(t, 2.0, bettor.last.RunningCount)
	assert.Equal(t, s.TrueCount(), bettor.last.TrueCount)

	s.Reset()
	assert.Zero(t, s.RunningCount())
}

func TestPlayerStrategyRejectsIllegalDecision(t *testing.T) {
	counter, err := NewCounter(HiLo, 6)
	require.NoError(t, err)

	s, err := New(counter, fixedDecider{action: Split}, FlatBetting{})
	require.NoError(t, err)

	_, err = s.Decide(tableState("Ts6h", "Td"), NewActionSet(Hit, Stand))
	require.ErrorIs(t, err, ErrNoValidOption)

	got, err := s.Decide(tableState("8s8h", "Td"), NewActionSet(Hit, Stand, Split))
	require.NoError(t, err)
	assert.Equal(t, Split, got)
}

func TestPlayerStrategyDecideUsesOwnCounts(t *testing.T) {
	counter, err := NewCounter(HiLo, 6)
	require.NoError(t, err)
	s, err := New(counter, NewS17DeviationStrategy(), MarginBetting{Margin: 2})
	require.NoError(t, err)

	// A stale count in the snapshot is replaced by the counter's.
	state := withCounts(tableState("Ts6h", "Td"), 5, 5)
	got, err := s.Decide(state, twoCardOptions)
	require.NoError(t, err)
	assert.Equal(t, Hit, got)

	s.Update(deck.MustParseCards("5d")[0])
	got, err = s.Decide(state, twoCardOptions)
	require.NoError(t, err)
	assert.Equal(t, Stand, got)
}

func TestPlayerStrategyDefaultInsurance(t *testing.T) {
	counter, err := NewCounter(HiLo, 1)
	require.NoError(t, err)
	s, err := New(counter, NewBasicStrategy(), FlatBetting{})
	require.NoError(t, err)

	assert.False(t, s.TakeInsurance())
	for _, card := range deck.MustParseCards("2s3s4s") {
		s.Update(card)
	}
	assert.True(t, s.TakeInsurance(), "true count %.2f", s.TrueCount())

	s, err = New(counter, NewBasicStrategy(), FlatBetting{}, WithInsurer(NeverInsure{}))
	require.NoError(t, err)
	assert.False(t, s.TakeInsurance())
}

func TestNewRequiresParts(t *testing.T) {
	_, err := New(nil, NewBasicStrategy(), FlatBetting{})
	require.Error(t, err)
}
