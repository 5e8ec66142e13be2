package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/deck"
)

func tableState(hand, up string) TableState {
	cards := deck.MustParseCards(hand)
	hard, ace := 0, false
	for _, c := range cards {
		hard += c.Value()
		ace = ace || c.IsAce()
	}
	soft := 0
	if ace && hard+10 <= 21 {
		soft = hard + 10
	}
	return TableState{
		Hand:         cards,
		HardTotal:    hard,
		SoftTotal:    soft,
		Bet:          10,
		Balance:      100,
		NumDecks:     6,
		DealerUpCard: deck.MustParseCards(up)[0],
	}
}

func withCounts(s TableState, running, trueCount float64) TableState {
	s.RunningCount = running
	s.TrueCount = trueCount
	return s
}

var (
	twoCardOptions   = NewActionSet(Hit, Stand, DoubleDown)
	pairOptions      = NewActionSet(Hit, Stand, DoubleDown, Split)
	surrenderOptions = NewActionSet(Hit, Stand, DoubleDown, Surrender)
	drawnOptions     = NewActionSet(Hit, Stand)
)

func TestBasicStrategy(t *testing.T) {
	tests := []struct {
		name    string
		hand    string
		up      string
		options ActionSet
		want    Action
	}{
		{"hard 16 vs ten hits", "Ts6h", "Kd", twoCardOptions, Hit},
		{"hard 11 doubles", "6s5h", "6d", twoCardOptions, DoubleDown},
		{"hard 11 vs ace doubles", "6s5h", "Ad", twoCardOptions, DoubleDown},
		{"hard 11 without double hits", "3s3h5d", "6d", drawnOptions, Hit},
		{"hard 12 vs 4 stands", "Ts2h", "4d", twoCardOptions, Stand},
		{"hard 12 vs 2 hits", "Ts2h", "2d", twoCardOptions, Hit},
		{"hard 9 vs 3 doubles", "5s4h", "3d", twoCardOptions, DoubleDown},
		{"hard 17 stands", "Ts7h", "Ad", twoCardOptions, Stand},
		{"soft 18 vs 4 doubles", "As7h", "4d", twoCardOptions, DoubleDown},
		{"soft 18 vs 4 stands when double unavailable", "As4h3d", "4d", drawnOptions, Stand},
		{"soft 18 vs 9 hits", "As7h", "9d", twoCardOptions, Hit},
		{"soft 17 vs 3 without double hits", "As2h4d", "3d", drawnOptions, Hit},
		{"soft 20 stands", "As9h", "6d", twoCardOptions, Stand},
		{"aces split", "AsAh", "Td", pairOptions, Split},
		{"eights split", "8s8h", "Ad", pairOptions, Split},
		{"tens stand", "TsKh", "6d", pairOptions, Stand},
		{"fives double", "5s5h", "6d", pairOptions, DoubleDown},
		{"nines stand vs 7", "9s9h", "7d", pairOptions, Stand},
		{"nines split vs 8", "9s9h", "8d", pairOptions, Split},
		{"aces without split play soft 12", "AsAh", "6d", twoCardOptions, Hit},
		{"16 vs ten surrenders", "Ts6h", "Td", surrenderOptions, Surrender},
		{"15 vs 9 hits", "Ts5h", "9d", surrenderOptions, Hit},
		{"eights split rather than surrender", "8s8h", "Td", pairOptions.With(Surrender), Split},
	}

	b := NewBasicStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Decide(tableState(tt.hand, tt.up), tt.options)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s vs %s with %s", tt.hand, tt.up, tt.options)
		})
	}
}

func TestBasicStrategyDeterministic(t *testing.T) {
	b := NewBasicStrategy()
	state := tableState("Ts6h", "Td")

	first, err := b.Decide(state, twoCardOptions)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		got, err := b.Decide(state, twoCardOptions)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestBasicStrategyNoValidOption(t *testing.T) {
	b := NewBasicStrategy()
	_, err := b.Decide(tableState("Ts2h", "9d"), NewActionSet(Split))
	require.ErrorIs(t, err, ErrNoValidOption)
}

func TestH17BasicStrategy(t *testing.T) {
	b := NewH17BasicStrategy()

	got, err := b.Decide(tableState("As7h", "2d"), twoCardOptions)
	require.NoError(t, err)
	assert.Equal(t, DoubleDown, got)

	got, err = b.Decide(tableState("Ts7h", "Ad"), surrenderOptions)
	require.NoError(t, err)
	assert.Equal(t, Surrender, got)

	got, err = b.Decide(tableState("Ts7h", "Ad"), twoCardOptions)
	require.NoError(t, err)
	assert.Equal(t, Stand, got)
}

func TestDeviationStrategy(t *testing.T) {
	tests := []struct {
		name    string
		hand    string
		up      string
		running float64
		trueCnt float64
		options ActionSet
		want    Action
	}{
		{"16 vs ten stands on positive running count", "Ts6h", "Td", 1, 0.2, twoCardOptions, Stand},
		{"16 vs ten hits at zero running count", "Ts6h", "Td", 0, 0, twoCardOptions, Hit},
		{"15 vs ten stands at +4", "Ts5h", "Td", 20, 4, twoCardOptions, Stand},
		{"12 vs 4 hits below zero", "Ts2h", "4d", -3, -1, twoCardOptions, Hit},
		{"12 vs 4 stands at zero", "Ts2h", "4d", 0, 0, twoCardOptions, Stand},
		{"12 vs 2 stands at +3", "Ts2h", "2d", 15, 3, twoCardOptions, Stand},
		{"tens split vs 6 at +4", "TsTh", "6d", 20, 4, pairOptions, Split},
		{"tens stand vs 6 at +3", "TsTh", "6d", 15, 3, pairOptions, Stand},
		{"11 vs ace hits below +1", "6s5h", "Ad", 0, 0.5, twoCardOptions, Hit},
		{"11 vs ace doubles at +1", "6s5h", "Ad", 5, 1, twoCardOptions, DoubleDown},
		{"10 vs ten doubles at +4", "6s4h", "Td", 20, 4, twoCardOptions, DoubleDown},
		{"10 vs ten hits without double", "3s3h4d", "Td", 20, 4, drawnOptions, Hit},
		{"15 vs ten surrenders at zero", "Ts5h", "Td", 0, 0, surrenderOptions, Surrender},
		{"15 vs ten plays on below zero", "Ts5h", "Td", -2, -0.5, surrenderOptions, Hit},
		{"14 vs ten surrenders at +3", "Ts4h", "Td", 15, 3, surrenderOptions, Surrender},
		{"eights still split on positive count", "8s8h", "Td", 10, 2, pairOptions, Split},
	}

	d := NewS17DeviationStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := withCounts(tableState(tt.hand, tt.up), tt.running, tt.trueCnt)
			got, err := d.Decide(state, tt.options)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestH17DeviationDoublesElevenVsAce(t *testing.T) {
	d := NewH17DeviationStrategy()
	state := withCounts(tableState("6s5h", "Ad"), -5, -1)

	got, err := d.Decide(state, twoCardOptions)
	require.NoError(t, err)
	assert.Equal(t, DoubleDown, got)
}

func TestActionSet(t *testing.T) {
	s := NewActionSet(Hit, Stand)
	assert.True(t, s.Contains(Hit))
	assert.True(t, s.Contains(Stand))
	assert.False(t, s.Contains(Split))

	s = s.With(Split)
	assert.Equal(t, []Action{Hit, Stand, Split}, s.Actions())
	assert.Equal(t, "{hit, stand, split}", s.String())
}
