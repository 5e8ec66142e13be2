package strategy

import (
	"fmt"
	"math"
)

// Bettor sizes the wager for the next round. A return of 0 means the
// minimum bet cannot be met.
type Bettor interface {
	Bet(state BetState) int
}

// MarginBetting bets the table minimum times the rounded-up true count times
// Margin when the count is positive, otherwise the minimum.
type MarginBetting struct {
	Margin float64
}

// Bet implements Bettor
func (m MarginBetting) Bet(state BetState) int {
	if !canBet(state) {
		return 0
	}
	bet := state.MinBet
	if state.TrueCount > 0 {
		bet = int(float64(state.MinBet) * math.Ceil(state.TrueCount) * m.Margin)
	}
	return clampBet(bet, state)
}

func (m MarginBetting) String() string {
	return fmt.Sprintf("margin(%g)", m.Margin)
}

// FlatBetting always bets Units times the table minimum
type FlatBetting struct {
	Units int
}

// Bet implements Bettor
func (f FlatBetting) Bet(state BetState) int {
	if !canBet(state) {
		return 0
	}
	return clampBet(state.MinBet*max(f.Units, 1), state)
}

func (f FlatBetting) String() string {
	return fmt.Sprintf("flat(%d)", max(f.Units, 1))
}

// SpreadBetting ramps from one unit at a true count of one or less to
// MaxUnits units, adding a unit per true count point.
type SpreadBetting struct {
	MaxUnits int
}

// Bet implements Bettor
func (s SpreadBetting) Bet(state BetState) int {
	if !canBet(state) {
		return 0
	}
	units := 1
	if state.TrueCount > 1 {
		units = int(math.Floor(state.TrueCount))
	}
	units = min(units, max(s.MaxUnits, 1))
	return clampBet(state.MinBet*units, state)
}

func (s SpreadBetting) String() string {
	return fmt.Sprintf("spread(1-%d)", max(s.MaxUnits, 1))
}

func canBet(state BetState) bool {
	return state.MinBet > 0 && state.Balance >= float64(state.MinBet)
}

// clampBet caps a bet at the whole-unit balance and keeps it at or above
// the table minimum
func clampBet(bet int, state BetState) int {
	bet = min(bet, int(math.Floor(state.Balance)))
	return max(bet, state.MinBet)
}
