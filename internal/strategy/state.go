package strategy

import (
	"strings"

	"github.com/lox/blackjacksim/internal/deck"
)

// Action is a playing decision for the current hand
type Action int

const (
	Hit Action = iota
	Stand
	DoubleDown
	Split
	Surrender
)

var actionNames = [...]string{
	Hit:        "hit",
	Stand:      "stand",
	DoubleDown: "double down",
	Split:      "split",
	Surrender:  "surrender",
}

// String returns the string representation of an action
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ActionSet is the set of actions legal for the current hand
type ActionSet uint8

// NewActionSet returns a set containing the given actions
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// With returns a copy of the set that also contains a
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<uint(a)
}

// Without returns a copy of the set with a removed
func (s ActionSet) Without(a Action) ActionSet {
	return s &^ (1 << uint(a))
}

// Contains reports whether a is in the set
func (s ActionSet) Contains(a Action) bool {
	return s&(1<<uint(a)) != 0
}

// Actions lists the members of the set in declaration order
func (s ActionSet) Actions() []Action {
	var out []Action
	for a := Hit; a <= Surrender; a++ {
		if s.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	actions := s.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// TableState is a read-only snapshot handed to a Decider. The hard total
// counts every ace as one; SoftTotal is zero unless an ace can count as
// eleven without busting.
type TableState struct {
	Hand         []deck.Card
	HardTotal    int
	SoftTotal    int
	Bet          int
	Balance      float64
	RunningCount float64
	TrueCount    float64
	NumDecks     int
	DealerUpCard deck.Card
	SplitHand    bool
}

// IsSoft reports whether the hand currently has a usable soft total
func (s TableState) IsSoft() bool {
	return s.SoftTotal > 0 && s.SoftTotal <= 21
}

// Total returns the best total for the hand
func (s TableState) Total() int {
	if s.IsSoft() {
		return s.SoftTotal
	}
	return s.HardTotal
}

// IsPair reports whether the hand is two cards of equal rank
func (s TableState) IsPair() bool {
	return len(s.Hand) == 2 && s.Hand[0].Rank == s.Hand[1].Rank
}

// BetState is the snapshot handed to a Bettor before the deal
type BetState struct {
	Balance      float64
	RunningCount float64
	TrueCount    float64
	NumDecks     int
	MinBet       int
}
