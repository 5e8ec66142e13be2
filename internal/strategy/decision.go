package strategy

import (
	"errors"
	"fmt"
)

// ErrNoValidOption is returned when a decider cannot pick a legal action
var ErrNoValidOption = errors.New("no valid option")

// Decider chooses a playing action from the legal set
type Decider interface {
	Decide(state TableState, options ActionSet) (Action, error)
}

// Chart cells. Columns run dealer 2 through 9, ten, ace.
const (
	cellHit         = 'H'
	cellStand       = 'S'
	cellDoubleHit   = 'D' // double, otherwise hit
	cellDoubleStand = 'd' // double, otherwise stand
	cellSurrender   = 'R' // surrender, otherwise hit
	cellSurrStand   = 'r' // surrender, otherwise stand
	cellSplit       = 'P'
	cellNoSplit     = '-'
)

// chart maps a total (or pair rank value) to ten cells indexed by dealer
// up-card
type chart map[int]string

// BasicStrategy plays the multi-deck basic strategy chart. The H17 variant
// adjusts the cells that change when the dealer hits soft 17.
type BasicStrategy struct {
	hard  chart
	soft  chart
	pairs chart
	name  string
}

// NewBasicStrategy returns the stand-on-soft-17 chart
func NewBasicStrategy() *BasicStrategy {
	return &BasicStrategy{
		hard:  s17Hard(),
		soft:  s17Soft(),
		pairs: s17Pairs(),
		name:  "basic",
	}
}

// NewH17BasicStrategy returns the hit-soft-17 chart
func NewH17BasicStrategy() *BasicStrategy {
	b := NewBasicStrategy()
	b.hard[15] = "SSSSSHHHRR"
	b.hard[17] = "SSSSSSSSSr"
	b.soft[18] = "ddddSSHHHH"
	b.soft[19] = "SSSSdSSSSS"
	b.name = "basic-h17"
	return b
}

func s17Hard() chart {
	c := chart{
		9:  "HDDDDHHHHH",
		10: "DDDDDDDDHH",
		11: "DDDDDDDDDD",
		12: "HHSSSHHHHH",
		13: "SSSSSHHHHH",
		14: "SSSSSHHHHH",
		15: "SSSSSHHHRH",
		16: "SSSSSHHRRR",
	}
	for total := 4; total <= 8; total++ {
		c[total] = "HHHHHHHHHH"
	}
	for total := 17; total <= 21; total++ {
		c[total] = "SSSSSSSSSS"
	}
	return c
}

// Soft charts are keyed by the soft total
func s17Soft() chart {
	return chart{
		12: "HHHHHHHHHH",
		13: "HHHDDHHHHH",
		14: "HHHDDHHHHH",
		15: "HHDDDHHHHH",
		16: "HHDDDHHHHH",
		17: "HDDDDHHHHH",
		18: "SddddSSHHH",
		19: "SSSSdSSSSS",
		20: "SSSSSSSSSS",
		21: "SSSSSSSSSS",
	}
}

// Pairs are keyed by the blackjack value of the paired rank
func s17Pairs() chart {
	return chart{
		1:  "PPPPPPPPPP",
		2:  "PPPPPP----",
		3:  "PPPPPP----",
		4:  "---PP-----",
		5:  "----------",
		6:  "PPPPP-----",
		7:  "PPPPPP----",
		8:  "PPPPPPPPPP",
		9:  "PPPPP-PP--",
		10: "----------",
	}
}

// column maps a dealer up-card value to a chart column
func column(upValue int) int {
	if upValue == 1 {
		return 9
	}
	return upValue - 2
}

func (c chart) cell(key, upValue int) (byte, bool) {
	row, ok := c[key]
	if !ok {
		return 0, false
	}
	col := column(upValue)
	if col < 0 || col >= len(row) {
		return 0, false
	}
	return row[col], true
}

// String returns the decider name
func (b *BasicStrategy) String() string {
	return b.name
}

// Decide implements Decider
func (b *BasicStrategy) Decide(state TableState, options ActionSet) (Action, error) {
	if a, ok := b.surrender(state, options); ok {
		return a, nil
	}
	if a, ok := b.split(state, options); ok {
		return a, nil
	}
	return b.play(state, options)
}

func (b *BasicStrategy) surrender(state TableState, options ActionSet) (Action, bool) {
	if !options.Contains(Surrender) || state.IsSoft() {
		return 0, false
	}
	if _, ok := b.split(state, options); ok {
		return 0, false
	}
	cell, ok := b.hard.cell(state.HardTotal, state.DealerUpCard.Value())
	if ok && (cell == cellSurrender || cell == cellSurrStand) {
		return Surrender, true
	}
	return 0, false
}

func (b *BasicStrategy) split(state TableState, options ActionSet) (Action, bool) {
	if !options.Contains(Split) || !state.IsPair() {
		return 0, false
	}
	cell, ok := b.pairs.cell(state.Hand[0].Value(), state.DealerUpCard.Value())
	if ok && cell == cellSplit {
		return Split, true
	}
	return 0, false
}

func (b *BasicStrategy) play(state TableState, options ActionSet) (Action, error) {
	up := state.DealerUpCard.Value()

	var (
		cell byte
		ok   bool
	)
	if state.IsSoft() {
		cell, ok = b.soft.cell(state.SoftTotal, up)
	} else {
		cell, ok = b.hard.cell(state.HardTotal, up)
	}
	if !ok {
		return 0, fmt.Errorf("%w: no chart entry for total %d vs %d", ErrNoValidOption, state.Total(), up)
	}

	var want, fallback Action
	switch cell {
	case cellHit:
		want, fallback = Hit, Hit
	case cellStand:
		want, fallback = Stand, Stand
	case cellDoubleHit:
		want, fallback = DoubleDown, Hit
	case cellDoubleStand:
		want, fallback = DoubleDown, Stand
	case cellSurrender:
		want, fallback = Hit, Hit
	case cellSurrStand:
		want, fallback = Stand, Stand
	default:
		return 0, fmt.Errorf("%w: bad chart cell %q", ErrNoValidOption, cell)
	}

	switch {
	case options.Contains(want):
		return want, nil
	case options.Contains(fallback):
		return fallback, nil
	}
	return 0, fmt.Errorf("%w: %s not in %s", ErrNoValidOption, want, options)
}
