// Package config holds the table rules and simulation settings, and loads
// them from HCL files.
package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// FailurePolicy decides what happens to the other strategies when one fails
type FailurePolicy string

const (
	// FailFast cancels every strategy on the first failure
	FailFast FailurePolicy = "abort"
	// ContinueOnError lets the remaining strategies finish
	ContinueOnError FailurePolicy = "continue"
)

// Table describes the rules of the table. Values are immutable once
// validated; copy and re-validate to change them.
type Table struct {
	Decks            int     `hcl:"decks,optional" json:"decks" yaml:"decks"`
	Shuffles         int     `hcl:"shuffles,optional" json:"shuffles" yaml:"shuffles"`
	Penetration      float64 `hcl:"penetration,optional" json:"penetration" yaml:"penetration"`
	MinBet           int     `hcl:"min_bet,optional" json:"min_bet" yaml:"min_bet"`
	PlayerBalance    float64 `hcl:"player_balance,optional" json:"player_balance" yaml:"player_balance"`
	TableBalance     float64 `hcl:"table_balance,optional" json:"table_balance" yaml:"table_balance"`
	Surrender        bool    `hcl:"surrender,optional" json:"surrender" yaml:"surrender"`
	SurrenderAgainst []int   `hcl:"surrender_against,optional" json:"surrender_against" yaml:"surrender_against"`
	DealerHitsSoft17 bool    `hcl:"dealer_hits_soft_17,optional" json:"dealer_hits_soft_17" yaml:"dealer_hits_soft_17"`
	Insurance        bool    `hcl:"insurance,optional" json:"insurance" yaml:"insurance"`
	DoubleAfterSplit bool    `hcl:"double_after_split,optional" json:"double_after_split" yaml:"double_after_split"`
}

// Simulation describes how many games to play per strategy
type Simulation struct {
	Hands         int    `hcl:"hands,optional" json:"hands" yaml:"hands"`
	Runs          int    `hcl:"runs,optional" json:"runs" yaml:"runs"`
	Seed          int64  `hcl:"seed,optional" json:"seed" yaml:"seed"`
	FailurePolicy string `hcl:"failure_policy,optional" json:"failure_policy" yaml:"failure_policy"`
}

// MaxSplitHands is the most hands a player can hold after splitting
const MaxSplitHands = 4

// DefaultTable returns a six-deck shoe game: 3:2 blackjack, dealer stands on
// soft 17, no surrender, no insurance and an unlimited house bankroll.
func DefaultTable() Table {
	return Table{
		Decks:            6,
		Shuffles:         7,
		Penetration:      0.8,
		MinBet:           5,
		PlayerBalance:    500,
		SurrenderAgainst: []int{1, 10},
	}
}

// DefaultSimulation returns 100 runs of up to 1000 hands
func DefaultSimulation() Simulation {
	return Simulation{
		Hands:         1000,
		Runs:          100,
		FailurePolicy: string(FailFast),
	}
}

// WithDefaults fills zero values from DefaultTable
func (t Table) WithDefaults() Table {
	d := DefaultTable()
	if t.Decks == 0 {
		t.Decks = d.Decks
	}
	if t.Shuffles == 0 {
		t.Shuffles = d.Shuffles
	}
	if t.Penetration == 0 {
		t.Penetration = d.Penetration
	}
	if t.MinBet == 0 {
		t.MinBet = d.MinBet
	}
	if t.PlayerBalance == 0 {
		t.PlayerBalance = d.PlayerBalance
	}
	if len(t.SurrenderAgainst) == 0 {
		t.SurrenderAgainst = d.SurrenderAgainst
	} else {
		t.SurrenderAgainst = slices.Clone(t.SurrenderAgainst)
	}
	return t
}

// Validate checks the rules are playable
func (t Table) Validate() error {
	var errs []error
	if t.Decks < 1 {
		errs = append(errs, fmt.Errorf("decks must be at least 1, got %d", t.Decks))
	}
	if t.Shuffles < 1 {
		errs = append(errs, fmt.Errorf("shuffles must be at least 1, got %d", t.Shuffles))
	}
	if t.Penetration <= 0 || t.Penetration > 1 {
		errs = append(errs, fmt.Errorf("penetration must be in (0, 1], got %g", t.Penetration))
	}
	if t.MinBet < 1 {
		errs = append(errs, fmt.Errorf("min_bet must be positive, got %d", t.MinBet))
	}
	if t.PlayerBalance < float64(t.MinBet) {
		errs = append(errs, fmt.Errorf("player_balance %g is below min_bet %d", t.PlayerBalance, t.MinBet))
	}
	if t.TableBalance < 0 {
		errs = append(errs, fmt.Errorf("table_balance must not be negative, got %g", t.TableBalance))
	}
	for _, v := range t.SurrenderAgainst {
		if v < 1 || v > 10 {
			errs = append(errs, fmt.Errorf("surrender_against values must be card values 1-10, got %d", v))
		}
	}
	return errors.Join(errs...)
}

// HouseBalance returns the starting house bankroll. Zero means unlimited.
func (t Table) HouseBalance() float64 {
	if t.TableBalance == 0 {
		return math.MaxFloat64
	}
	return t.TableBalance
}

// CanSurrenderAgainst reports whether surrender is offered against a dealer
// up-card of the given value
func (t Table) CanSurrenderAgainst(upValue int) bool {
	return t.Surrender && slices.Contains(t.SurrenderAgainst, upValue)
}

// WithDefaults fills zero values from DefaultSimulation
func (s Simulation) WithDefaults() Simulation {
	d := DefaultSimulation()
	if s.Hands == 0 {
		s.Hands = d.Hands
	}
	if s.Runs == 0 {
		s.Runs = d.Runs
	}
	if s.FailurePolicy == "" {
		s.FailurePolicy = d.FailurePolicy
	}
	return s
}

// Validate checks the simulation settings
func (s Simulation) Validate() error {
	var errs []error
	if s.Hands < 1 {
		errs = append(errs, fmt.Errorf("hands must be at least 1, got %d", s.Hands))
	}
	if s.Runs < 1 {
		errs = append(errs, fmt.Errorf("runs must be at least 1, got %d", s.Runs))
	}
	if _, err := ParseFailurePolicy(s.FailurePolicy); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Policy returns the parsed failure policy, FailFast when unset or invalid
func (s Simulation) Policy() FailurePolicy {
	p, err := ParseFailurePolicy(s.FailurePolicy)
	if err != nil {
		return FailFast
	}
	return p
}

// ParseFailurePolicy parses "abort" or "continue". Empty means FailFast.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", FailFast:
		return FailFast, nil
	case ContinueOnError:
		return ContinueOnError, nil
	}
	return "", fmt.Errorf("invalid failure_policy %q (want %q or %q)", s, FailFast, ContinueOnError)
}
