package strategy

import (
	"fmt"
	"strings"
)

// DecisionKind names a playing policy
type DecisionKind string

const (
	DecisionBasic         DecisionKind = "basic"
	DecisionBasicH17      DecisionKind = "basic-h17"
	DecisionS17Deviations DecisionKind = "s17-deviations"
	DecisionH17Deviations DecisionKind = "h17-deviations"
)

// DecisionKinds lists every playing policy
var DecisionKinds = []DecisionKind{DecisionBasic, DecisionBasicH17, DecisionS17Deviations, DecisionH17Deviations}

// BettingKind names a bet sizing policy
type BettingKind string

const (
	BettingMargin BettingKind = "margin"
	BettingFlat   BettingKind = "flat"
	BettingSpread BettingKind = "spread"
)

// BettingKinds lists every bet sizing policy
var BettingKinds = []BettingKind{BettingMargin, BettingFlat, BettingSpread}

// Defaults applied by Build to zero-valued Spec fields
const (
	DefaultMargin   = 2.0
	DefaultMaxUnits = 8
)

// Spec describes a strategy by name. It is what configuration files and the
// command line produce.
type Spec struct {
	Label    string
	Counting string
	Decision string
	Betting  string
	// Margin scales MarginBetting
	Margin float64
	// Units is the flat bet size or the top of the spread, in table minimums
	Units int
	// InsuranceThreshold is the true count at which insurance is taken. A
	// negative value disables insurance.
	InsuranceThreshold float64
}

// DefaultSpecs returns one spec per counting system, each playing the S17
// deviations and margin betting
func DefaultSpecs() []Spec {
	specs := make([]Spec, 0, len(Systems))
	for _, s := range Systems {
		specs = append(specs, Spec{
			Counting: s.String(),
			Decision: string(DecisionS17Deviations),
			Betting:  string(BettingMargin),
			Margin:   DefaultMargin,
		})
	}
	return specs
}

// Build constructs a strategy for a shoe of decks decks at a table with the
// given minimum bet. Unknown names are rejected.
func Build(spec Spec, decks int, minBet int) (*PlayerStrategy, error) {
	system, err := ParseSystem(spec.Counting)
	if err != nil {
		return nil, err
	}
	counter, err := NewCounter(system, decks)
	if err != nil {
		return nil, err
	}

	decider, err := buildDecider(spec.Decision)
	if err != nil {
		return nil, err
	}

	bettor, err := buildBettor(spec, minBet)
	if err != nil {
		return nil, err
	}

	var insurer Insurer = CountInsurance{Threshold: DefaultInsuranceThreshold}
	switch {
	case spec.InsuranceThreshold < 0:
		insurer = NeverInsure{}
	case spec.InsuranceThreshold > 0:
		insurer = CountInsurance{Threshold: spec.InsuranceThreshold}
	}

	opts := []Option{WithInsurer(insurer)}
	if spec.Label != "" {
		opts = append(opts, WithLabel(spec.Label))
	}
	return New(counter, decider, bettor, opts...)
}

func buildDecider(name string) (Decider, error) {
	if name == "" {
		name = string(DecisionS17Deviations)
	}
	switch DecisionKind(strings.ToLower(name)) {
	case DecisionBasic:
		return NewBasicStrategy(), nil
	case DecisionBasicH17:
		return NewH17BasicStrategy(), nil
	case DecisionS17Deviations:
		return NewS17DeviationStrategy(), nil
	case DecisionH17Deviations:
		return NewH17DeviationStrategy(), nil
	}
	return nil, fmt.Errorf("unknown decision strategy %q", name)
}

func buildBettor(spec Spec, minBet int) (Bettor, error) {
	name := spec.Betting
	if name == "" {
		name = string(BettingMargin)
	}
	if minBet <= 0 {
		return nil, fmt.Errorf("min bet must be positive, got %d", minBet)
	}

	switch BettingKind(strings.ToLower(name)) {
	case BettingMargin:
		margin := spec.Margin
		if margin == 0 {
			margin = DefaultMargin
		}
		if margin < 0 {
			return nil, fmt.Errorf("betting margin must be positive, got %g", margin)
		}
		return MarginBetting{Margin: margin}, nil
	case BettingFlat:
		units := max(spec.Units, 1)
		return FlatBetting{Units: units}, nil
	case BettingSpread:
		units := spec.Units
		if units == 0 {
			units = DefaultMaxUnits
		}
		if units < 1 {
			return nil, fmt.Errorf("spread units must be positive, got %d", units)
		}
		return SpreadBetting{MaxUnits: units}, nil
	}
	return nil, fmt.Errorf("unknown betting strategy %q", name)
}
