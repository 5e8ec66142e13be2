// Package strategy provides the player's policies: card counting, playing
// decisions, bet sizing and insurance. A Strategy bundles the four and is
// the only thing the game engine knows about a player's behaviour.
package strategy

import (
	"errors"

	"github.com/lox/blackjacksim/internal/deck"
)

// Strategy is the capability bundle a seated player delegates to.
// Implementations are used by a single goroutine.
type Strategy interface {
	// Update absorbs one card seen at the table
	Update(card deck.Card)
	// Reset restores the counting state after a shuffle
	Reset()
	RunningCount() float64
	TrueCount() float64
	// Bet returns the wager for the next round, or 0 when the table minimum
	// cannot be met
	Bet(state BetState) int
	// Decide returns a member of options or ErrNoValidOption
	Decide(state TableState, options ActionSet) (Action, error)
	// TakeInsurance is consulted when the dealer shows an ace
	TakeInsurance() bool
	Label() string
}

// PlayerStrategy composes a Counter with a Decider, Bettor and Insurer
type PlayerStrategy struct {
	counter *Counter
	decider Decider
	bettor  Bettor
	insurer Insurer
	label   string
}

var _ Strategy = (*PlayerStrategy)(nil)

// Option configures a PlayerStrategy
type Option func(*PlayerStrategy)

// WithInsurer replaces the default CountInsurance policy
func WithInsurer(insurer Insurer) Option {
	return func(p *PlayerStrategy) {
		p.insurer = insurer
	}
}

// WithLabel overrides the label, which defaults to the counting system name
func WithLabel(label string) Option {
	return func(p *PlayerStrategy) {
		p.label = label
	}
}

// New returns a strategy built from its parts
func New(counter *Counter, decider Decider, bettor Bettor, opts ...Option) (*PlayerStrategy, error) {
	if counter == nil || decider == nil || bettor == nil {
		return nil, errors.New("strategy requires a counter, decider and bettor")
	}
	p := &PlayerStrategy{
		counter: counter,
		decider: decider,
		bettor:  bettor,
		insurer: CountInsurance{Threshold: DefaultInsuranceThreshold},
		label:   counter.System().String(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *PlayerStrategy) Update(card deck.Card) { p.counter.Update(card) }
func (p *PlayerStrategy) Reset()                { p.counter.Reset() }
func (p *PlayerStrategy) RunningCount() float64 { return p.counter.RunningCount() }
func (p *PlayerStrategy) TrueCount() float64    { return p.counter.TrueCount() }
func (p *PlayerStrategy) Label() string         { return p.label }

// Bet fills in the counts before asking the bettor
func (p *PlayerStrategy) Bet(state BetState) int {
	state.RunningCount = p.counter.RunningCount()
	state.TrueCount = p.counter.TrueCount()
	return p.bettor.Bet(state)
}

// Decide fills in the counts before asking the decider
func (p *PlayerStrategy) Decide(state TableState, options ActionSet) (Action, error) {
	state.RunningCount = p.counter.RunningCount()
	state.TrueCount = p.counter.TrueCount()
	action, err := p.decider.Decide(state, options)
	if err != nil {
		return 0, err
	}
	if !options.Contains(action) {
		return 0, ErrNoValidOption
	}
	return action, nil
}

func (p *PlayerStrategy) TakeInsurance() bool {
	return p.insurer.TakeInsurance(p.counter.TrueCount())
}

// Counter exposes the underlying counter
func (p *PlayerStrategy) Counter() *Counter {
	return p.counter
}
