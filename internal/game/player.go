package game

import (
	"fmt"

	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/strategy"
)

// Player is the single seat at the table. It owns one to MaxSplitHands
// sub-hands per round and delegates every choice to its strategy.
type Player struct {
	Balance  float64
	strategy strategy.Strategy
	hands    []*PlayerHand
	current  int

	insuranceStake float64
	insuranceNet   float64
}

// NewPlayer seats a player with the given bankroll
func NewPlayer(balance float64, s strategy.Strategy) *Player {
	return &Player{
		Balance:  balance,
		strategy: s,
	}
}

// Strategy returns the attached strategy
func (p *Player) Strategy() strategy.Strategy {
	return p.strategy
}

// PlaceBet takes the stake from the balance and opens the round's first hand
func (p *Player) PlaceBet(bet int) error {
	if bet <= 0 {
		return fmt.Errorf("%w: %d", ErrBetBelowMinimum, bet)
	}
	if float64(bet) > p.Balance {
		return fmt.Errorf("%w: bet %d, balance %.2f", ErrBetExceedsBalance, bet, p.Balance)
	}
	p.Balance -= float64(bet)
	p.hands = append(p.hands[:0], &PlayerHand{Bet: bet})
	p.current = 0
	return nil
}

// Hands returns the round's sub-hands in play order
func (p *Player) Hands() []*PlayerHand {
	return p.hands
}

// CurrentHand returns the hand awaiting a decision, or nil once every hand
// is finished
func (p *Player) CurrentHand() *PlayerHand {
	if p.current >= len(p.hands) {
		return nil
	}
	return p.hands[p.current]
}

// TurnOver reports whether the player has finished acting this round
func (p *Player) TurnOver() bool {
	return p.CurrentHand() == nil
}

// advance moves the cursor to the next hand that still needs a decision
func (p *Player) advance() {
	for p.current < len(p.hands) && p.hands[p.current].Done() {
		p.current++
	}
}

// insertAfterCurrent places h directly after the current hand
func (p *Player) insertAfterCurrent(h *PlayerHand) {
	i := p.current + 1
	p.hands = append(p.hands, nil)
	copy(p.hands[i+1:], p.hands[i:])
	p.hands[i] = h
}

// ResetHands clears the round; the balance is kept
func (p *Player) ResetHands() {
	p.hands = p.hands[:0]
	p.current = 0
	p.insuranceStake = 0
	p.insuranceNet = 0
}

// tableState builds the snapshot the strategy decides from
func (p *Player) tableState(up deck.Card, decks int) strategy.TableState {
	h := p.CurrentHand()
	soft, _ := h.Value.Soft()
	return strategy.TableState{
		Hand:         h.Cards,
		HardTotal:    h.Value.Hard,
		SoftTotal:    soft,
		Bet:          h.Bet,
		Balance:      p.Balance,
		RunningCount: p.strategy.RunningCount(),
		TrueCount:    p.strategy.TrueCount(),
		NumDecks:     decks,
		DealerUpCard: up,
		SplitHand:    h.Split,
	}
}
