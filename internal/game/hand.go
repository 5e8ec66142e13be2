package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjacksim/internal/deck"
)

// HandValue tracks a hand's hard total and whether an ace can be counted as
// eleven
type HandValue struct {
	Hard int
	aces int
}

// Add folds one card into the total
func (v *HandValue) Add(card deck.Card) {
	v.Hard += card.Value()
	if card.IsAce() {
		v.aces++
	}
}

// Soft returns the soft total, present only while an ace can count as
// eleven without busting
func (v HandValue) Soft() (int, bool) {
	if v.aces > 0 && v.Hard+10 <= 21 {
		return v.Hard + 10, true
	}
	return 0, false
}

// IsSoft reports whether a soft total is present
func (v HandValue) IsSoft() bool {
	_, ok := v.Soft()
	return ok
}

// Best returns the soft total when present, otherwise the hard total
func (v HandValue) Best() int {
	if soft, ok := v.Soft(); ok {
		return soft
	}
	return v.Hard
}

// IsBust reports whether the hard total is over 21
func (v HandValue) IsBust() bool {
	return v.Hard > 21
}

func (v HandValue) String() string {
	if soft, ok := v.Soft(); ok {
		return fmt.Sprintf("%d/%d", v.Hard, soft)
	}
	return fmt.Sprintf("%d", v.Hard)
}

func valueOf(cards []deck.Card) HandValue {
	var v HandValue
	for _, c := range cards {
		v.Add(c)
	}
	return v
}

// Outcome is the settled result of a sub-hand
type Outcome int

const (
	Pending Outcome = iota
	Win
	Push
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Win:
		return "win"
	case Push:
		return "push"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// PlayerHand is one of the player's sub-hands. Stood marks a hand waiting
// for the dealer; Resolved marks a hand that has been paid or taken.
type PlayerHand struct {
	Cards     []deck.Card
	Value     HandValue
	Bet       int
	Stood     bool
	Resolved  bool
	Split     bool
	Doubled   bool
	Surrender bool
	Blackjack bool
	Outcome   Outcome
	Net       float64
}

func (h *PlayerHand) add(card deck.Card) {
	h.Cards = append(h.Cards, card)
	h.Value.Add(card)
}

// Done reports whether the player can no longer act on the hand
func (h *PlayerHand) Done() bool {
	return h.Stood || h.Resolved
}

// IsNatural reports a two-card 21 that did not come from a split
func (h *PlayerHand) IsNatural() bool {
	return !h.Split && len(h.Cards) == 2 && h.Value.Best() == 21
}

// IsPair reports two cards of equal rank
func (h *PlayerHand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

func (h *PlayerHand) String() string {
	cards := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		cards[i] = c.String()
	}
	return fmt.Sprintf("[%s] %s bet=%d", strings.Join(cards, " "), h.Value, h.Bet)
}

// DealerHand holds the dealer's cards. Card 0 is the up-card and card 1 the
// hole card, face down until revealed.
type DealerHand struct {
	Cards        []deck.Card
	Value        HandValue
	HoleRevealed bool
}

func (d *DealerHand) add(card deck.Card) {
	d.Cards = append(d.Cards, card)
	d.Value.Add(card)
}

// UpCard returns the face-up card
func (d *DealerHand) UpCard() deck.Card {
	if len(d.Cards) == 0 {
		return deck.Card{}
	}
	return d.Cards[0]
}

// IsBlackjack reports a two-card 21
func (d *DealerHand) IsBlackjack() bool {
	return len(d.Cards) == 2 && d.Value.Best() == 21
}

func (d *DealerHand) reset() {
	d.Cards = d.Cards[:0]
	d.Value = HandValue{}
	d.HoleRevealed = false
}
