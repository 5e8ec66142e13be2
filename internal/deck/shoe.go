package deck

import (
	"errors"
	"math"
	rand "math/rand/v2"
)

// DefaultPenetration is the fraction of the shoe dealt before a reshuffle is due
const DefaultPenetration = 0.8

// ErrShoeExhausted is returned when a card is drawn past the end of the shoe
var ErrShoeExhausted = errors.New("shoe exhausted")

// Shoe is a multi-deck stack of cards dealt in order until a reshuffle.
// It is not safe for concurrent use.
type Shoe struct {
	cards      []Card
	decks      int
	pos        int
	roundStart int
	cutoff     int
	needsShuff bool
	rng        *rand.Rand
}

// NewShoe builds a shoe of decks*52 cards in suit/rank order. The shoe starts
// out due for a shuffle. A penetration outside (0, 1] falls back to
// DefaultPenetration.
func NewShoe(decks int, penetration float64, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = 1
	}
	cards := make([]Card, 0, decks*52)
	for i := 0; i < decks; i++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}

	s := newShoe(cards, penetration, rng)
	s.decks = decks
	return s
}

// NewStackedShoe returns an unshuffled shoe that deals cards in exactly the
// given order. It is intended for deterministic tests; it reports no shuffle
// due until the penetration point is reached.
func NewStackedShoe(cards []Card, penetration float64) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	s := newShoe(stacked, penetration, nil)
	s.decks = max(1, (len(cards)+51)/52)
	s.needsShuff = false
	return s
}

func newShoe(cards []Card, penetration float64, rng *rand.Rand) *Shoe {
	if penetration <= 0 || penetration > 1 {
		penetration = DefaultPenetration
	}
	cutoff := 0
	if len(cards) > 0 {
		cutoff = int(math.Floor(float64(len(cards)-1) * penetration))
	}
	return &Shoe{
		cards:      cards,
		cutoff:     cutoff,
		needsShuff: true,
		rng:        rng,
	}
}

// Shuffle performs passes full Fisher-Yates permutations, rewinds the shoe and
// clears the shuffle flag. A shoe without a random source is only rewound.
func (s *Shoe) Shuffle(passes int) {
	if s.rng != nil {
		for p := 0; p < max(passes, 1); p++ {
			for i := len(s.cards) - 1; i > 0; i-- {
				j := s.rng.IntN(i + 1)
				s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
			}
		}
	}
	s.pos = 0
	s.roundStart = 0
	s.needsShuff = false
}

// StartRound marks the cards dealt so far as discards. Cards drawn after
// the mark are in play until the next call.
func (s *Shoe) StartRound() {
	s.roundStart = s.pos
}

// RecycleDiscards shuffles the discards back in behind the cards in play
// when the shoe runs out mid-round. The cursor is left after the cards in
// play and a full shuffle is due before the next round. It returns false
// when there are no discards to recycle.
func (s *Shoe) RecycleDiscards() bool {
	n := s.roundStart
	if n == 0 {
		return false
	}

	cards := make([]Card, 0, len(s.cards))
	cards = append(cards, s.cards[n:]...)
	cards = append(cards, s.cards[:n]...)
	s.cards = cards

	discards := s.cards[len(s.cards)-n:]
	if s.rng != nil {
		s.rng.Shuffle(len(discards), func(i, j int) {
			discards[i], discards[j] = discards[j], discards[i]
		})
	}

	s.pos = len(s.cards) - n
	s.roundStart = 0
	s.needsShuff = true
	return true
}

// Draw returns the next card and advances the cursor
func (s *Shoe) Draw() (Card, error) {
	if s.pos >= len(s.cards) {
		return Card{}, ErrShoeExhausted
	}
	card := s.cards[s.pos]
	s.pos++
	if s.pos >= s.cutoff {
		s.needsShuff = true
	}
	return card, nil
}

// NeedsShuffle reports whether the cut card has been reached
func (s *Shoe) NeedsShuffle() bool {
	return s.needsShuff
}

// Remaining returns the number of undealt cards
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.pos
}

// Len returns the total number of cards in the shoe
func (s *Shoe) Len() int {
	return len(s.cards)
}

// Decks returns the number of decks the shoe was built from
func (s *Shoe) Decks() int {
	return s.decks
}

// Cutoff returns the cursor position at which a shuffle becomes due
func (s *Shoe) Cutoff() int {
	return s.cutoff
}
