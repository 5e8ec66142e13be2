package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in shoe build order
var Suits = [4]Suit{Spades, Hearts, Diamonds, Clubs}

const (
	suitSymbols = "♠♥♦♣"
	suitLetters = "shdc"
	rankLetters = "A23456789TJQK"
)

// String returns the suit symbol
func (s Suit) String() string {
	if s < Spades || s > Clubs {
		return "?"
	}
	return string([]rune(suitSymbols)[s])
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in shoe build order
var Ranks = [13]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// String returns the rank letter, T for ten
func (r Rank) String() string {
	if r < Ace || r > King {
		return "?"
	}
	return rankLetters[r-1 : r]
}

// Value returns the blackjack value of the rank: aces are 1, tens and faces are 10
func (r Rank) Value() int {
	if r >= Ten {
		return 10
	}
	return int(r)
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Value returns the blackjack value of the card (1-10)
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsTen returns true for any ten-valued card (T, J, Q, K)
func (c Card) IsTen() bool {
	return c.Rank >= Ten
}

// IsFaceCard returns true if the card is a face card (J, Q, K)
func (c Card) IsFaceCard() bool {
	return c.Rank >= Jack && c.Rank <= King
}

// ParseCard parses a rank letter and suit letter such as "As" or "td"
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %s", s)
	}
	r := strings.IndexByte(rankLetters, strings.ToUpper(s[:1])[0])
	if r < 0 {
		return Card{}, fmt.Errorf("invalid rank: %c", s[0])
	}
	u := strings.IndexByte(suitLetters, strings.ToLower(s[1:])[0])
	if u < 0 {
		return Card{}, fmt.Errorf("invalid suit: %c", s[1])
	}
	return NewCard(Suit(u), Rank(r+1)), nil
}

// ParseCards parses a run of two-character cards such as "AsKh9d".
// Spaces are ignored.
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on invalid input
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
