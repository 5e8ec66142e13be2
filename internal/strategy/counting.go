package strategy

import (
	"fmt"
	"math"
	"strings"

	"github.com/lox/blackjacksim/internal/deck"
)

// System identifies one of the supported point-count systems
type System int

const (
	HiLo System = iota
	WongHalves
	Halves
	KO
	HiOptI
	HiOptII
	RedSeven
	AceFive
	OmegaII
	ZenCount
	KISS
	KISSII
	KISSIII
	SilverFox
	JNoir
	UnbalancedZenII
)

// Systems lists every counting system in declaration order
var Systems = []System{
	HiLo, WongHalves, Halves, KO, HiOptI, HiOptII, RedSeven, AceFive,
	OmegaII, ZenCount, KISS, KISSII, KISSIII, SilverFox, JNoir, UnbalancedZenII,
}

// pointTable holds per-rank tag values for black and red cards. Index 0 is
// unused so that a deck.Rank indexes directly.
type pointTable struct {
	name  string
	black [14]float64
	red   [14]float64
	// initial overrides the running count a fresh shoe starts at. When nil
	// an unbalanced system starts at minus its per-deck imbalance times the
	// number of decks.
	initial func(decks int) float64
}

// tens expands values for A..T into a full rank table with J, Q and K
// counted like the ten.
func tens(a, two, three, four, five, six, seven, eight, nine, ten float64) [14]float64 {
	return [14]float64{0, a, two, three, four, five, six, seven, eight, nine, ten, ten, ten, ten}
}

func same(values [14]float64) (black, red [14]float64) {
	return values, values
}

var systems = func() map[System]*pointTable {
	def := func(name string, values [14]float64) *pointTable {
		black, red := same(values)
		return &pointTable{name: name, black: black, red: red}
	}

	t := map[System]*pointTable{
		HiLo:       def("HiLo", tens(-1, 1, 1, 1, 1, 1, 0, 0, 0, -1)),
		WongHalves: def("WongHalves", tens(-1, 0.5, 1, 1, 1.5, 1, 0.5, 0, -0.5, -1)),
		Halves:     def("Halves", tens(-2, 1, 2, 2, 3, 2, 1, 0, -1, -2)),
		KO:         def("KO", tens(-1, 1, 1, 1, 1, 1, 1, 0, 0, -1)),
		HiOptI:     def("HiOptI", tens(0, 0, 1, 1, 1, 1, 0, 0, 0, -1)),
		HiOptII:    def("HiOptII", tens(0, 1, 1, 2, 2, 1, 1, 0, 0, -2)),
		RedSeven:   def("RedSeven", tens(-1, 1, 1, 1, 1, 1, 0, 0, 0, -1)),
		AceFive:    def("AceFive", tens(-1, 0, 0, 0, 1, 0, 0, 0, 0, 0)),
		OmegaII:    def("OmegaII", tens(0, 1, 1, 2, 2, 2, 1, 0, -1, -2)),
		ZenCount:   def("ZenCount", tens(-1, 1, 1, 2, 2, 2, 1, 0, 0, -2)),
		// Plain tens are neutral in KISS, only the court cards count.
		KISS:            def("KISS", [14]float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, -1, -1, -1}),
		KISSII:          def("KISSII", tens(0, 0, 1, 1, 1, 1, 0, 0, 0, -1)),
		KISSIII:         def("KISSIII", tens(-1, 0, 1, 1, 1, 1, 1, 0, 0, -1)),
		SilverFox:       def("SilverFox", tens(-1, 1, 1, 1, 1, 1, 1, 0, -1, -1)),
		JNoir:           def("JNoir", tens(1, 1, 1, 1, 1, 1, 1, 1, 1, -2)),
		UnbalancedZenII: def("UnbalancedZenII", tens(-1, 1, 2, 2, 2, 2, 1, 0, 0, -2)),
	}

	// Colour-dependent ranks.
	t[RedSeven].red[deck.Seven] = 1
	for _, s := range []System{KISS, KISSII, KISSIII} {
		t[s].black[deck.Two] = 1
	}

	t[KO].initial = func(decks int) float64 { return float64(4 - 4*decks) }
	return t
}()

// String returns the display name of the system
func (s System) String() string {
	if t, ok := systems[s]; ok {
		return t.name
	}
	return fmt.Sprintf("System(%d)", int(s))
}

// ParseSystem resolves a system by name. Matching ignores case and the
// separators '-', '_' and ' ', so "hi-lo", "HiLo" and "hilo" are equivalent.
func ParseSystem(name string) (System, error) {
	want := normalizeName(name)
	for _, s := range Systems {
		if normalizeName(s.String()) == want {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown counting system %q", name)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
}

// Value returns the tag the system assigns to card
func (s System) Value(card deck.Card) float64 {
	t := systems[s]
	if t == nil || card.Rank < deck.Ace || card.Rank > deck.King {
		return 0
	}
	if card.IsRed() {
		return t.red[card.Rank]
	}
	return t.black[card.Rank]
}

// Imbalance returns the sum of the tags over one 52-card deck
func (s System) Imbalance() float64 {
	var sum float64
	for _, suit := range deck.Suits {
		for _, rank := range deck.Ranks {
			sum += s.Value(deck.NewCard(suit, rank))
		}
	}
	return sum
}

// Balanced reports whether the tags of a full deck sum to zero
func (s System) Balanced() bool {
	return s.Imbalance() == 0
}

// InitialCount returns the running count a freshly shuffled shoe of the given
// number of decks starts at.
func (s System) InitialCount(decks int) float64 {
	if t := systems[s]; t != nil && t.initial != nil {
		return t.initial(decks)
	}
	if s.Balanced() {
		return 0
	}
	return -s.Imbalance() * float64(decks)
}

// Counter tracks the running and true count for one system over a shoe.
// It is not safe for concurrent use.
type Counter struct {
	system   System
	decks    int
	balanced bool
	running  float64
	seen     int
}

// NewCounter returns a counter for system over a shoe of decks decks
func NewCounter(system System, decks int) (*Counter, error) {
	if _, ok := systems[system]; !ok {
		return nil, fmt.Errorf("unknown counting system %d", int(system))
	}
	if decks < 1 {
		return nil, fmt.Errorf("decks must be positive, got %d", decks)
	}
	c := &Counter{
		system:   system,
		decks:    decks,
		balanced: system.Balanced(),
	}
	c.Reset()
	return c, nil
}

// Update absorbs one seen card
func (c *Counter) Update(card deck.Card) {
	c.running += c.system.Value(card)
	c.seen++
}

// Reset returns the counter to the state of a freshly shuffled shoe
func (c *Counter) Reset() {
	c.running = c.system.InitialCount(c.decks)
	c.seen = 0
}

// RunningCount returns the cumulative tag sum
func (c *Counter) RunningCount() float64 {
	return c.running
}

// TrueCount returns the running count per estimated deck remaining. Unbalanced
// systems are played off the running count, so it is returned unchanged.
func (c *Counter) TrueCount() float64 {
	if !c.balanced {
		return c.running
	}
	return c.running / c.DecksRemaining()
}

// DecksRemaining estimates the undealt decks, floored at one card's worth
func (c *Counter) DecksRemaining() float64 {
	return math.Max(float64(c.decks)-float64(c.seen)/52, 1.0/52)
}

// Seen returns the number of cards counted since the last reset
func (c *Counter) Seen() int {
	return c.seen
}

// System returns the counting system
func (c *Counter) System() System {
	return c.system
}

// Decks returns the shoe size the counter was built for
func (c *Counter) Decks() int {
	return c.decks
}
