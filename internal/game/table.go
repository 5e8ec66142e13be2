package game

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/strategy"
)

// blackjackPayout is the profit multiple on a natural
const blackjackPayout = 1.5

// HandOutcome summarises one settled round
type HandOutcome struct {
	Wins           int
	Pushes         int
	Losses         int
	Blackjacks     int
	Surrenders     int
	Doubles        int
	Splits         int
	InsuranceTaken bool
	InsuranceNet   float64
	// Net is the player's result for the round including insurance
	Net float64
}

// Hands returns the number of settled sub-hands
func (o HandOutcome) Hands() int {
	return o.Wins + o.Pushes + o.Losses
}

// Table deals rounds from a shoe to a single player and plays the dealer.
// It is not safe for concurrent use.
type Table struct {
	rules   config.Table
	shoe    *deck.Shoe
	dealer  DealerHand
	balance float64
	logger  *log.Logger
}

// NewTable returns a table using validated rules
func NewTable(rules config.Table, shoe *deck.Shoe, logger *log.Logger) *Table {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Table{
		rules:   rules,
		shoe:    shoe,
		balance: rules.HouseBalance(),
		logger:  logger.WithPrefix("table"),
	}
}

// Rules returns the table rules
func (t *Table) Rules() config.Table {
	return t.rules
}

// Balance returns the house bankroll
func (t *Table) Balance() float64 {
	return t.balance
}

// ResetBalance restores the house bankroll to its configured value
func (t *Table) ResetBalance() {
	t.balance = t.rules.HouseBalance()
}

// CanCover reports whether the house can pay the worst case of a round
// opened with bet, so its balance never goes negative mid-round.
func (t *Table) CanCover(bet int) bool {
	return t.balance >= t.MaxExposure(bet)
}

// MaxExposure is the most the house can lose on a round opened with bet:
// every split hand won, each doubled when doubling after a split is allowed.
// Naturals, a lone double and insurance all pay less than that.
func (t *Table) MaxExposure(bet int) float64 {
	perHand := 1.0
	if t.rules.DoubleAfterSplit {
		perHand = 2
	}
	return float64(config.MaxSplitHands) * perHand * float64(bet)
}

// Dealer returns the dealer's hand
func (t *Table) Dealer() *DealerHand {
	return &t.dealer
}

// Shoe returns the shoe being dealt from
func (t *Table) Shoe() *deck.Shoe {
	return t.shoe
}

// Reset clears the dealer's hand. The shoe is left as is.
func (t *Table) Reset() {
	t.dealer.reset()
}

// draw takes the next card, showing it to the strategy when shown is set.
// A shoe that runs out mid-round has its discards shuffled back in and the
// count starts over.
func (t *Table) draw(p *Player, shown bool) (deck.Card, error) {
	card, err := t.shoe.Draw()
	if errors.Is(err, deck.ErrShoeExhausted) && t.shoe.RecycleDiscards() {
		p.strategy.Reset()
		t.logger.Debug("Shoe ran out mid-round, reshuffled discards", "cards", t.shoe.Remaining())
		card, err = t.shoe.Draw()
	}
	if err != nil {
		return deck.Card{}, err
	}
	if shown {
		p.strategy.Update(card)
	}
	return card, nil
}

// DealHand deals the opening cards for a player whose bet is placed,
// offers insurance and settles naturals
func (t *Table) DealHand(p *Player) error {
	hand := p.CurrentHand()
	if hand == nil {
		return ErrNoActiveHand
	}

	if t.shoe.NeedsShuffle() {
		t.shoe.Shuffle(t.rules.Shuffles)
		p.strategy.Reset()
		t.logger.Debug("Shuffled shoe", "cards", t.shoe.Len())
	}
	t.shoe.StartRound()

	for i := 0; i < 2; i++ {
		card, err := t.draw(p, true)
		if err != nil {
			return err
		}
		hand.add(card)

		// Second dealer card is the hole card
		card, err = t.draw(p, i == 0)
		if err != nil {
			return err
		}
		t.dealer.add(card)
	}

	if t.dealer.UpCard().IsAce() && t.rules.Insurance && p.strategy.TakeInsurance() {
		stake := float64(hand.Bet) / 2
		if p.Balance >= stake {
			p.Balance -= stake
			p.insuranceStake = stake
		}
	}

	if t.dealer.IsBlackjack() {
		t.revealHole(p)
		t.settleInsurance(p, true)
		if hand.IsNatural() {
			hand.Blackjack = true
			t.settle(p, hand, Push)
		} else {
			t.settle(p, hand, Loss)
		}
		p.advance()
		return nil
	}
	t.settleInsurance(p, false)

	if hand.IsNatural() {
		hand.Blackjack = true
		hand.Resolved = true
		hand.Outcome = Win
		hand.Net = blackjackPayout * float64(hand.Bet)
		p.Balance += float64(hand.Bet) + hand.Net
		t.balance -= hand.Net
		p.advance()
	}
	return nil
}

func (t *Table) settleInsurance(p *Player, dealerBlackjack bool) {
	if p.insuranceStake == 0 {
		return
	}
	if dealerBlackjack {
		// Stake back plus 2:1
		p.insuranceNet = 2 * p.insuranceStake
		p.Balance += 3 * p.insuranceStake
	} else {
		p.insuranceNet = -p.insuranceStake
	}
	t.balance -= p.insuranceNet
}

func (t *Table) revealHole(p *Player) {
	if t.dealer.HoleRevealed || len(t.dealer.Cards) < 2 {
		return
	}
	t.dealer.HoleRevealed = true
	p.strategy.Update(t.dealer.Cards[1])
}

// settle pays or takes a finished hand at even money
func (t *Table) settle(p *Player, h *PlayerHand, outcome Outcome) {
	bet := float64(h.Bet)
	switch outcome {
	case Win:
		h.Net = bet
		p.Balance += 2 * bet
	case Push:
		h.Net = 0
		p.Balance += bet
	case Loss:
		h.Net = -bet
	}
	t.balance -= h.Net
	h.Outcome = outcome
	h.Resolved = true
}

// Options returns the legal actions for the player's current hand
func (t *Table) Options(p *Player) strategy.ActionSet {
	h := p.CurrentHand()
	if h == nil {
		return 0
	}

	options := strategy.NewActionSet(strategy.Hit, strategy.Stand)
	twoCards := len(h.Cards) == 2
	covered := p.Balance >= float64(h.Bet)

	if twoCards && covered && (!h.Split || t.rules.DoubleAfterSplit) {
		options = options.With(strategy.DoubleDown)
	}
	if h.IsPair() && covered && len(p.hands) < config.MaxSplitHands {
		options = options.With(strategy.Split)
	}
	if twoCards && !h.Split && len(p.hands) == 1 && t.rules.CanSurrenderAgainst(t.dealer.UpCard().Value()) {
		options = options.With(strategy.Surrender)
	}
	return options
}

// Decide asks the player's strategy for an action on the current hand
func (t *Table) Decide(p *Player) (strategy.Action, error) {
	if p.CurrentHand() == nil {
		return 0, ErrNoActiveHand
	}
	options := t.Options(p)
	action, err := p.strategy.Decide(p.tableState(t.dealer.UpCard(), t.shoe.Decks()), options)
	if err != nil {
		return 0, err
	}
	if !options.Contains(action) {
		return 0, fmt.Errorf("%w: %s not in %s", strategy.ErrNoValidOption, action, options)
	}
	return action, nil
}

// Play applies an action to the player's current hand
func (t *Table) Play(p *Player, action strategy.Action) error {
	h := p.CurrentHand()
	if h == nil {
		return ErrNoActiveHand
	}
	if !t.Options(p).Contains(action) {
		return fmt.Errorf("%w: %s", ErrIllegalAction, action)
	}

	switch action {
	case strategy.Hit:
		card, err := t.draw(p, true)
		if err != nil {
			return err
		}
		h.add(card)
		if h.Value.IsBust() {
			t.settle(p, h, Loss)
		}

	case strategy.Stand:
		h.Stood = true

	case strategy.DoubleDown:
		p.Balance -= float64(h.Bet)
		h.Bet *= 2
		h.Doubled = true
		card, err := t.draw(p, true)
		if err != nil {
			return err
		}
		h.add(card)
		if h.Value.IsBust() {
			t.settle(p, h, Loss)
		} else {
			h.Stood = true
		}

	case strategy.Split:
		p.Balance -= float64(h.Bet)
		second := &PlayerHand{Cards: []deck.Card{h.Cards[1]}, Bet: h.Bet, Split: true}
		second.Value = valueOf(second.Cards)
		h.Cards = h.Cards[:1]
		h.Value = valueOf(h.Cards)
		h.Split = true
		p.insertAfterCurrent(second)

		for _, sh := range []*PlayerHand{h, second} {
			card, err := t.draw(p, true)
			if err != nil {
				return err
			}
			sh.add(card)
		}

	case strategy.Surrender:
		half := float64(h.Bet) / 2
		h.Surrender = true
		h.Resolved = true
		h.Outcome = Loss
		h.Net = -half
		p.Balance += half
		t.balance += half
	}

	p.advance()
	return nil
}

// dealerShouldHit applies the soft 17 rule
func (t *Table) dealerShouldHit() bool {
	best := t.dealer.Value.Best()
	if best < 17 {
		return true
	}
	return best == 17 && t.dealer.Value.IsSoft() && t.rules.DealerHitsSoft17
}

// FinishHand plays out the dealer, settles every hand still waiting and
// returns the round's totals
func (t *Table) FinishHand(p *Player) (HandOutcome, error) {
	t.revealHole(p)

	waiting := false
	for _, h := range p.hands {
		if !h.Resolved && h.Bet > 0 {
			waiting = true
			break
		}
	}

	if waiting {
		for t.dealerShouldHit() {
			card, err := t.draw(p, true)
			if err != nil {
				return HandOutcome{}, err
			}
			t.dealer.add(card)
		}
	}

	dealerTotal := t.dealer.Value.Best()
	dealerBust := t.dealer.Value.IsBust()

	for _, h := range p.hands {
		if h.Resolved || h.Bet == 0 {
			continue
		}
		player := h.Value.Best()
		switch {
		case dealerBust || player > dealerTotal:
			t.settle(p, h, Win)
		case player == dealerTotal:
			t.settle(p, h, Push)
		default:
			t.settle(p, h, Loss)
		}
	}

	outcome := HandOutcome{
		InsuranceTaken: p.insuranceStake > 0,
		InsuranceNet:   p.insuranceNet,
		Net:            p.insuranceNet,
		Splits:         max(len(p.hands)-1, 0),
	}
	for _, h := range p.hands {
		switch h.Outcome {
		case Win:
			outcome.Wins++
		case Push:
			outcome.Pushes++
		case Loss:
			outcome.Losses++
		}
		if h.Blackjack {
			outcome.Blackjacks++
		}
		if h.Surrender {
			outcome.Surrenders++
		}
		if h.Doubled {
			outcome.Doubles++
		}
		outcome.Net += h.Net
	}

	t.logger.Debug("Finished hand",
		"dealer", t.dealer.Value.Best(),
		"hands", len(p.hands),
		"net", outcome.Net,
		"balance", p.Balance)

	return outcome, nil
}
