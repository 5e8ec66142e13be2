// Package statistics aggregates simulation outcomes. Summaries are plain
// counters, so partial results from any number of workers can be merged in
// any order.
package statistics

import "fmt"

// Summary is the outcome of one or more simulations of a strategy
type Summary struct {
	Label             string     `json:"label" yaml:"label"`
	Simulations       int        `json:"simulations" yaml:"simulations"`
	Wins              int        `json:"wins" yaml:"wins"`
	Pushes            int        `json:"pushes" yaml:"pushes"`
	Losses            int        `json:"losses" yaml:"losses"`
	EarlyEndings      int        `json:"early_endings" yaml:"early_endings"`
	Winnings          float64    `json:"winnings" yaml:"winnings"`
	Blackjacks        int        `json:"player_blackjacks" yaml:"player_blackjacks"`
	HandsPlayed       int        `json:"total_hands_played" yaml:"total_hands_played"`
	Surrenders        int        `json:"surrenders" yaml:"surrenders"`
	Doubles           int        `json:"doubles" yaml:"doubles"`
	Splits            int        `json:"splits" yaml:"splits"`
	InsuranceTaken    int        `json:"insurance_taken" yaml:"insurance_taken"`
	InsuranceWinnings float64    `json:"insurance_winnings" yaml:"insurance_winnings"`
	Rounds            Statistics `json:"rounds" yaml:"rounds"`
}

// NewSummary returns an empty summary for label
func NewSummary(label string) *Summary {
	return &Summary{Label: label}
}

// Merge adds other's counters to s. The label of s is kept unless empty.
func (s *Summary) Merge(other *Summary) {
	if other == nil {
		return
	}
	if s.Label == "" {
		s.Label = other.Label
	}
	s.Simulations += other.Simulations
	s.Wins += other.Wins
	s.Pushes += other.Pushes
	s.Losses += other.Losses
	s.EarlyEndings += other.EarlyEndings
	s.Winnings += other.Winnings
	s.Blackjacks += other.Blackjacks
	s.HandsPlayed += other.HandsPlayed
	s.Surrenders += other.Surrenders
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.InsuranceTaken += other.InsuranceTaken
	s.InsuranceWinnings += other.InsuranceWinnings
	s.Rounds.Merge(other.Rounds)
}

// Clone returns a deep copy
func (s *Summary) Clone() *Summary {
	c := *s
	return &c
}

func (s *Summary) ratio(n int) float64 {
	if s.HandsPlayed == 0 {
		return 0
	}
	return float64(n) / float64(s.HandsPlayed)
}

// WinPct returns wins over settled hands
func (s *Summary) WinPct() float64 { return s.ratio(s.Wins) }

// PushPct returns pushes over settled hands
func (s *Summary) PushPct() float64 { return s.ratio(s.Pushes) }

// LosePct returns losses over settled hands
func (s *Summary) LosePct() float64 { return s.ratio(s.Losses) }

// BlackjackPct returns naturals over settled hands
func (s *Summary) BlackjackPct() float64 { return s.ratio(s.Blackjacks) }

// EarlyEndingPct returns the share of simulations that ran out of money
func (s *Summary) EarlyEndingPct() float64 {
	if s.Simulations == 0 {
		return 0
	}
	return float64(s.EarlyEndings) / float64(s.Simulations)
}

// AvgWinningsPerHand returns winnings over settled hands
func (s *Summary) AvgWinningsPerHand() float64 {
	if s.HandsPlayed == 0 {
		return 0
	}
	return s.Winnings / float64(s.HandsPlayed)
}

// Validate checks the counters agree with each other
func (s *Summary) Validate() error {
	if s.Wins+s.Pushes+s.Losses != s.HandsPlayed {
		return fmt.Errorf("wins %d + pushes %d + losses %d != hands %d",
			s.Wins, s.Pushes, s.Losses, s.HandsPlayed)
	}
	if s.EarlyEndings > s.Simulations {
		return fmt.Errorf("early endings %d exceed simulations %d", s.EarlyEndings, s.Simulations)
	}
	if s.Surrenders > s.Losses {
		return fmt.Errorf("surrenders %d exceed losses %d", s.Surrenders, s.Losses)
	}
	return s.Rounds.Validate()
}
