// Package report turns runner results into a report and writes it as
// text, JSON or YAML.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/runner"
	"github.com/lox/blackjacksim/internal/statistics"
)

// Format selects the report encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat parses a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
}

// Report is the outcome of a run of every configured strategy
type Report struct {
	RunID           string            `json:"run_id" yaml:"run_id"`
	GeneratedAt     time.Time         `json:"generated_at" yaml:"generated_at"`
	DurationSeconds float64           `json:"duration_seconds" yaml:"duration_seconds"`
	Table           config.Table      `json:"table" yaml:"table"`
	Simulation      config.Simulation `json:"simulation" yaml:"simulation"`
	Strategies      []StrategyReport  `json:"strategies" yaml:"strategies"`
}

// StrategyReport holds the merged counters of one strategy and the figures
// derived from them. Percentages are in the range 0-100.
type StrategyReport struct {
	ID     int    `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Failed bool   `json:"failed,omitempty" yaml:"failed,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`

	Simulations       int     `json:"simulations" yaml:"simulations"`
	Wins              int     `json:"wins" yaml:"wins"`
	Pushes            int     `json:"pushes" yaml:"pushes"`
	Losses            int     `json:"losses" yaml:"losses"`
	EarlyEndings      int     `json:"early_endings" yaml:"early_endings"`
	Winnings          float64 `json:"winnings" yaml:"winnings"`
	Blackjacks        int     `json:"player_blackjacks" yaml:"player_blackjacks"`
	HandsPlayed       int     `json:"total_hands_played" yaml:"total_hands_played"`
	Surrenders        int     `json:"surrenders" yaml:"surrenders"`
	Doubles           int     `json:"doubles" yaml:"doubles"`
	Splits            int     `json:"splits" yaml:"splits"`
	InsuranceTaken    int     `json:"insurance_taken" yaml:"insurance_taken"`
	InsuranceWinnings float64 `json:"insurance_winnings" yaml:"insurance_winnings"`

	WinPct             float64 `json:"win_pct" yaml:"win_pct"`
	PushPct            float64 `json:"push_pct" yaml:"push_pct"`
	LosePct            float64 `json:"lose_pct" yaml:"lose_pct"`
	BlackjackPct       float64 `json:"blackjack_pct" yaml:"blackjack_pct"`
	EarlyEndingPct     float64 `json:"early_ending_pct" yaml:"early_ending_pct"`
	AvgWinningsPerHand float64 `json:"avg_winnings_per_hand" yaml:"avg_winnings_per_hand"`

	Rounds      int     `json:"rounds" yaml:"rounds"`
	RoundMean   float64 `json:"round_mean" yaml:"round_mean"`
	RoundStdDev float64 `json:"round_stddev" yaml:"round_stddev"`
	CI95Low     float64 `json:"ci_95_low" yaml:"ci_95_low"`
	CI95High    float64 `json:"ci_95_high" yaml:"ci_95_high"`
}

// New builds a report from a run result
func New(result *runner.Result, table config.Table, sim config.Simulation, generatedAt time.Time) *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: generatedAt.UTC(),
		Table:       table,
		Simulation:  sim,
	}
	if result == nil {
		return r
	}

	r.DurationSeconds = result.Elapsed.Seconds()
	for _, sr := range result.Strategies {
		entry := FromSummary(sr.ID, sr.Summary)
		entry.Label = sr.Label
		if sr.Failure != nil {
			entry.Failed = true
			entry.Error = sr.Failure.Error()
		}
		r.Strategies = append(r.Strategies, entry)
	}
	return r
}

// FromSummary derives a strategy entry from a merged summary
func FromSummary(id int, s *statistics.Summary) StrategyReport {
	if s == nil {
		return StrategyReport{ID: id}
	}
	low, high := s.Rounds.ConfidenceInterval95()
	return StrategyReport{
		ID:                 id,
		Label:              s.Label,
		Simulations:        s.Simulations,
		Wins:               s.Wins,
		Pushes:             s.Pushes,
		Losses:             s.Losses,
		EarlyEndings:       s.EarlyEndings,
		Winnings:           s.Winnings,
		Blackjacks:         s.Blackjacks,
		HandsPlayed:        s.HandsPlayed,
		Surrenders:         s.Surrenders,
		Doubles:            s.Doubles,
		Splits:             s.Splits,
		InsuranceTaken:     s.InsuranceTaken,
		InsuranceWinnings:  s.InsuranceWinnings,
		WinPct:             100 * s.WinPct(),
		PushPct:            100 * s.PushPct(),
		LosePct:            100 * s.LosePct(),
		BlackjackPct:       100 * s.BlackjackPct(),
		EarlyEndingPct:     100 * s.EarlyEndingPct(),
		AvgWinningsPerHand: s.AvgWinningsPerHand(),
		Rounds:             s.Rounds.Count,
		RoundMean:          s.Rounds.Mean(),
		RoundStdDev:        s.Rounds.StdDev(),
		CI95Low:            low,
		CI95High:           high,
	}
}

// Best returns the entry with the highest average winnings per hand among
// strategies that did not fail
func (r *Report) Best() (StrategyReport, bool) {
	var best StrategyReport
	found := false
	for _, s := range r.Strategies {
		if s.Failed || s.HandsPlayed == 0 {
			continue
		}
		if !found || s.AvgWinningsPerHand > best.AvgWinningsPerHand {
			best = s
			found = true
		}
	}
	return best, found
}
