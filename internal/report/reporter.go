package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// ErrWriteFailed wraps any failure to write a report
var ErrWriteFailed = errors.New("failed to write report")

// Reporter writes reports to a writer
type Reporter struct {
	writer   io.Writer
	logger   *log.Logger
	renderer *lipgloss.Renderer
}

// Option configures a Reporter
type Option func(*Reporter)

// WithoutColor renders text reports without ANSI styling
func WithoutColor() Option {
	return func(r *Reporter) {
		r.renderer.SetColorProfile(termenv.Ascii)
	}
}

// NewReporter creates a reporter writing to writer, or stdout when nil
func NewReporter(writer io.Writer, logger *log.Logger, opts ...Option) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Reporter{
		writer:   writer,
		logger:   logger.WithPrefix("report"),
		renderer: lipgloss.NewRenderer(writer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Write encodes report in format to the reporter's writer
func (r *Reporter) Write(report *Report, format Format) error {
	data, err := r.Encode(report, format)
	if err != nil {
		return err
	}
	if _, err := r.writer.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// WriteFile encodes report in format and atomically replaces filename
func (r *Reporter) WriteFile(filename string, report *Report, format Format) error {
	data, err := r.Encode(report, format)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filename, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	r.logger.Info("Report written", "file", filename, "format", format, "run_id", report.RunID)
	return nil
}

// Encode renders report in format
func (r *Reporter) Encode(report *Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
		return data, nil
	case FormatText, "":
		return []byte(r.renderText(report)), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrWriteFailed, format)
}

var headers = []string{
	"#", "Strategy", "Sims", "Hands", "Win %", "Push %", "Lose %", "BJ %",
	"Early %", "Winnings", "Avg/Hand", "StdDev", "95% CI",
}

func (r *Reporter) renderText(report *Report) string {
	var (
		title  = r.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
		muted  = r.renderer.NewStyle().Foreground(lipgloss.Color("#626262"))
		header = r.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Padding(0, 1)
		cell   = r.renderer.NewStyle().Padding(0, 1)
		number = cell.Align(lipgloss.Right)
		win    = number.Foreground(lipgloss.Color("#96CEB4"))
		loss   = number.Foreground(lipgloss.Color("#FF6B6B"))
		failed = cell.Foreground(lipgloss.Color("#FFEAA7"))
	)

	rows := make([][]string, 0, len(report.Strategies))
	for _, s := range report.Strategies {
		label := s.Label
		if s.Failed {
			label += " (failed)"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			label,
			strconv.Itoa(s.Simulations),
			strconv.Itoa(s.HandsPlayed),
			fmt.Sprintf("%.2f", s.WinPct),
			fmt.Sprintf("%.2f", s.PushPct),
			fmt.Sprintf("%.2f", s.LosePct),
			fmt.Sprintf("%.2f", s.BlackjackPct),
			fmt.Sprintf("%.2f", s.EarlyEndingPct),
			fmt.Sprintf("%.2f", s.Winnings),
			fmt.Sprintf("%.4f", s.AvgWinningsPerHand),
			fmt.Sprintf("%.2f", s.RoundStdDev),
			fmt.Sprintf("[%.3f, %.3f]", s.CI95Low, s.CI95High),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row < 0 || row >= len(report.Strategies):
				return cell
			case col == 1 && report.Strategies[row].Failed:
				return failed
			case col == 1:
				return cell
			case col == 9 && report.Strategies[row].Winnings > 0:
				return win
			case col == 9 && report.Strategies[row].Winnings < 0:
				return loss
			}
			return number
		})

	var buf bytes.Buffer
	fmt.Fprintln(&buf, title.Render("Blackjack simulation report"))
	fmt.Fprintln(&buf, muted.Render(fmt.Sprintf("run %s at %s, %.1fs",
		report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"), report.DurationSeconds)))
	fmt.Fprintf(&buf, "%d decks, min bet %d, balance %.0f, %d runs of %d hands, seed %d\n",
		report.Table.Decks, report.Table.MinBet, report.Table.PlayerBalance,
		report.Simulation.Runs, report.Simulation.Hands, report.Simulation.Seed)
	fmt.Fprintln(&buf, t.String())

	if best, ok := report.Best(); ok {
		fmt.Fprintf(&buf, "Best: %s (%.4f per hand)\n", best.Label, best.AvgWinningsPerHand)
	}
	for _, s := range report.Strategies {
		if s.Failed {
			fmt.Fprintln(&buf, failed.UnsetPadding().Render(fmt.Sprintf("%s failed: %s", s.Label, s.Error)))
		}
	}
	return buf.String()
}
