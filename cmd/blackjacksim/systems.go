package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/strategy"
)

// SystemsCmd lists every counting system
type SystemsCmd struct {
	Decks int `default:"6" help:"Decks used to compute the initial running count"`
}

func (c *SystemsCmd) Run() error {
	return c.render(os.Stdout)
}

func (c *SystemsCmd) render(w io.Writer) error {
	if c.Decks < 1 {
		return fmt.Errorf("decks must be at least 1, got %d", c.Decks)
	}

	renderer := lipgloss.NewRenderer(w)
	header := renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := renderer.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	headers := []string{"System", "Balanced", "IRC"}
	for _, rank := range deck.Ranks {
		headers = append(headers, rank.String())
	}

	rows := make([][]string, 0, len(strategy.Systems))
	for _, s := range strategy.Systems {
		row := []string{
			s.String(),
			strconv.FormatBool(s.Balanced()),
			formatTag(s.InitialCount(c.Decks)),
		}
		for _, rank := range deck.Ranks {
			black := s.Value(deck.NewCard(deck.Spades, rank))
			red := s.Value(deck.NewCard(deck.Hearts, rank))
			tag := formatTag(black)
			if red != black {
				tag += "/" + formatTag(red)
			}
			row = append(row, tag)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 0 {
				return cell.Align(lipgloss.Left)
			}
			return cell
		})

	_, err := fmt.Fprintln(w, t.String())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "Tags shown as black/red where the colour of the card matters.")
	return err
}

func formatTag(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}
