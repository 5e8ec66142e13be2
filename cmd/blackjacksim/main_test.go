package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/report"
)

func ptr[T any](v T) *T { return &v }

func TestParseFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"run", "--hands", "50", "-n", "3", "-s", "hilo", "-s", "ko", "--format", "json", "--progress", "0"})
	require.NoError(t, err)
	assert.Equal(t, "run", ctx.Command())
	require.NotNil(t, cli.Run.Hands)
	assert.Equal(t, 50, *cli.Run.Hands)
	assert.Equal(t, 3, *cli.Run.Runs)
	assert.Nil(t, cli.Run.Seed)
	assert.Equal(t, []string{"hilo", "ko"}, cli.Run.System)
	assert.Equal(t, "s17-deviations", cli.Run.Decision)
	assert.Equal(t, 2.0, cli.Run.Margin)
	assert.Zero(t, cli.Run.Progress)
}

func TestRunJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := &RunCmd{
		Config: filepath.Join(t.TempDir(), "missing.hcl"),
		Hands:  ptr(100),
		Runs:   ptr(3),
		Seed:   ptr(int64(7)),
		System: []string{"hilo", "wong-halves"},
		Format: "json",
	}

	err := cmd.run(context.Background(), &stdout, &stderr, quartz.NewMock(t))
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rep))
	assert.Equal(t, int64(7), rep.Simulation.Seed)
	assert.Equal(t, 100, rep.Simulation.Hands)
	require.Len(t, rep.Strategies, 2)
	assert.Equal(t, "HiLo", rep.Strategies[0].Label)
	assert.Equal(t, "WongHalves", rep.Strategies[1].Label)
	for _, s := range rep.Strategies {
		assert.Equal(t, 3, s.Simulations)
		assert.Equal(t, s.Wins+s.Pushes+s.Losses, s.HandsPlayed)
	}
	assert.Contains(t, stderr.String(), "Using deterministic seed")
}

func TestRunFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "sim.hcl")
	reportPath := filepath.Join(dir, "out.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
simulation {
  hands = 50
  runs  = 2
  seed  = 3
}

output {
  format    = "yaml"
  log_level = "warn"
}

strategy "ko-flat" {
  counting = "ko"
  betting  = "flat"
}
`), 0644))

	var stdout, stderr bytes.Buffer
	cmd := &RunCmd{Config: configPath, Output: reportPath}
	require.NoError(t, cmd.run(context.Background(), &stdout, &stderr, quartz.NewMock(t)))

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String(), "info logs suppressed at warn")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "label: ko-flat")
}

func TestRunInvalidOverrides(t *testing.T) {
	tests := []struct {
		name string
		cmd  RunCmd
		want string
	}{
		{"zero hands", RunCmd{Hands: ptr(0)}, "hands must be at least 1"},
		{"unknown system", RunCmd{System: []string{"abacus"}}, "unknown counting system"},
		{"bad policy", RunCmd{FailurePolicy: "retry"}, "invalid failure_policy"},
		{"bad format", RunCmd{Format: "csv", Hands: ptr(1), Runs: ptr(1)}, "unknown report format"},
		{"bad log level", RunCmd{LogLevel: "loud"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			cmd.Config = filepath.Join(t.TempDir(), "missing.hcl")
			var stdout, stderr bytes.Buffer
			err := cmd.run(context.Background(), &stdout, &stderr, quartz.NewMock(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := &RunCmd{
		Config: filepath.Join(t.TempDir(), "missing.hcl"),
		Seed:   ptr(int64(1)),
		System: []string{"hilo"},
	}
	var stdout, stderr bytes.Buffer
	err := cmd.run(ctx, &stdout, &stderr, quartz.NewMock(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

func TestSystems(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&SystemsCmd{Decks: 6}).render(&buf))

	out := buf.String()
	for _, name := range []string{"HiLo", "KO", "RedSeven", "UnbalancedZenII"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "-20", "KO starts six decks at 4-4*6")
	assert.Contains(t, out, "0/+1", "red sevens count")

	assert.Error(t, (&SystemsCmd{Decks: 0}).render(&buf))
}

func TestFormatTag(t *testing.T) {
	assert.Equal(t, "+1", formatTag(1))
	assert.Equal(t, "0", formatTag(0))
	assert.Equal(t, "-0.5", formatTag(-0.5))
	assert.Equal(t, "+1.5", formatTag(1.5))
}
