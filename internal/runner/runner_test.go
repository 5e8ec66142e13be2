package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/strategy"
)

func testConfig(hands, runs int) Config {
	sim := config.DefaultSimulation()
	sim.Hands = hands
	sim.Runs = runs
	sim.Seed = 1234
	return Config{
		Table:      config.DefaultTable(),
		Simulation: sim,
		Logger:     log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
	}
}

func TestRunMergesEveryStrategy(t *testing.T) {
	cfg := testConfig(200, 10)
	decks := cfg.Table.Decks
	strategies := []strategy.Strategy{
		build(t, "hilo", decks),
		build(t, "ko", decks),
		build(t, "zencount", decks),
	}

	result, err := New(cfg).Run(context.Background(), strategies)
	require.NoError(t, err)
	require.Len(t, result.Strategies, 3)
	assert.Empty(t, result.Failures())

	for i, sr := range result.Strategies {
		assert.Equal(t, i+1, sr.ID)
		assert.Equal(t, strategies[i].Label(), sr.Label)
		assert.NoError(t, sr.Failure)
		require.NotNil(t, sr.Summary)
		require.NoError(t, sr.Summary.Validate())
		assert.Equal(t, sr.Label, sr.Summary.Label)
		assert.Equal(t, 10, sr.Summary.Simulations)
		assert.Equal(t, sr.Summary.Wins+sr.Summary.Pushes+sr.Summary.Losses, sr.Summary.HandsPlayed)
		assert.LessOrEqual(t, sr.Summary.Rounds.Count, 200*10)
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := testConfig(100, 4)
	run := func() *Result {
		result, err := New(cfg).Run(context.Background(), []strategy.Strategy{
			build(t, "hilo", cfg.Table.Decks),
			build(t, "omegaii", cfg.Table.Decks),
		})
		require.NoError(t, err)
		return result
	}

	first, second := run(), run()
	for i := range first.Strategies {
		assert.Equal(t, first.Strategies[i].Summary, second.Strategies[i].Summary)
	}
}

func TestRunWorkersUseDistinctShoes(t *testing.T) {
	cfg := testConfig(100, 3)
	result, err := New(cfg).Run(context.Background(), []strategy.Strategy{
		build(t, "hilo", cfg.Table.Decks),
		build(t, "hilo", cfg.Table.Decks),
	})
	require.NoError(t, err)

	// same strategy, different derived seeds
	assert.NotEqual(t, result.Strategies[0].Summary.Rounds, result.Strategies[1].Summary.Rounds)
}

func TestRunWithoutStrategies(t *testing.T) {
	_, err := New(testConfig(10, 1)).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoStrategies)
}

func TestRunFailFast(t *testing.T) {
	cfg := testConfig(200, 50)
	cfg.FailurePolicy = config.FailFast
	decks := cfg.Table.Decks

	bad := underBettor{Strategy: build(t, "halves", decks)}
	result, err := New(cfg).Run(context.Background(), []strategy.Strategy{
		build(t, "hilo", decks),
		bad,
		build(t, "ko", decks),
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, game.ErrBetBelowMinimum)

	var werr *WorkerError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, 2, werr.ID)
	assert.Equal(t, "Halves", werr.Label)
	assert.Contains(t, err.Error(), "Halves")
}

func TestRunContinueOnError(t *testing.T) {
	cfg := testConfig(100, 5)
	cfg.Simulation.FailurePolicy = string(config.ContinueOnError)
	decks := cfg.Table.Decks

	result, err := New(cfg).Run(context.Background(), []strategy.Strategy{
		build(t, "hilo", decks),
		underBettor{Strategy: build(t, "halves", decks)},
		build(t, "ko", decks),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrBetBelowMinimum)
	require.NotNil(t, result)
	require.Len(t, result.Strategies, 3)

	failed := result.Failures()
	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].ID)
	assert.Equal(t, "Halves", failed[0].Label)
	assert.Zero(t, failed[0].Summary.Simulations)

	for _, i := range []int{0, 2} {
		sr := result.Strategies[i]
		assert.False(t, sr.Failed())
		assert.Equal(t, 5, sr.Summary.Simulations)
	}
}

func TestRunCancelled(t *testing.T) {
	for _, policy := range []config.FailurePolicy{config.FailFast, config.ContinueOnError} {
		t.Run(string(policy), func(t *testing.T) {
			cfg := testConfig(100, 1000)
			cfg.FailurePolicy = policy

			gated := newGated(build(t, "hilo", cfg.Table.Decks))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			type outcome struct {
				result *Result
				err    error
			}
			done := make(chan outcome, 1)
			go func() {
				result, err := New(cfg).Run(ctx, []strategy.Strategy{gated})
				done <- outcome{result, err}
			}()

			<-gated.entered
			cancel()
			close(gated.gate)

			select {
			case out := <-done:
				require.Error(t, out.err)
				assert.ErrorIs(t, out.err, context.Canceled)
				if policy == config.ContinueOnError {
					require.NotNil(t, out.result)
					assert.True(t, out.result.Strategies[0].Failed())
					assert.Less(t, out.result.Strategies[0].Summary.Simulations, 1000)
				} else {
					assert.Nil(t, out.result)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("run did not stop after cancellation")
			}
		})
	}
}

func TestRunLogsProgress(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var buf bytes.Buffer
	cfg := testConfig(10, 2)
	cfg.Logger = log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	mClock := quartz.NewMock(t)
	cfg.Clock = mClock
	cfg.ProgressInterval = time.Second

	gated := newGated(build(t, "hilo", cfg.Table.Decks))
	r := New(cfg)

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, []strategy.Strategy{gated})
		done <- err
	}()

	// the ticker is registered before any worker starts
	<-gated.entered
	mClock.Advance(time.Second).MustWait(ctx)

	out := buf.String()
	assert.Contains(t, out, "Progress")
	assert.Contains(t, out, "runs=0")
	assert.Contains(t, out, "total=2")

	close(gated.gate)
	require.NoError(t, <-done)

	runs, rounds := r.Progress()
	assert.Equal(t, int64(2), runs)
	assert.Positive(t, rounds)
}

func TestRunWithoutProgress(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(10, 1)
	cfg.Logger = log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	cfg.Clock = quartz.NewMock(t)

	_, err := New(cfg).Run(context.Background(), []strategy.Strategy{build(t, "hilo", cfg.Table.Decks)})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Progress")
	assert.Contains(t, buf.String(), "Simulations complete")
}
