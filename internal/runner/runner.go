// Package runner simulates several strategies concurrently, one worker per
// strategy, and merges their summaries as they arrive.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/randutil"
	"github.com/lox/blackjacksim/internal/simulator"
	"github.com/lox/blackjacksim/internal/statistics"
	"github.com/lox/blackjacksim/internal/strategy"
)

// Config holds configuration for a multi-strategy run
type Config struct {
	Table      config.Table
	Simulation config.Simulation
	Logger     *log.Logger
	Clock      quartz.Clock

	// FailurePolicy overrides Simulation.FailurePolicy when set
	FailurePolicy config.FailurePolicy

	// ProgressInterval is how often progress is logged. Zero disables it.
	ProgressInterval time.Duration
}

// StrategyResult is the merged outcome of one strategy
type StrategyResult struct {
	ID      int
	Label   string
	Summary *statistics.Summary
	Failure error
}

// Failed reports whether the strategy's worker stopped with an error
func (r StrategyResult) Failed() bool {
	return r.Failure != nil
}

// Result is the outcome of a run, ordered by strategy id
type Result struct {
	Strategies []StrategyResult
	Elapsed    time.Duration
}

// Failures returns the strategies whose workers failed
func (r *Result) Failures() []StrategyResult {
	var failed []StrategyResult
	for _, s := range r.Strategies {
		if s.Failed() {
			failed = append(failed, s)
		}
	}
	return failed
}

// Runner runs strategies concurrently
type Runner struct {
	config Config
	policy config.FailurePolicy
	clock  quartz.Clock
	logger *log.Logger

	runsDone   atomic.Int64
	roundsDone atomic.Int64
}

// New creates a runner
func New(cfg Config) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	policy := cfg.FailurePolicy
	if policy == "" {
		policy = cfg.Simulation.Policy()
	}
	return &Runner{
		config: cfg,
		policy: policy,
		clock:  cfg.Clock,
		logger: cfg.Logger.WithPrefix("runner"),
	}
}

// Run simulates every strategy on its own goroutine. Strategies are given
// ids 1..len(strategies) in order. Under FailFast the first worker error
// cancels the others and is returned with a nil result. Under
// ContinueOnError the result holds every strategy, failures flagged, and
// the returned error joins all worker errors.
func (r *Runner) Run(ctx context.Context, strategies []strategy.Strategy) (*Result, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}

	start := r.clock.Now()
	r.runsDone.Store(0)
	r.roundsDone.Store(0)

	ids := make([]int, len(strategies))
	for i := range strategies {
		ids[i] = i + 1
	}

	agg := NewAggregator(ids)
	go agg.Run()

	progressCtx, stopProgress := context.WithCancel(ctx)
	defer stopProgress()
	if r.config.ProgressInterval > 0 {
		total := int64(len(strategies) * r.config.Simulation.Runs)
		r.clock.TickerFunc(progressCtx, r.config.ProgressInterval, func() error {
			r.logProgress(total)
			return nil
		}, "runner", "progress")
	}

	r.logger.Info("Starting simulations",
		"strategies", len(strategies),
		"runs", r.config.Simulation.Runs,
		"hands", r.config.Simulation.Hands,
		"policy", r.policy)

	var g *errgroup.Group
	workCtx := ctx
	if r.policy == config.ContinueOnError {
		g = &errgroup.Group{}
	} else {
		g, workCtx = errgroup.WithContext(ctx)
	}

	failures := make([]error, len(strategies))
	for i, s := range strategies {
		id := ids[i]
		g.Go(func() error {
			if err := r.runWorker(workCtx, agg, id, s); err != nil {
				werr := &WorkerError{ID: id, Label: s.Label(), Err: err}
				failures[i] = werr
				return werr
			}
			return nil
		})
	}

	waitErr := g.Wait()
	agg.Wait()
	stopProgress()

	elapsed := r.clock.Since(start)

	if r.policy != config.ContinueOnError && waitErr != nil {
		r.logger.Error("Simulation aborted", "error", waitErr)
		return nil, waitErr
	}

	result := &Result{Elapsed: elapsed}
	for i, s := range strategies {
		summary, ok := agg.Summary(ids[i])
		if !ok {
			summary = statistics.NewSummary(s.Label())
		}
		result.Strategies = append(result.Strategies, StrategyResult{
			ID:      ids[i],
			Label:   s.Label(),
			Summary: summary,
			Failure: failures[i],
		})
	}

	r.logger.Info("Simulations complete",
		"strategies", len(strategies),
		"failed", len(result.Failures()),
		"elapsed", elapsed.Round(time.Millisecond))

	return result, errors.Join(failures...)
}

// runWorker simulates one strategy, always finishing with an end-of-stream
// marker so the aggregator can complete.
func (r *Runner) runWorker(ctx context.Context, agg *Aggregator, id int, s strategy.Strategy) (err error) {
	defer func() {
		if serr := agg.Send(context.Background(), Update{ID: id}); serr != nil && err == nil {
			err = fmt.Errorf("end of stream: %w", serr)
		}
	}()

	sim := simulator.New(simulator.Config{
		Table:  r.config.Table,
		Hands:  r.config.Simulation.Hands,
		Runs:   r.config.Simulation.Runs,
		Seed:   randutil.Derive(r.config.Simulation.Seed, id),
		Logger: r.config.Logger,
	}, s)

	r.logger.Debug("Worker started", "id", id, "strategy", s.Label())

	return sim.Run(ctx, func(summary *statistics.Summary) error {
		r.runsDone.Add(1)
		r.roundsDone.Add(int64(summary.Rounds.Count))
		return agg.Send(ctx, Update{ID: id, Summary: summary})
	})
}

func (r *Runner) logProgress(total int64) {
	r.logger.Info("Progress",
		"runs", r.runsDone.Load(),
		"total", total,
		"rounds", r.roundsDone.Load())
}

// Progress returns the number of completed simulations and rounds played
// so far in the current run.
func (r *Runner) Progress() (runs, rounds int64) {
	return r.runsDone.Load(), r.roundsDone.Load()
}
