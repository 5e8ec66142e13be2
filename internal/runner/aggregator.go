package runner

import (
	"context"
	"errors"
	"sort"

	"github.com/lox/blackjacksim/internal/statistics"
)

// ErrAggregatorClosed is returned by Send once the aggregator has stopped
// receiving updates.
var ErrAggregatorClosed = errors.New("aggregator closed")

// Update carries one simulation summary from a worker. A nil Summary marks
// the end of that worker's stream.
type Update struct {
	ID      int
	Summary *statistics.Summary
}

// Done reports whether u is an end-of-stream marker
func (u Update) Done() bool {
	return u.Summary == nil
}

// Aggregator merges updates from many workers into one summary per id
type Aggregator struct {
	updates   chan Update
	done      chan struct{}
	pending   map[int]struct{}
	summaries map[int]*statistics.Summary
}

// NewAggregator creates an aggregator that waits for an end-of-stream
// marker from every id in ids.
func NewAggregator(ids []int) *Aggregator {
	pending := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		pending[id] = struct{}{}
	}
	return &Aggregator{
		updates:   make(chan Update, len(ids)),
		done:      make(chan struct{}),
		pending:   pending,
		summaries: make(map[int]*statistics.Summary, len(ids)),
	}
}

// Send delivers u to the aggregator. It blocks until the update is
// accepted, ctx is done, or the aggregator has finished.
func (a *Aggregator) Send(ctx context.Context, u Update) error {
	select {
	case <-a.done:
		return ErrAggregatorClosed
	default:
	}

	select {
	case a.updates <- u:
		return nil
	case <-a.done:
		return ErrAggregatorClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run receives updates until every pending id has sent its end-of-stream
// marker. It must be called exactly once.
func (a *Aggregator) Run() {
	defer close(a.done)

	for len(a.pending) > 0 {
		u := <-a.updates
		if u.Done() {
			delete(a.pending, u.ID)
			continue
		}

		summary, ok := a.summaries[u.ID]
		if !ok {
			summary = statistics.NewSummary(u.Summary.Label)
			a.summaries[u.ID] = summary
		}
		summary.Merge(u.Summary)
	}
}

// Wait blocks until Run has returned
func (a *Aggregator) Wait() {
	<-a.done
}

// Summaries returns the merged summary of every id that sent at least one
// update, ordered by id. Call it after Run has returned.
func (a *Aggregator) Summaries() []Update {
	results := make([]Update, 0, len(a.summaries))
	for id, summary := range a.summaries {
		results = append(results, Update{ID: id, Summary: summary})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

// Summary returns the merged summary for id, if any
func (a *Aggregator) Summary(id int) (*statistics.Summary, bool) {
	s, ok := a.summaries[id]
	return s, ok
}
