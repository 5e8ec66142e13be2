package statistics

import (
	"math"
	"testing"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdDev() != 0 {
		t.Errorf("Expected stddev of 0 for empty stats, got %f", stats.StdDev())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Empty stats should validate, got %v", err)
	}
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(7.5)

	if stats.Count != 1 {
		t.Errorf("Expected 1 round, got %d", stats.Count)
	}
	if stats.Mean() != 7.5 {
		t.Errorf("Expected mean of 7.5, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for single value, got %f", stats.Variance())
	}
	if stats.Min != 7.5 || stats.Max != 7.5 {
		t.Errorf("Expected min and max of 7.5, got %f and %f", stats.Min, stats.Max)
	}
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{10, -10, 15, 0, -5} {
		stats.Add(v)
	}

	if stats.Count != 5 {
		t.Errorf("Expected 5 rounds, got %d", stats.Count)
	}
	if stats.Mean() != 2 {
		t.Errorf("Expected mean of 2, got %f", stats.Mean())
	}

	// Sample variance: sum((x-2)^2) / 4 = (64+144+169+4+49)/4 = 107.5
	if math.Abs(stats.Variance()-107.5) > 1e-9 {
		t.Errorf("Expected variance of 107.5, got %f", stats.Variance())
	}
	if math.Abs(stats.StdDev()-math.Sqrt(107.5)) > 1e-9 {
		t.Errorf("Expected stddev of %f, got %f", math.Sqrt(107.5), stats.StdDev())
	}
	if stats.Min != -10 || stats.Max != 15 {
		t.Errorf("Expected range [-10, 15], got [%f, %f]", stats.Min, stats.Max)
	}

	lo, hi := stats.ConfidenceInterval95()
	margin := 1.96 * math.Sqrt(107.5) / math.Sqrt(5)
	if math.Abs(lo-(2-margin)) > 1e-9 || math.Abs(hi-(2+margin)) > 1e-9 {
		t.Errorf("Unexpected confidence interval [%f, %f]", lo, hi)
	}
}

func TestStatistics_MergeMatchesSequential(t *testing.T) {
	values := []float64{10, -10, 15, 0, -5, 7.5, -20, 5}

	var all Statistics
	for _, v := range values {
		all.Add(v)
	}

	var left, right Statistics
	for i, v := range values {
		if i%3 == 0 {
			left.Add(v)
		} else {
			right.Add(v)
		}
	}

	merged := Statistics{}
	merged.Merge(right)
	merged.Merge(left)

	if merged.Count != all.Count {
		t.Errorf("Expected %d rounds, got %d", all.Count, merged.Count)
	}
	if math.Abs(merged.Mean()-all.Mean()) > 1e-9 {
		t.Errorf("Expected mean %f, got %f", all.Mean(), merged.Mean())
	}
	if math.Abs(merged.Variance()-all.Variance()) > 1e-9 {
		t.Errorf("Expected variance %f, got %f", all.Variance(), merged.Variance())
	}
	if merged.Min != all.Min || merged.Max != all.Max {
		t.Errorf("Expected range [%f, %f], got [%f, %f]", all.Min, all.Max, merged.Min, merged.Max)
	}
}

func TestStatistics_MergeEmpty(t *testing.T) {
	var s Statistics
	s.Add(-3)
	s.Merge(Statistics{})

	if s.Count != 1 || s.Min != -3 || s.Max != -3 {
		t.Errorf("Merging an empty accumulator changed the result: %+v", s)
	}
}

func TestStatistics_ConstantSamples(t *testing.T) {
	var s Statistics
	for i := 0; i < 1000; i++ {
		s.Add(0.1)
	}
	if s.Variance() < 0 {
		t.Errorf("Variance must not be negative, got %g", s.Variance())
	}
}
