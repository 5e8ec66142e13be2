package statistics

import (
	"fmt"
	"math"
)

// Statistics accumulates per-round results in units of money. It keeps
// sums rather than samples so that partial results can be merged.
type Statistics struct {
	Count int     `json:"count" yaml:"count"`
	Sum   float64 `json:"sum" yaml:"sum"`
	SumSq float64 `json:"sum_sq" yaml:"sum_sq"` // Sum of squares for variance calculation
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// Add incorporates one round's net result
func (s *Statistics) Add(value float64) {
	if s.Count == 0 || value < s.Min {
		s.Min = value
	}
	if s.Count == 0 || value > s.Max {
		s.Max = value
	}
	s.Count++
	s.Sum += value
	s.SumSq += value * value
}

// Merge folds other into s. Merging is commutative and associative.
func (s *Statistics) Merge(other Statistics) {
	if other.Count == 0 {
		return
	}
	if s.Count == 0 {
		*s = other
		return
	}
	s.Min = math.Min(s.Min, other.Min)
	s.Max = math.Max(s.Max, other.Max)
	s.Count += other.Count
	s.Sum += other.Sum
	s.SumSq += other.SumSq
}

// Mean returns the arithmetic mean per round
func (s *Statistics) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.Count)*mean*mean) / float64(s.Count-1)
	// Cancellation can leave a tiny negative value for constant samples
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Count))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Validate checks the accumulator is internally consistent
func (s *Statistics) Validate() error {
	if s.Count < 0 {
		return fmt.Errorf("invalid round count: %d", s.Count)
	}
	if s.Count > 0 && s.Min > s.Max {
		return fmt.Errorf("min %.2f exceeds max %.2f", s.Min, s.Max)
	}
	if s.Count > 0 && (s.Mean() < s.Min-1e-9 || s.Mean() > s.Max+1e-9) {
		return fmt.Errorf("mean %.4f outside [%.2f, %.2f]", s.Mean(), s.Min, s.Max)
	}
	return nil
}
