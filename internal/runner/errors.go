package runner

import (
	"errors"
	"fmt"
)

// ErrNoStrategies is returned when Run is called without any strategy
var ErrNoStrategies = errors.New("no strategies to simulate")

// WorkerError records which strategy's worker failed
type WorkerError struct {
	ID    int
	Label string
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("strategy %q (id %d): %v", e.Label, e.ID, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}
