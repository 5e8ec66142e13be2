package game

import "errors"

var (
	// ErrBetBelowMinimum is returned when a strategy bets under the table minimum
	ErrBetBelowMinimum = errors.New("bet below table minimum")
	// ErrBetExceedsBalance is returned when a strategy bets more than it holds
	ErrBetExceedsBalance = errors.New("bet exceeds balance")
	// ErrIllegalAction is returned when an action is not in the legal set
	ErrIllegalAction = errors.New("illegal action")
	// ErrNoActiveHand is returned when acting after every hand is finished
	ErrNoActiveHand = errors.New("no active hand")
)
