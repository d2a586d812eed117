package engine

import "errors"

var (
	// ErrInvalidState is returned when an operation is invoked against the
	// wrong phase, round, or player turn.
	ErrInvalidState = errors.New("operation not valid in current game state")

	// ErrInvalidGuess is returned when a guess value is outside the legal
	// set for the current round.
	ErrInvalidGuess = errors.New("guess not valid for current round")

	// ErrEmptyHand is returned when a pyramid match is attempted without a
	// matching card in hand.
	ErrEmptyHand = errors.New("no matching card in hand")
)
