package casino

import (
	"errors"
	"fmt"

	"github.com/lox/ridethebus/internal/deck"
)

var (
	// ErrInvalidState is returned when an operation is invoked against a
	// terminal session or the wrong round.
	ErrInvalidState = errors.New("operation not valid in current session state")

	// ErrInvalidGuess is returned when a guess value is outside the legal
	// set for the current round, including reselecting an already-drawn
	// suit in round 4.
	ErrInvalidGuess = errors.New("guess not valid for current round")
)

// Guess is the closed union of guess kinds. Each round accepts exactly one
// kind.
type Guess interface {
	guess()
}

// ColorGuess is the round-1 guess: red or black.
type ColorGuess struct {
	Color deck.Color
}

func (ColorGuess) guess() {}

// Direction is the round-2 comparison against the first drawn card.
type Direction int

const (
	Higher Direction = iota
	Lower
)

// String returns the string representation of a direction
func (d Direction) String() string {
	if d == Higher {
		return "higher"
	}
	return "lower"
}

// DirectionGuess is the round-2 guess: higher or lower. Equal rank counts
// as incorrect either way.
type DirectionGuess struct {
	Direction Direction
}

func (DirectionGuess) guess() {}

// Range is the round-3 position relative to the open interval between the
// first two drawn ranks.
type Range int

const (
	Inside Range = iota
	Outside
)

// String returns the string representation of a range position
func (r Range) String() string {
	if r == Inside {
		return "inside"
	}
	return "outside"
}

// RangeGuess is the round-3 guess: inside or outside. Landing on a bound
// counts as incorrect either way.
type RangeGuess struct {
	Range Range
}

func (RangeGuess) guess() {}

// SuitGuess is the round-4 guess: an exact suit not yet drawn this session.
type SuitGuess struct {
	Suit deck.Suit
}

func (SuitGuess) guess() {}

func describeGuess(g Guess) string {
	switch v := g.(type) {
	case ColorGuess:
		return v.Color.String()
	case DirectionGuess:
		return v.Direction.String()
	case RangeGuess:
		return v.Range.String()
	case SuitGuess:
		return v.Suit.Name()
	default:
		return fmt.Sprintf("%T", g)
	}
}

// Outcome is the result record returned by every mutating operation. The
// engine never stores outcomes.
type Outcome struct {
	Round      int
	Card       deck.Card
	Correct    bool
	Multiplier float64
	Status     Status
	Payout     float64
}
