package engine

import (
	"github.com/lox/ridethebus/internal/deck"
)

// Phase is the social game's top-level state. Transitions are forward-only:
// Deal -> Pyramid -> Bus -> Finished.
type Phase int

const (
	PhaseDeal Phase = iota
	PhasePyramid
	PhaseBus
	PhaseFinished
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseDeal:
		return "deal"
	case PhasePyramid:
		return "pyramid"
	case PhaseBus:
		return "bus"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Round identifies a deal-phase round.
type Round int

const (
	Round1 Round = iota + 1 // color
	Round2                  // higher/lower
	Round3                  // inside/outside
	Round4                  // suit
)

// String returns the string representation of a round
func (r Round) String() string {
	switch r {
	case Round1:
		return "R1"
	case Round2:
		return "R2"
	case Round3:
		return "R3"
	case Round4:
		return "R4"
	default:
		return "?"
	}
}

// Guess is the closed union of guess kinds. Each round accepts exactly one
// kind; anything else fails with ErrInvalidGuess before any card is drawn.
type Guess interface {
	guess()
}

// ColorGuess is the R1 guess: red or black.
type ColorGuess struct {
	Color deck.Color
}

func (ColorGuess) guess() {}

// Direction is the R2 comparison against the player's first card.
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

// DirectionGuess is the R2 guess: higher or lower.
type DirectionGuess struct {
	Direction Direction
}

func (DirectionGuess) guess() {}

// Range is the R3 position relative to the open interval between the
// player's first two card ranks.
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

// RangeGuess is the R3 guess: inside or outside.
type RangeGuess struct {
	Range Range
}

func (RangeGuess) guess() {}

// SuitGuess is the R4 guess: an exact suit.
type SuitGuess struct {
	Suit deck.Suit
}

func (SuitGuess) guess() {}

// Player is a participant in a social game. Join order is the player's
// index in Game.Players and never changes.
type Player struct {
	ID             string
	Name           string
	Hand           []deck.Card
	DrinksAssigned int
	DrinksReceived int
	IsRider        bool
}

// HighestCard returns the player's highest remaining hand card rank,
// or zero if the hand is empty.
func (p *Player) HighestCard() deck.Rank {
	var best deck.Rank
	for _, c := range p.Hand {
		if c.Rank > best {
			best = c.Rank
		}
	}
	return best
}

// hasRank reports whether the hand holds at least one card of the rank.
func (p *Player) hasRank(r deck.Rank) bool {
	for _, c := range p.Hand {
		if c.Rank == r {
			return true
		}
	}
	return false
}

// removeCard removes an exact card from the hand, reporting success.
func (p *Player) removeCard(card deck.Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// Outcome is the result record returned by every mutating operation. The
// engine never stores outcomes; broadcasting and persisting them is the
// caller's job.
type Outcome struct {
	Phase    Phase
	Round    Round
	PlayerID string

	Card    deck.Card
	Correct bool

	// Penalty is the drinks charged to the acting player, Reward the drinks
	// they may hand out, Drinks the amount assigned to another player
	// (pyramid commits and bus flips).
	Penalty int
	Reward  int
	Drinks  int

	// Reshuffles counts boundary redraws consumed resolving R2/R3.
	Reshuffles int

	// RowValue is the drink value of the current pyramid row.
	RowValue int

	// PhaseComplete is set when this action finished the current phase.
	PhaseComplete bool
}

// pyramidCell is one slot in the pyramid layout.
type pyramidCell struct {
	Card   deck.Card
	FaceUp bool
}
