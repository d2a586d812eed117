// Package strategy computes recommendations for casino ladder sessions. It
// reads session state and never mutates it: advising twice on the same
// state returns the same answer.
//
// Probabilities use a fixed full-deck rank composition rather than
// conditioning on cards already removed. Each non-reference rank is one of
// twelve equally likely outcomes, which is the composition behind the
// game's published odds table.
package strategy

import (
	"fmt"

	"github.com/lox/ridethebus/internal/casino"
	"github.com/lox/ridethebus/internal/deck"
)

// Recommended actions.
const (
	ActionNone        = "none"
	ActionPickRed     = "pick_red"
	ActionPickBlack   = "pick_black"
	ActionPickHigher  = "pick_higher"
	ActionPickLower   = "pick_lower"
	ActionPickInside  = "pick_inside"
	ActionPickOutside = "pick_outside"
	ActionCashOut     = "cash_out"
)

// PickSuit returns the action naming a round-4 suit pick.
func PickSuit(s deck.Suit) string {
	return "pick_" + s.Name()
}

// Recommendation is the advisor's output for one session state.
type Recommendation struct {
	// Action is the recommended move, one of the Action constants or a
	// PickSuit value.
	Action string

	// Probability is the chance the recommended guess resolves correctly,
	// or 1.0 for cash_out.
	Probability float64

	// ExpectedValue compares continuing against holding: probability times
	// the round multiplier for a pick, 1.0 for cash_out. Values above 1
	// favor continuing.
	ExpectedValue float64

	// Confidence is how strongly the advisor backs the action, 0 to 1.
	Confidence float64

	Reasoning string
}

// ProbHigher returns the chance a fresh draw ranks strictly above the
// reference: ranks above it out of the twelve non-reference ranks.
func ProbHigher(reference deck.Rank) float64 {
	return float64(deck.Ace-reference) / 12
}

// ProbLower returns the chance a fresh draw ranks strictly below the
// reference.
func ProbLower(reference deck.Rank) float64 {
	return float64(reference-deck.Two) / 12
}

// ProbInside returns the chance a fresh draw lands strictly between the
// bounds: the gap's interior ranks out of twelve.
func ProbInside(low, high deck.Rank) float64 {
	if high < low {
		low, high = high, low
	}
	gap := int(high - low)
	if gap <= 1 {
		return 0
	}
	return float64(gap-1) / 12
}

// ProbOutside returns the chance a fresh draw lands strictly outside the
// bounds. On-bound draws count for neither side, so inside and outside do
// not sum to one.
func ProbOutside(low, high deck.Rank) float64 {
	if high < low {
		low, high = high, low
	}
	return float64(12-int(high-low)) / 12
}

// ProbSuit returns the round-4 win chance given how many distinct suits the
// first three cards showed.
func ProbSuit(suitsSeen int) float64 {
	return 1 / float64(4-suitsSeen)
}

// Advise recommends an action for the session's current round.
func Advise(s *casino.Session) Recommendation {
	if s.Status().Terminal() {
		return Recommendation{
			Action:    ActionNone,
			Reasoning: fmt.Sprintf("session is %s, nothing left to decide", s.Status()),
		}
	}

	switch s.Round() {
	case 1:
		return adviseColor(s)
	case 2:
		return adviseDirection(s)
	case 3:
		return adviseRange(s)
	default:
		return adviseSuit(s)
	}
}

// Round 1 is a coin flip with no cash-out escape; the pick is arbitrary but
// consistent.
func adviseColor(s *casino.Session) Recommendation {
	return Recommendation{
		Action:        ActionPickRed,
		Probability:   0.5,
		ExpectedValue: 0.5 * s.RoundMultiplier(),
		Confidence:    0.5,
		Reasoning:     "even odds either way, red by convention",
	}
}

func adviseDirection(s *casino.Session) Recommendation {
	reference := s.Drawn()[0].Rank
	switch {
	case reference <= deck.Five:
		p := ProbHigher(reference)
		return Recommendation{
			Action:        ActionPickHigher,
			Probability:   p,
			ExpectedValue: p * s.RoundMultiplier(),
			Confidence:    0.8,
			Reasoning:     fmt.Sprintf("%s is low, %.0f%% of ranks beat it", reference, p*100),
		}
	case reference >= deck.Jack:
		p := ProbLower(reference)
		return Recommendation{
			Action:        ActionPickLower,
			Probability:   p,
			ExpectedValue: p * s.RoundMultiplier(),
			Confidence:    0.8,
			Reasoning:     fmt.Sprintf("%s is high, %.0f%% of ranks fall under it", reference, p*100),
		}
	default:
		return cashOut(fmt.Sprintf("%s sits in the danger zone, neither direction is safe", reference))
	}
}

func adviseRange(s *casino.Session) Recommendation {
	drawn := s.Drawn()
	low, high := drawn[0].Rank, drawn[1].Rank
	if low > high {
		low, high = high, low
	}
	gap := int(high - low)

	switch {
	case gap <= 2:
		p := ProbOutside(low, high)
		confidence := 0.95
		if gap == 2 {
			confidence = 0.85
		}
		return Recommendation{
			Action:        ActionPickOutside,
			Probability:   p,
			ExpectedValue: p * s.RoundMultiplier(),
			Confidence:    confidence,
			Reasoning:     fmt.Sprintf("%s and %s leave almost no room inside", low, high),
		}
	case gap >= 9:
		p := ProbInside(low, high)
		return Recommendation{
			Action:        ActionPickInside,
			Probability:   p,
			ExpectedValue: p * s.RoundMultiplier(),
			Confidence:    0.8,
			Reasoning:     fmt.Sprintf("a %d-rank spread favors inside at %.0f%%", gap, p*100),
		}
	default:
		return cashOut(fmt.Sprintf("a %d-rank spread is the danger zone, take the winnings", gap))
	}
}

func adviseSuit(s *casino.Session) Recommendation {
	unseen := s.UnseenSuits()
	suitsSeen := 4 - len(unseen)
	p := ProbSuit(suitsSeen)
	return Recommendation{
		Action:        PickSuit(unseen[0]),
		Probability:   p,
		ExpectedValue: p * s.RoundMultiplier(),
		Confidence:    0.7,
		Reasoning: fmt.Sprintf("%d of 4 suits are on the board, %s pays at %.0f%%",
			suitsSeen, unseen[0].Name(), p*100),
	}
}

func cashOut(reasoning string) Recommendation {
	return Recommendation{
		Action:        ActionCashOut,
		Probability:   1,
		ExpectedValue: 1,
		Confidence:    0.9,
		Reasoning:     reasoning,
	}
}
