package engine

import (
	"time"

	"github.com/lox/ridethebus/internal/deck"
)

// EventType identifies an entry in the game's event log.
type EventType string

const (
	EventGameCreated       EventType = "game_created"
	EventGuessMade         EventType = "guess_made"
	EventBoundaryReshuffle EventType = "boundary_reshuffle"
	EventPenaltyApplied    EventType = "penalty_applied"
	EventRewardAssigned    EventType = "reward_assigned"
	EventPhaseChanged      EventType = "phase_changed"
	EventPyramidFlip       EventType = "pyramid_flip"
	EventMatchCommitted    EventType = "match_committed"
	EventRiderSelected     EventType = "rider_selected"
	EventBusFlip           EventType = "bus_flip"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is one resolved entry in the game log. Events are append-only; the
// engine writes them but never reads them back.
type Event struct {
	Type     EventType  `json:"type"`
	At       time.Time  `json:"at"`
	PlayerID string     `json:"playerId,omitempty"`
	Card     *deck.Card `json:"card,omitempty"`
	Amount   int        `json:"amount,omitempty"`
	Note     string     `json:"note,omitempty"`
}

func (g *Game) logEvent(e Event) {
	e.At = g.clock.Now()
	g.events = append(g.events, e)
}

func cardRef(c deck.Card) *deck.Card {
	return &c
}
