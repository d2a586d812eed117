package casino

import (
	"time"

	"github.com/lox/ridethebus/internal/deck"
)

// EventType identifies an entry in the session's event log.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventGuessMade      EventType = "guess_made"
	EventCashedOut      EventType = "cashed_out"
	EventBusted         EventType = "busted"
	EventCompleted      EventType = "completed"
)

// Event is one resolved entry in the session log.
type Event struct {
	Type   EventType  `json:"type"`
	At     time.Time  `json:"at"`
	Card   *deck.Card `json:"card,omitempty"`
	Amount float64    `json:"amount,omitempty"`
	Note   string     `json:"note,omitempty"`
}

func (s *Session) logEvent(e Event) {
	e.At = s.clock.Now()
	s.events = append(s.events, e)
}

func cardRef(c deck.Card) *deck.Card {
	return &c
}
