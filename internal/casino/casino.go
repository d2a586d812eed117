// Package casino implements the four-round multiplier ladder variant of
// Ride the Bus: one player, one bet, four escalating guesses, and a
// cash-out that locks in the accumulated multiplier before the next risk.
//
// A Session is a caller-owned value like the social engine's Game: state
// in, outcome out, no I/O, no internal locking, no partial mutation on
// failure.
package casino

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/ridethebus/internal/config"
	"github.com/lox/ridethebus/internal/deck"
)

const rounds = 4

// Status is the session lifecycle. CashedOut, Busted and Completed are
// terminal.
type Status int

const (
	InProgress Status = iota
	CashedOut
	Busted
	Completed
)

// String returns the string representation of a status
func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case CashedOut:
		return "cashed_out"
	case Busted:
		return "busted"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further action is possible.
func (s Status) Terminal() bool {
	return s != InProgress
}

// Session holds the complete state of one ladder run.
type Session struct {
	seed       int64
	bet        float64
	cfg        *config.Config
	deck       *deck.Deck
	round      int
	multiplier float64
	drawn      []deck.Card
	status     Status
	events     []Event

	logger *log.Logger
	clock  quartz.Clock
}

// Option configures a Session at creation.
type Option func(*Session)

// WithLogger attaches a logger for debug tracing.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithClock overrides the clock used for event timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithDeck replaces the seeded deck, for rigged card orders in tests.
func WithDeck(d *deck.Deck) Option {
	return func(s *Session) { s.deck = d }
}

// NewSession starts a ladder run with the given stake and a deck shuffled
// from seed.
func NewSession(bet float64, seed int64, cfg *config.Config, opts ...Option) (*Session, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("bet must be positive, got %v", bet)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		seed:       seed,
		bet:        bet,
		cfg:        cfg,
		deck:       deck.New(seed),
		round:      1,
		multiplier: 1,
		status:     InProgress,
		logger:     log.New(io.Discard),
		clock:      quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logEvent(Event{Type: EventSessionStarted, Amount: bet})
	s.logger.Debug("session started", "bet", bet, "seed", seed)
	return s, nil
}

// Guess resolves the current round. The guess must be the kind the round
// accepts, and a round-4 suit must be one not yet drawn; violations fail
// with ErrInvalidGuess before any card is drawn. A correct guess multiplies
// the accumulated multiplier by the round's factor; an incorrect one busts
// the session for a payout of zero. Unlike the social deal phase there are
// no reshuffles: an equal-rank draw in rounds 2 and 3 counts as incorrect.
func (s *Session) Guess(g Guess) (*Outcome, error) {
	if s.status.Terminal() {
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidState, s.status)
	}
	if err := s.validateGuess(g); err != nil {
		return nil, err
	}

	card, err := s.deck.Draw()
	if err != nil {
		return nil, err
	}
	resolved := s.round
	s.drawn = append(s.drawn, card)

	correct := s.evaluate(g, card)
	if correct {
		s.multiplier *= s.cfg.Casino.Multipliers[s.round-1]
		if s.round == rounds {
			s.status = Completed
		} else {
			s.round++
		}
	} else {
		s.status = Busted
	}

	outcome := &Outcome{
		Round:      resolved,
		Card:       card,
		Correct:    correct,
		Multiplier: s.multiplier,
		Status:     s.status,
		Payout:     s.Payout(),
	}
	s.logEvent(Event{
		Type:   EventGuessMade,
		Card:   cardRef(card),
		Amount: s.multiplier,
		Note:   fmt.Sprintf("%s correct=%t", describeGuess(g), correct),
	})
	if s.status == Busted {
		s.logEvent(Event{Type: EventBusted})
	}
	if s.status == Completed {
		s.logEvent(Event{Type: EventCompleted, Amount: outcome.Payout})
	}
	s.logger.Debug("guess resolved",
		"round", outcome.Round, "card", card, "correct", correct,
		"multiplier", s.multiplier, "status", s.status)
	return outcome, nil
}

// CashOut locks in the accumulated multiplier as the final payout. Legal
// only after round 1 has resolved correctly and before round 4 resolves.
func (s *Session) CashOut() (*Outcome, error) {
	if s.status.Terminal() || s.round < 2 {
		return nil, fmt.Errorf("%w: cash out requires a live session past round 1", ErrInvalidState)
	}

	s.status = CashedOut
	outcome := &Outcome{
		Round:      s.round,
		Multiplier: s.multiplier,
		Status:     CashedOut,
		Payout:     s.Payout(),
	}
	s.logEvent(Event{Type: EventCashedOut, Amount: outcome.Payout})
	s.logger.Debug("cashed out", "round", s.round, "payout", outcome.Payout)
	return outcome, nil
}

// Payout returns the session's final payout: stake times accumulated
// multiplier when cashed out or completed, zero otherwise. A bust pays
// nothing regardless of how far the ladder went.
func (s *Session) Payout() float64 {
	switch s.status {
	case CashedOut, Completed:
		return s.bet * s.multiplier
	default:
		return 0
	}
}

func (s *Session) validateGuess(g Guess) error {
	switch s.round {
	case 1:
		if _, ok := g.(ColorGuess); !ok {
			return fmt.Errorf("%w: round 1 wants a color", ErrInvalidGuess)
		}
	case 2:
		if _, ok := g.(DirectionGuess); !ok {
			return fmt.Errorf("%w: round 2 wants higher or lower", ErrInvalidGuess)
		}
	case 3:
		if _, ok := g.(RangeGuess); !ok {
			return fmt.Errorf("%w: round 3 wants inside or outside", ErrInvalidGuess)
		}
	case 4:
		suitGuess, ok := g.(SuitGuess)
		if !ok {
			return fmt.Errorf("%w: round 4 wants a suit", ErrInvalidGuess)
		}
		for _, c := range s.drawn {
			if c.Suit == suitGuess.Suit {
				return fmt.Errorf("%w: %s already drawn this session", ErrInvalidGuess, suitGuess.Suit.Name())
			}
		}
	}
	return nil
}

func (s *Session) evaluate(g Guess, card deck.Card) bool {
	switch s.round {
	case 1:
		return card.Color() == g.(ColorGuess).Color
	case 2:
		reference := s.drawn[0]
		switch g.(DirectionGuess).Direction {
		case Higher:
			return card.Rank > reference.Rank
		default:
			return card.Rank < reference.Rank
		}
	case 3:
		low, high := s.drawn[0].Rank, s.drawn[1].Rank
		if low > high {
			low, high = high, low
		}
		inside := low < card.Rank && card.Rank < high
		outside := card.Rank < low || card.Rank > high
		if g.(RangeGuess).Range == Inside {
			return inside
		}
		return outside
	default:
		return card.Suit == g.(SuitGuess).Suit
	}
}

// Seed returns the seed the session's deck was shuffled from.
func (s *Session) Seed() int64 {
	return s.seed
}

// Bet returns the stake.
func (s *Session) Bet() float64 {
	return s.bet
}

// Round returns the current round, 1 through 4.
func (s *Session) Round() int {
	return s.round
}

// Status returns the session status.
func (s *Session) Status() Status {
	return s.status
}

// Multiplier returns the accumulated multiplier (1 before any win).
func (s *Session) Multiplier() float64 {
	return s.multiplier
}

// RoundMultiplier returns the factor a correct guess in the current round
// applies.
func (s *Session) RoundMultiplier() float64 {
	return s.cfg.Casino.Multipliers[s.round-1]
}

// Drawn returns the cards drawn so far, in order.
func (s *Session) Drawn() []deck.Card {
	return s.drawn
}

// UnseenSuits returns the suits not yet drawn, in declaration order. Only
// these are legal round-4 guesses.
func (s *Session) UnseenSuits() []deck.Suit {
	seen := make(map[deck.Suit]bool, len(s.drawn))
	for _, c := range s.drawn {
		seen[c.Suit] = true
	}
	var unseen []deck.Suit
	for _, suit := range deck.Suits {
		if !seen[suit] {
			unseen = append(unseen, suit)
		}
	}
	return unseen
}

// Events returns the append-only event log.
func (s *Session) Events() []Event {
	return s.events
}
