// Package engine implements the social variant of Ride the Bus: a deal
// phase of four guessing rounds per player, a pyramid phase where players
// shed hand cards onto flipped matches, and a bus phase scoring the player
// left holding the most cards.
//
// A Game is a caller-owned value: every operation is a synchronous state
// transition on it, there is no I/O, and the engine holds no registry of
// live games. Callers sharing one Game across connections must serialize
// mutating calls themselves. Failed operations leave the Game untouched.
package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/ridethebus/internal/config"
	"github.com/lox/ridethebus/internal/deck"
)

const (
	// MinPlayers and MaxPlayers bound a social game. The maximum is fixed by
	// deck provisioning: 6 players x 4 deal cards + 15 pyramid + 10 bus = 49
	// of 52. A seventh player would need 53.
	MinPlayers = 2
	MaxPlayers = 6

	pyramidCards = 15
	busCards     = 10
)

// pyramidRows are the row widths, bottom to top.
var pyramidRows = []int{5, 4, 3, 2, 1}

// Game holds the complete state of one social game.
type Game struct {
	seed    int64
	cfg     *config.Config
	players []*Player
	deck    *deck.Deck
	discard []deck.Card
	phase   Phase
	events  []Event

	// Deal phase cursor.
	round         Round
	playerIdx     int
	roundResolved bool
	dealComplete  bool

	// Pyramid phase.
	pyramid       [][]pyramidCell
	flipped       int
	committed     map[string]int // commits per player against the current flip
	pyramidActive bool           // a card is face up and open for matches

	// Bus phase.
	busCards  []deck.Card
	busCursor int
	riderID   string

	logger *log.Logger
	clock  quartz.Clock
}

// Option configures a Game at creation.
type Option func(*Game)

// WithLogger attaches a logger for debug tracing of transitions.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithClock overrides the clock used for event-log timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithDeck replaces the seeded deck, for rigged card orders in tests.
func WithDeck(d *deck.Deck) Option {
	return func(g *Game) { g.deck = d }
}

// New creates a game for the named players using a deck shuffled from seed.
// Player IDs are assigned in join order and are stable for the life of the
// game.
func New(names []string, seed int64, cfg *config.Config, opts ...Option) (*Game, error) {
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return nil, fmt.Errorf("game requires %d-%d players, got %d", MinPlayers, MaxPlayers, len(names))
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		seed:   seed,
		cfg:    cfg,
		deck:   deck.New(seed),
		phase:  PhaseDeal,
		round:  Round1,
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
	for i, name := range names {
		g.players = append(g.players, &Player{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: name,
		})
	}
	for _, opt := range opts {
		opt(g)
	}

	g.logEvent(Event{Type: EventGameCreated, Amount: len(names)})
	g.logger.Debug("game created", "players", len(names), "seed", seed)
	return g, nil
}

// Seed returns the seed the game's deck was shuffled from.
func (g *Game) Seed() int64 {
	return g.seed
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Round returns the current deal-phase round.
func (g *Game) Round() Round {
	return g.round
}

// DealComplete reports whether every player has resolved all four deal
// rounds, making StartPyramid legal.
func (g *Game) DealComplete() bool {
	return g.dealComplete
}

// Players returns the players in join order.
func (g *Game) Players() []*Player {
	return g.players
}

// Player returns the player with the given id, or nil.
func (g *Game) Player(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose deal-phase turn it is, or nil
// outside the deal phase.
func (g *Game) CurrentPlayer() *Player {
	if g.phase != PhaseDeal {
		return nil
	}
	return g.players[g.playerIdx]
}

// Rider returns the bus rider, or nil before one is selected.
func (g *Game) Rider() *Player {
	if g.riderID == "" {
		return nil
	}
	return g.Player(g.riderID)
}

// Events returns the append-only event log.
func (g *Game) Events() []Event {
	return g.events
}

// Discards returns cards shed from hands during the pyramid phase.
func (g *Game) Discards() []deck.Card {
	return g.discard
}

func (g *Game) changePhase(next Phase) {
	g.phase = next
	g.logEvent(Event{Type: EventPhaseChanged, Note: next.String()})
	g.logger.Debug("phase changed", "phase", next)
}
