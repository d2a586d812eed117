package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lox/ridethebus/internal/casino"
	"github.com/lox/ridethebus/internal/config"
	"github.com/lox/ridethebus/internal/deck"
	"github.com/lox/ridethebus/internal/engine"
	"github.com/lox/ridethebus/internal/gamecode"
	"github.com/lox/ridethebus/internal/strategy"
)

// ErrRoomNotFound is returned when a message names a room code that does not
// exist.
var ErrRoomNotFound = errors.New("room not found")

// Room binds a join code to one running game. Exactly one of game or session
// is set. The mutex serializes every call into the underlying state machine,
// which is itself single-threaded.
type Room struct {
	Code string

	mu      sync.Mutex
	game    *engine.Game
	session *casino.Session
}

// Rooms is the registry of live rooms keyed by join code.
type Rooms struct {
	mu    sync.RWMutex
	cfg   *config.Config
	rooms map[string]*Room
}

// NewRooms creates an empty registry. All rooms it creates share cfg; nil
// means defaults.
func NewRooms(cfg *config.Config) *Rooms {
	return &Rooms{
		cfg:   cfg,
		rooms: make(map[string]*Room),
	}
}

// CreateSocial starts a social game and registers it under a fresh code.
func (r *Rooms) CreateSocial(players []string, seed int64) (*Room, error) {
	game, err := engine.New(players, seed, r.cfg)
	if err != nil {
		return nil, err
	}
	return r.add(&Room{game: game}), nil
}

// CreateCasino starts a casino session and registers it under a fresh code.
func (r *Rooms) CreateCasino(bet float64, seed int64) (*Room, error) {
	session, err := casino.NewSession(bet, seed, r.cfg)
	if err != nil {
		return nil, err
	}
	return r.add(&Room{session: session}), nil
}

func (r *Rooms) add(room *Room) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		code := gamecode.Generate()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		room.Code = code
		r.rooms[code] = room
		return room
	}
}

// Get looks up a room by join code.
func (r *Rooms) Get(code string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return room, nil
}

// Count returns the number of live rooms.
func (r *Rooms) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Variant names which engine the room runs.
func (room *Room) Variant() string {
	if room.game != nil {
		return "social"
	}
	return "casino"
}

// Social game operations. Each locks the room for the duration of the call.

func (room *Room) Guess(g engine.Guess) (*SocialOutcomeData, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return nil, fmt.Errorf("%w: room %s is not a social game", ErrRoomNotFound, room.Code)
	}
	o, err := room.game.ExecuteRound(g)
	if err != nil {
		return nil, err
	}
	return room.socialOutcome(o), nil
}

func (room *Room) Advance() error {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return fmt.Errorf("%w: room %s is not a social game", ErrRoomNotFound, room.Code)
	}
	return room.game.AdvanceTurn()
}

func (room *Room) StartPyramid() error {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return fmt.Errorf("%w: room %s is not a social game", ErrRoomNotFound, room.Code)
	}
	return room.game.StartPyramid()
}

func (room *Room) FlipPyramid() (*SocialOutcomeData, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return nil, fmt.Errorf("%w: room %s is not a social game", ErrRoomNotFound, room.Code)
	}
	o, err := room.game.FlipPyramidCard()
	if err != nil {
		return nil, err
	}
	return room.socialOutcome(o), nil
}

func (room *Room) CommitMatch(playerID, cardStr, targetID string) (*SocialOutcomeData, error) {
	card, err := deck.ParseCard(cardStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidGuess, err)
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return nil, fmt.Errorf("%w: room %s is not a social game", ErrRoomNotFound, room.Code)
	}
	o, err := room.game.CommitMatch(playerID, card, targetID)
	if err != nil {
		return nil, err
	}
	return room.socialOutcome(o), nil
}

func (room *Room) StartBus() error {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return fmt.Errorf("%w: room %s is not a social game", ErrRoomNotFound, room.Code)
	}
	return room.game.StartBus()
}

func (room *Room) FlipBus() (*SocialOutcomeData, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.game == nil {
		return nil, fmt.Errorf("%w: room %s is not a social game", ErrRoomNotFound, room.Code)
	}
	o, err := room.game.FlipBusCard()
	if err != nil {
		return nil, err
	}
	return room.socialOutcome(o), nil
}

// Casino session operations.

func (room *Room) CasinoGuess(g casino.Guess) (*CasinoOutcomeData, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.session == nil {
		return nil, fmt.Errorf("%w: room %s is not a casino session", ErrRoomNotFound, room.Code)
	}
	o, err := room.session.Guess(g)
	if err != nil {
		return nil, err
	}
	return room.casinoOutcome(o), nil
}

func (room *Room) CashOut() (*CasinoOutcomeData, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.session == nil {
		return nil, fmt.Errorf("%w: room %s is not a casino session", ErrRoomNotFound, room.Code)
	}
	o, err := room.session.CashOut()
	if err != nil {
		return nil, err
	}
	return room.casinoOutcome(o), nil
}

func (room *Room) Advise() (*AdviceData, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.session == nil {
		return nil, fmt.Errorf("%w: room %s is not a casino session", ErrRoomNotFound, room.Code)
	}
	rec := strategy.Advise(room.session)
	return &AdviceData{
		Action:        rec.Action,
		Probability:   rec.Probability,
		ExpectedValue: rec.ExpectedValue,
		Confidence:    rec.Confidence,
		Reasoning:     rec.Reasoning,
	}, nil
}

func (room *Room) socialOutcome(o *engine.Outcome) *SocialOutcomeData {
	data := &SocialOutcomeData{
		Room:       room.Code,
		Phase:      o.Phase.String(),
		PlayerID:   o.PlayerID,
		Correct:    o.Correct,
		Penalty:    o.Penalty,
		Reward:     o.Reward,
		Drinks:     o.Drinks,
		Reshuffles: o.Reshuffles,
		RowValue:   o.RowValue,
		Complete:   o.PhaseComplete,
	}
	if o.Round != 0 {
		data.Round = o.Round.String()
	}
	if o.Card != (deck.Card{}) {
		data.Card = o.Card.String()
	}
	return data
}

func (room *Room) casinoOutcome(o *casino.Outcome) *CasinoOutcomeData {
	data := &CasinoOutcomeData{
		Room:       room.Code,
		Round:      o.Round,
		Correct:    o.Correct,
		Multiplier: o.Multiplier,
		Status:     o.Status.String(),
		Payout:     o.Payout,
	}
	if o.Card != (deck.Card{}) {
		data.Card = o.Card.String()
	}
	return data
}

// parseSocialGuess maps a wire guess onto the social guess union.
func parseSocialGuess(kind, value string) (engine.Guess, error) {
	switch kind {
	case "color":
		switch value {
		case "red":
			return engine.ColorGuess{Color: deck.Red}, nil
		case "black":
			return engine.ColorGuess{Color: deck.Black}, nil
		}
	case "direction":
		switch value {
		case "higher":
			return engine.DirectionGuess{Direction: engine.Higher}, nil
		case "lower":
			return engine.DirectionGuess{Direction: engine.Lower}, nil
		}
	case "range":
		switch value {
		case "inside":
			return engine.RangeGuess{Range: engine.Inside}, nil
		case "outside":
			return engine.RangeGuess{Range: engine.Outside}, nil
		}
	case "suit":
		suit, err := deck.ParseSuit(value)
		if err == nil {
			return engine.SuitGuess{Suit: suit}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s=%s", engine.ErrInvalidGuess, kind, value)
}

// parseCasinoGuess maps a wire guess onto the casino guess union.
func parseCasinoGuess(kind, value string) (casino.Guess, error) {
	switch kind {
	case "color":
		switch value {
		case "red":
			return casino.ColorGuess{Color: deck.Red}, nil
		case "black":
			return casino.ColorGuess{Color: deck.Black}, nil
		}
	case "direction":
		switch value {
		case "higher":
			return casino.DirectionGuess{Direction: casino.Higher}, nil
		case "lower":
			return casino.DirectionGuess{Direction: casino.Lower}, nil
		}
	case "range":
		switch value {
		case "inside":
			return casino.RangeGuess{Range: casino.Inside}, nil
		case "outside":
			return casino.RangeGuess{Range: casino.Outside}, nil
		}
	case "suit":
		suit, err := deck.ParseSuit(value)
		if err == nil {
			return casino.SuitGuess{Suit: suit}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s=%s", casino.ErrInvalidGuess, kind, value)
}
