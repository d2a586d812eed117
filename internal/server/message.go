package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies a websocket message.
type MessageType string

// Client -> server message types.
const (
	TypeCreateRoom   MessageType = "create_room"
	TypeJoinRoom     MessageType = "join_room"
	TypeGuess        MessageType = "guess"
	TypeAdvance      MessageType = "advance"
	TypeStartPyramid MessageType = "start_pyramid"
	TypeFlipPyramid  MessageType = "flip_pyramid"
	TypeCommitMatch  MessageType = "commit_match"
	TypeStartBus     MessageType = "start_bus"
	TypeFlipBus      MessageType = "flip_bus"
	TypeCasinoStart  MessageType = "casino_start"
	TypeCasinoGuess  MessageType = "casino_guess"
	TypeCashOut      MessageType = "cash_out"
	TypeAdvise       MessageType = "advise"
)

// Server -> client message types.
const (
	TypeRoomCreated MessageType = "room_created"
	TypeRoomJoined  MessageType = "room_joined"
	TypeOutcome     MessageType = "outcome"
	TypeAdvice      MessageType = "advice"
	TypeError       MessageType = "error"
)

// Message is the websocket envelope: a type tag and a JSON payload.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client -> server payloads.

// CreateRoomData starts a social game.
type CreateRoomData struct {
	Players []string `json:"players"`
	Seed    int64    `json:"seed"`
}

// CasinoStartData starts a casino session.
type CasinoStartData struct {
	Bet  float64 `json:"bet"`
	Seed int64   `json:"seed"`
}

// GuessData carries a guess for either variant. Kind selects the guess
// union member, value its payload: color=red|black, direction=higher|lower,
// range=inside|outside, suit=spades|hearts|diamonds|clubs.
type GuessData struct {
	Room  string `json:"room"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// RoomData names a room for cursor-style operations.
type RoomData struct {
	Room string `json:"room"`
}

// CommitMatchData commits a pyramid match.
type CommitMatchData struct {
	Room     string `json:"room"`
	PlayerID string `json:"playerId"`
	Card     string `json:"card"` // two-character form, e.g. "7h"
	TargetID string `json:"targetId"`
}

// Server -> client payloads.

// RoomCreatedData announces a new room's join code.
type RoomCreatedData struct {
	Code string `json:"code"`
}

// RoomJoinedData acknowledges a join and describes what was joined.
type RoomJoinedData struct {
	Code    string `json:"code"`
	Variant string `json:"variant"` // "social" or "casino"
}

// SocialOutcomeData is the wire form of a social engine outcome.
type SocialOutcomeData struct {
	Room       string `json:"room"`
	Phase      string `json:"phase"`
	Round      string `json:"round,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`
	Card       string `json:"card,omitempty"`
	Correct    bool   `json:"correct"`
	Penalty    int    `json:"penalty,omitempty"`
	Reward     int    `json:"reward,omitempty"`
	Drinks     int    `json:"drinks,omitempty"`
	Reshuffles int    `json:"reshuffles,omitempty"`
	RowValue   int    `json:"rowValue,omitempty"`
	Complete   bool   `json:"phaseComplete,omitempty"`
}

// CasinoOutcomeData is the wire form of a casino outcome.
type CasinoOutcomeData struct {
	Room       string  `json:"room"`
	Round      int     `json:"round"`
	Card       string  `json:"card,omitempty"`
	Correct    bool    `json:"correct"`
	Multiplier float64 `json:"multiplier"`
	Status     string  `json:"status"`
	Payout     float64 `json:"payout"`
}

// AdviceData is the wire form of a strategy recommendation.
type AdviceData struct {
	Action        string  `json:"action"`
	Probability   float64 `json:"probability"`
	ExpectedValue float64 `json:"expectedValue"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
}

// ErrorData maps engine failures onto stable wire codes.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
