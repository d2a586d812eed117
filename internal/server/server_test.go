package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ridethebus/internal/casino"
	"github.com/lox/ridethebus/internal/deck"
	"github.com/lox/ridethebus/internal/engine"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer("127.0.0.1:0", nil, log.New(io.Discard))
}

// send marshals a payload, dispatches it, and returns the reply.
func send(t *testing.T, s *Server, msgType MessageType, payload interface{}) *Message {
	t.Helper()
	msg, err := NewMessage(msgType, payload)
	require.NoError(t, err)
	return s.Dispatch(msg)
}

// decode unmarshals a reply payload into out, failing on error replies.
func decode(t *testing.T, reply *Message, out interface{}) {
	t.Helper()
	if reply.Type == TypeError {
		var errData ErrorData
		require.NoError(t, json.Unmarshal(reply.Data, &errData))
		t.Fatalf("unexpected error reply: %s: %s", errData.Code, errData.Message)
	}
	require.NoError(t, json.Unmarshal(reply.Data, out))
}

func wantError(t *testing.T, reply *Message, code string) {
	t.Helper()
	require.Equal(t, TypeError, reply.Type)
	var errData ErrorData
	require.NoError(t, json.Unmarshal(reply.Data, &errData))
	assert.Equal(t, code, errData.Code)
}

func TestParseSocialGuess(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind, value string
		want        engine.Guess
		wantErr     bool
	}{
		{"color", "red", engine.ColorGuess{Color: deck.Red}, false},
		{"color", "black", engine.ColorGuess{Color: deck.Black}, false},
		{"direction", "higher", engine.DirectionGuess{Direction: engine.Higher}, false},
		{"direction", "lower", engine.DirectionGuess{Direction: engine.Lower}, false},
		{"range", "inside", engine.RangeGuess{Range: engine.Inside}, false},
		{"range", "outside", engine.RangeGuess{Range: engine.Outside}, false},
		{"suit", "hearts", engine.SuitGuess{Suit: deck.Hearts}, false},
		{"color", "green", nil, true},
		{"direction", "sideways", nil, true},
		{"suit", "cups", nil, true},
		{"rank", "seven", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.value, func(t *testing.T) {
			got, err := parseSocialGuess(tt.kind, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, engine.ErrInvalidGuess)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCasinoGuess(t *testing.T) {
	t.Parallel()
	got, err := parseCasinoGuess("direction", "higher")
	require.NoError(t, err)
	assert.Equal(t, casino.DirectionGuess{Direction: casino.Higher}, got)

	_, err = parseCasinoGuess("range", "between")
	assert.ErrorIs(t, err, casino.ErrInvalidGuess)
}

func TestErrorCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		code string
	}{
		{badRequest(errors.New("nope")), "bad_request"},
		{fmt.Errorf("%w: ABCDE", ErrRoomNotFound), "room_not_found"},
		{engine.ErrInvalidState, "invalid_state"},
		{casino.ErrInvalidState, "invalid_state"},
		{engine.ErrInvalidGuess, "invalid_guess"},
		{casino.ErrInvalidGuess, "invalid_guess"},
		{engine.ErrEmptyHand, "empty_hand"},
		{deck.ErrEmptyDeck, "empty_deck"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, errorCode(tt.err), "for %v", tt.err)
	}
}

func TestDispatchSocialRoomLifecycle(t *testing.T) {
	t.Parallel()
	s := testServer(t)

	reply := send(t, s, TypeCreateRoom, CreateRoomData{Players: []string{"Alice", "Bob"}, Seed: 42})
	require.Equal(t, TypeRoomCreated, reply.Type)
	var created RoomCreatedData
	decode(t, reply, &created)
	require.Len(t, created.Code, 5)
	assert.Equal(t, 1, s.Rooms().Count())

	// Advancing before any guess resolves is an engine state error, not a
	// connection failure.
	reply = send(t, s, TypeAdvance, RoomData{Room: created.Code})
	wantError(t, reply, "invalid_state")

	reply = send(t, s, TypeJoinRoom, RoomData{Room: created.Code})
	require.Equal(t, TypeRoomJoined, reply.Type)
	var joined RoomJoinedData
	decode(t, reply, &joined)
	assert.Equal(t, created.Code, joined.Code)
	assert.Equal(t, "social", joined.Variant)

	reply = send(t, s, TypeGuess, GuessData{Room: created.Code, Kind: "color", Value: "red"})
	require.Equal(t, TypeOutcome, reply.Type)
	var outcome SocialOutcomeData
	decode(t, reply, &outcome)
	assert.Equal(t, created.Code, outcome.Room)
	assert.Equal(t, "deal", outcome.Phase)
	assert.Equal(t, "R1", outcome.Round)
	assert.Equal(t, "p1", outcome.PlayerID)
	assert.NotEmpty(t, outcome.Card)

	// Repeating the round without advancing is rejected.
	reply = send(t, s, TypeGuess, GuessData{Room: created.Code, Kind: "color", Value: "red"})
	wantError(t, reply, "invalid_state")
}

func TestDispatchRejectsBadPayloads(t *testing.T) {
	t.Parallel()
	s := testServer(t)

	reply := s.Dispatch(&Message{Type: "teleport"})
	wantError(t, reply, "bad_request")

	reply = s.Dispatch(&Message{Type: TypeGuess, Data: json.RawMessage(`{"room":`)})
	wantError(t, reply, "bad_request")

	reply = send(t, s, TypeGuess, GuessData{Room: "ZZZZZ", Kind: "color", Value: "red"})
	wantError(t, reply, "room_not_found")

	reply = send(t, s, TypeCreateRoom, CreateRoomData{Players: []string{"Solo"}, Seed: 1})
	wantError(t, reply, "internal")
}

func TestDispatchCasinoSession(t *testing.T) {
	t.Parallel()
	s := testServer(t)

	reply := send(t, s, TypeCasinoStart, CasinoStartData{Bet: 10, Seed: 7})
	require.Equal(t, TypeRoomCreated, reply.Type)
	var created RoomCreatedData
	decode(t, reply, &created)

	// Round 1 has no cash-out escape.
	reply = send(t, s, TypeCashOut, RoomData{Room: created.Code})
	wantError(t, reply, "invalid_state")

	reply = send(t, s, TypeAdvise, RoomData{Room: created.Code})
	require.Equal(t, TypeAdvice, reply.Type)
	var advice AdviceData
	decode(t, reply, &advice)
	assert.Equal(t, "pick_red", advice.Action)
	assert.InDelta(t, 0.5, advice.Probability, 1e-9)

	reply = send(t, s, TypeCasinoGuess, GuessData{Room: created.Code, Kind: "color", Value: "red"})
	require.Equal(t, TypeOutcome, reply.Type)
	var outcome CasinoOutcomeData
	decode(t, reply, &outcome)
	assert.Equal(t, 1, outcome.Round)
	assert.NotEmpty(t, outcome.Card)
	if outcome.Correct {
		assert.Equal(t, "in_progress", outcome.Status)
		assert.InDelta(t, 2.0, outcome.Multiplier, 1e-9)
	} else {
		assert.Equal(t, "busted", outcome.Status)
		assert.Zero(t, outcome.Payout)
	}

	// Social operations do not apply to casino rooms.
	reply = send(t, s, TypeStartPyramid, RoomData{Room: created.Code})
	wantError(t, reply, "room_not_found")
}

func TestRoomCodesAreUnique(t *testing.T) {
	t.Parallel()
	s := testServer(t)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		room, err := s.Rooms().CreateCasino(5, int64(i))
		require.NoError(t, err)
		require.False(t, seen[room.Code], "duplicate code %s", room.Code)
		seen[room.Code] = true
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestWebSocketRoundTrip(t *testing.T) {
	t.Parallel()
	s := testServer(t)
	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	msg, err := NewMessage(TypeCreateRoom, CreateRoomData{Players: []string{"Alice", "Bob", "Cara"}, Seed: 3})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, TypeRoomCreated, reply.Type)
	var created RoomCreatedData
	require.NoError(t, json.Unmarshal(reply.Data, &created))
	require.Len(t, created.Code, 5)

	msg, err = NewMessage(TypeGuess, GuessData{Room: created.Code, Kind: "color", Value: "black"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, TypeOutcome, reply.Type)
}
