// Package server exposes the game engines over a small websocket protocol.
// Each client connection is request/response: the client sends a typed
// message, the server replies with an outcome, advice, or error message.
// Rooms are shared between connections, so room operations serialize on the
// room's own lock.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/ridethebus/internal/casino"
	"github.com/lox/ridethebus/internal/config"
	"github.com/lox/ridethebus/internal/deck"
	"github.com/lox/ridethebus/internal/engine"
)

// Server is the websocket front end.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	rooms       *Rooms
	connections map[*websocket.Conn]bool
	logger      *log.Logger
	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server
}

// NewServer creates a server listening on addr. All rooms it creates use
// cfg; nil means defaults.
func NewServer(addr string, cfg *config.Config, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		rooms:       NewRooms(cfg),
		connections: make(map[*websocket.Conn]bool),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Rooms returns the server's room registry.
func (s *Server) Rooms() *Rooms {
	return s.rooms
}

// Start starts the websocket server and blocks until the listener closes.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.mu.Lock()
	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the listener down and closes all client connections.
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}

// handleWebSocket upgrades the request and serves messages until the client
// hangs up.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	defer func() {
		s.mu.Lock()
		delete(s.connections, conn)
		total := len(s.connections)
		s.mu.Unlock()
		_ = conn.Close()
		s.logger.Info("Client disconnected", "total", total)
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("Read failed", "error", err)
			}
			return
		}

		reply := s.Dispatch(&msg)
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Error("Write failed", "error", err)
			return
		}
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Dispatch routes one client message and builds the reply. Failures never
// kill the connection; they come back as error messages.
func (s *Server) Dispatch(msg *Message) *Message {
	data, err := s.handle(msg)
	if err != nil {
		s.logger.Debug("Request failed", "type", msg.Type, "error", err)
		reply, _ := NewMessage(TypeError, ErrorData{Code: errorCode(err), Message: err.Error()})
		return reply
	}

	replyType := TypeOutcome
	switch data.(type) {
	case *RoomCreatedData:
		replyType = TypeRoomCreated
	case *RoomJoinedData:
		replyType = TypeRoomJoined
	case *AdviceData:
		replyType = TypeAdvice
	}
	reply, err := NewMessage(replyType, data)
	if err != nil {
		reply, _ = NewMessage(TypeError, ErrorData{Code: "internal", Message: err.Error()})
	}
	return reply
}

func (s *Server) handle(msg *Message) (interface{}, error) {
	switch msg.Type {
	case TypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, badRequest(err)
		}
		room, err := s.rooms.CreateSocial(data.Players, data.Seed)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Social room created", "code", room.Code, "players", len(data.Players))
		return &RoomCreatedData{Code: room.Code}, nil

	case TypeCasinoStart:
		var data CasinoStartData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, badRequest(err)
		}
		room, err := s.rooms.CreateCasino(data.Bet, data.Seed)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Casino room created", "code", room.Code, "bet", data.Bet)
		return &RoomCreatedData{Code: room.Code}, nil

	case TypeJoinRoom:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		return &RoomJoinedData{Code: room.Code, Variant: room.Variant()}, nil

	case TypeGuess:
		var data GuessData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, badRequest(err)
		}
		room, err := s.rooms.Get(data.Room)
		if err != nil {
			return nil, err
		}
		guess, err := parseSocialGuess(data.Kind, data.Value)
		if err != nil {
			return nil, err
		}
		return room.Guess(guess)

	case TypeAdvance:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		if err := room.Advance(); err != nil {
			return nil, err
		}
		return &SocialOutcomeData{Room: room.Code, Phase: engine.PhaseDeal.String(), Correct: true}, nil

	case TypeStartPyramid:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		if err := room.StartPyramid(); err != nil {
			return nil, err
		}
		return &SocialOutcomeData{Room: room.Code, Phase: engine.PhasePyramid.String(), Correct: true}, nil

	case TypeFlipPyramid:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		return room.FlipPyramid()

	case TypeCommitMatch:
		var data CommitMatchData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, badRequest(err)
		}
		room, err := s.rooms.Get(data.Room)
		if err != nil {
			return nil, err
		}
		return room.CommitMatch(data.PlayerID, data.Card, data.TargetID)

	case TypeStartBus:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		if err := room.StartBus(); err != nil {
			return nil, err
		}
		return &SocialOutcomeData{Room: room.Code, Phase: engine.PhaseBus.String(), Correct: true}, nil

	case TypeFlipBus:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		return room.FlipBus()

	case TypeCasinoGuess:
		var data GuessData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, badRequest(err)
		}
		room, err := s.rooms.Get(data.Room)
		if err != nil {
			return nil, err
		}
		guess, err := parseCasinoGuess(data.Kind, data.Value)
		if err != nil {
			return nil, err
		}
		return room.CasinoGuess(guess)

	case TypeCashOut:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		return room.CashOut()

	case TypeAdvise:
		room, err := s.room(msg.Data)
		if err != nil {
			return nil, err
		}
		return room.Advise()

	default:
		return nil, badRequest(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// room resolves the room named by a RoomData payload.
func (s *Server) room(raw json.RawMessage) (*Room, error) {
	var data RoomData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, badRequest(err)
	}
	return s.rooms.Get(data.Room)
}

// errBadRequest marks malformed payloads, as opposed to legal payloads the
// engine rejects.
var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// errorCode maps engine failures onto stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, errBadRequest):
		return "bad_request"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, engine.ErrInvalidState), errors.Is(err, casino.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, engine.ErrInvalidGuess), errors.Is(err, casino.ErrInvalidGuess):
		return "invalid_guess"
	case errors.Is(err, engine.ErrEmptyHand):
		return "empty_hand"
	case errors.Is(err, deck.ErrEmptyDeck):
		return "empty_deck"
	default:
		return "internal"
	}
}
