//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package wsapi upgrades the three real-time endpoints (matchmaking, game,
// spectate) to websockets and pumps client-to-server frames into the
// session hub and domain services.
package wsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/op/go-logging"

	"github.com/frankkopp/chessd/internal/auth"
	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/config"
	"github.com/frankkopp/chessd/internal/game"
	myLogging "github.com/frankkopp/chessd/internal/logging"
	"github.com/frankkopp/chessd/internal/matchmaking"
	"github.com/frankkopp/chessd/internal/session"
)

// Server upgrades incoming connections and wires them into the session
// Hub. games is the same live-game Registry the HTTP surface uses, so
// both of a game's player connections (and any HTTP poller) mutate and
// observe the one shared Game instance instead of independent copies.
type Server struct {
	log      *logging.Logger
	upgrader websocket.Upgrader
	hub      *session.Hub
	games    *game.Registry
	matches  *matchmaking.Service
	tokens   auth.Verifier
}

// NewServer builds a Server. allowedOrigins is the cross-origin allow list
// checked against each upgrade request's Origin header; an empty list allows all
// origins, matching the teacher's permissive local-dev default.
func NewServer(hub *session.Hub, games *game.Registry, matches *matchmaking.Service, tokens auth.Verifier, allowedOrigins []string) *Server {
	return &Server{
		log: myLogging.GetLog(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		hub:     hub,
		games:   games,
		matches: matches,
		tokens:  tokens,
	}
}

func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, a := range allowed {
			if a == origin {
				return true
			}
		}
		return false
	}
}

// Routes returns the request multiplexer for the three endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/matchmaking", s.handleMatchmaking)
	mux.HandleFunc("/ws/game/", s.handleGame)
	mux.HandleFunc("/ws/spectate/", s.handleSpectate)
	return mux
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (game.UserId, bool) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return game.UserId{}, false
	}
	userID, err := s.tokens.Verify(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return game.UserId{}, false
	}
	return userID, true
}

func (s *Server) upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, bool) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warningf("websocket upgrade failed: %v", err)
		return nil, false
	}
	return conn, true
}

func (s *Server) handleMatchmaking(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	conn, ok := s.upgrade(w, r)
	if !ok {
		return
	}
	wsConn := session.NewWSConnection(conn, writeWait())

	result, err := s.matches.GetMatchStatus(r.Context(), userID, time.Now())
	position := 0
	if err == nil {
		position = result.QueuePosition
	}
	s.hub.RegisterMatchmakingConnection(userID, wsConn, position)
	defer s.hub.UnregisterMatchmakingConnection(userID)

	s.pump(conn, func(raw []byte) {
		s.dispatchMatchmaking(r, userID, raw)
	})
}

func (s *Server) dispatchMatchmaking(r *http.Request, userID game.UserId, raw []byte) {
	var env session.Message
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}
	switch env.Type {
	case session.TypeJoinQueue:
		result, err := s.matches.JoinMatchmaking(r.Context(), userID, time.Now())
		if err != nil {
			return
		}
		if result.Matched {
			s.hub.DeliverMatchFound(userID, result.GameID, result.YourColour)
		} else {
			s.hub.DeliverQueuePositionUpdate(userID, result.QueuePosition)
		}
	case session.TypeLeaveQueue:
		// LeaveQueue is not acted on: neither this handler nor the
		// matchmaking service removes the user from the queue, and closing
		// the connection does not remove them either.
	}
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/ws/game/"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	g, err := s.games.Get(r.Context(), gameID)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	playerID, side, ok := participantFor(g, userID)
	if !ok {
		http.Error(w, "not a participant", http.StatusForbidden)
		return
	}
	opponentID := g.Black.ID
	if side == chess.Black {
		opponentID = g.White.ID
	}

	conn, ok := s.upgrade(w, r)
	if !ok {
		return
	}
	wsConn := session.NewWSConnection(conn, writeWait())

	s.hub.RegisterGameConnection(playerID, opponentID, wsConn, g)
	defer s.hub.UnregisterGameConnection(playerID, opponentID)

	s.pump(conn, func(raw []byte) {
		s.dispatchGame(gameID, playerID, raw)
	})
}

// dispatchGame runs the requested action against gameID's single shared
// Game under the registry's per-game lock, so a simultaneous message from
// the opponent's connection (or an HTTP move submission) can never race
// this one. Broadcasting happens after the mutation has already been
// persisted, using the registry's own instance rather than a local copy.
func (s *Server) dispatchGame(gameID uuid.UUID, playerID game.PlayerId, raw []byte) {
	var env session.Message
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}
	ctx := context.Background()

	switch env.Type {
	case session.TypeMoveAttempt:
		mv, err := chess.ParseMove(env.From + env.To + env.Promotion)
		if err != nil {
			s.hub.SendMoveRejected(playerID, "invalid move notation")
			return
		}
		g, err := s.games.WithGame(ctx, gameID, func(g *game.Game) error {
			return g.MakeMove(playerID, mv, time.Now())
		})
		if err != nil {
			s.handleMutationError(playerID, gameID, "move", err)
			return
		}
		s.hub.BroadcastMoveExecuted(g, mv)

	case session.TypeOfferDraw:
		g, err := s.games.Get(ctx, gameID)
		if err != nil {
			return
		}
		side, err := sideOf(g, playerID)
		if err != nil {
			return
		}
		g, err = s.games.WithGame(ctx, gameID, func(g *game.Game) error {
			return g.OfferDraw(playerID, time.Now())
		})
		if err != nil {
			s.handleMutationError(playerID, gameID, "draw offer", err)
			return
		}
		s.hub.BroadcastDrawOffered(g, side)

	case session.TypeAcceptDraw:
		g, err := s.games.WithGame(ctx, gameID, func(g *game.Game) error {
			return g.AcceptDraw(playerID, time.Now())
		})
		if err != nil {
			s.handleMutationError(playerID, gameID, "draw accept", err)
			return
		}
		s.hub.BroadcastDrawAccepted(g)

	case session.TypeRejectDraw:
		g, err := s.games.WithGame(ctx, gameID, func(g *game.Game) error {
			return g.RejectDraw(playerID, time.Now())
		})
		if err != nil {
			s.handleMutationError(playerID, gameID, "draw reject", err)
			return
		}
		s.hub.BroadcastDrawRejected(g)

	case session.TypeResign:
		g, err := s.games.Get(ctx, gameID)
		if err != nil {
			return
		}
		side, err := sideOf(g, playerID)
		if err != nil {
			return
		}
		g, err = s.games.WithGame(ctx, gameID, func(g *game.Game) error {
			return g.Resign(playerID, time.Now())
		})
		if err != nil {
			s.handleMutationError(playerID, gameID, "resignation", err)
			return
		}
		s.hub.BroadcastResignation(g, side)
	}
}

// handleMutationError rejects the move for the caller and logs store
// failures; domain rule violations (not your turn, illegal move, and the
// like) surface to the client as a plain MoveRejected reason.
func (s *Server) handleMutationError(playerID game.PlayerId, gameID uuid.UUID, action string, err error) {
	s.hub.SendMoveRejected(playerID, err.Error())
	s.log.Debugf("%s failed for game %s: %v", action, gameID, err)
}

func sideOf(g *game.Game, playerID game.PlayerId) (chess.Color, error) {
	if g.White.ID == playerID {
		return chess.White, nil
	}
	if g.Black.ID == playerID {
		return chess.Black, nil
	}
	return 0, game.ErrNotAParticipant
}

func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/ws/spectate/"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	g, err := s.games.Get(r.Context(), gameID)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, ok := s.upgrade(w, r)
	if !ok {
		return
	}
	wsConn := session.NewWSConnection(conn, writeWait())

	s.hub.RegisterSpectatorConnection(gameID, userID, wsConn, g)
	defer s.hub.UnregisterSpectatorConnection(gameID, userID)

	s.pump(conn, func([]byte) {})
}

// pump reads frames off conn until it closes, handing each to onMessage.
func (s *Server) pump(conn *websocket.Conn, onMessage func([]byte)) {
	conn.SetReadLimit(config.Settings.Server.MaxFrameBytes)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debugf("websocket read ended: %v", err)
			}
			return
		}
		onMessage(raw)
	}
}

func participantFor(g *game.Game, userID game.UserId) (game.PlayerId, chess.Color, bool) {
	if g.White.UserID == userID {
		return g.White.ID, chess.White, true
	}
	if g.Black.UserID == userID {
		return g.Black.ID, chess.Black, true
	}
	return game.PlayerId{}, 0, false
}

func writeWait() time.Duration {
	return time.Duration(config.Settings.Server.WriteWaitSeconds) * time.Second
}
