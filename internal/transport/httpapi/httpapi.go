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

// Package httpapi exposes the JSON HTTP surface: game lookup, move
// submission, and joining matchmaking. Registration and login are
// out-of-module collaborators and are not served here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"github.com/frankkopp/chessd/internal/auth"
	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/game"
	myLogging "github.com/frankkopp/chessd/internal/logging"
	"github.com/frankkopp/chessd/internal/matchmaking"
	"github.com/frankkopp/chessd/internal/repository"
)

// Server wires the HTTP handlers to their domain collaborators. games is
// the same live-game Registry the websocket surface uses, so a move POSTed
// here and a move sent over a player's websocket connection serialize on
// the same in-memory Game instead of each reconstructing its own copy from
// storage.
type Server struct {
	log     *logging.Logger
	games   *game.Registry
	matches *matchmaking.Service
	tokens  auth.Verifier
}

// NewServer builds a Server. tokens verifies the bearer token of every
// request that requires caller identity.
func NewServer(games *game.Registry, matches *matchmaking.Service, tokens auth.Verifier) *Server {
	return &Server{log: myLogging.GetLog(), games: games, matches: matches, tokens: tokens}
}

// Routes returns the request multiplexer. The teacher's module carries no
// HTTP router dependency, and none of the examples pack an HTTP router
// either, so routing here is a thin hand-rolled prefix dispatch rather
// than a borrowed library.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/games/", s.handleGames)
	mux.HandleFunc("/api/matchmaking/queue", s.handleJoinQueue)
	return mux
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/games/")
	id, tail, _ := strings.Cut(rest, "/")
	gameID, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	switch {
	case tail == "" && r.Method == http.MethodGet:
		s.getGame(w, r, gameID)
	case tail == "moves" && r.Method == http.MethodPost:
		s.postMove(w, r, gameID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	g, err := s.games.Get(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "repository unavailable")
		return
	}
	writeJSON(w, http.StatusOK, gameDTO(g))
}

type moveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (s *Server) postMove(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	mv, err := chess.ParseMove(req.From + req.To + req.Promotion)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid move notation")
		return
	}

	g, err := s.games.WithGame(r.Context(), gameID, func(g *game.Game) error {
		playerID, ok := playerIDFor(g, userID)
		if !ok {
			return game.ErrNotAParticipant
		}
		return g.MakeMove(playerID, mv, time.Now())
	})
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeError(w, statusForGameError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, gameDTO(g))
}

func (s *Server) handleJoinQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	result, err := s.matches.JoinMatchmaking(r.Context(), userID, time.Now())
	if err != nil {
		writeError(w, statusForMatchmakingError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, matchmakingDTO(result))
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (game.UserId, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return game.UserId{}, false
	}
	userID, err := s.tokens.Verify(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return game.UserId{}, false
	}
	return userID, true
}

func playerIDFor(g *game.Game, userID game.UserId) (game.PlayerId, bool) {
	if g.White.UserID == userID {
		return g.White.ID, true
	}
	if g.Black.UserID == userID {
		return g.Black.ID, true
	}
	return game.PlayerId{}, false
}

func statusForGameError(err error) int {
	switch {
	case errors.Is(err, game.ErrNotAParticipant):
		return http.StatusForbidden
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrIllegalMove):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrGameTerminal):
		return http.StatusBadRequest
	default:
		// Not one of the known domain errors, so this is a registry/store
		// failure (load or save) rather than a rejected move.
		return http.StatusServiceUnavailable
	}
}

func statusForMatchmakingError(err error) int {
	switch {
	case errors.Is(err, matchmaking.ErrUnknownUser):
		return http.StatusForbidden
	case errors.Is(err, matchmaking.ErrAlreadyQueued), errors.Is(err, matchmaking.ErrAlreadyMatched):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type gameResponse struct {
	ID            string   `json:"id"`
	FEN           string   `json:"fen"`
	Status        string   `json:"status"`
	SideToMove    string   `json:"sideToMove"`
	WhiteUserID   string   `json:"whiteUserId"`
	BlackUserID   string   `json:"blackUserId"`
	DrawOfferedBy string   `json:"drawOfferedBy,omitempty"`
	Moves         []string `json:"moves"`
}

func gameDTO(g *game.Game) gameResponse {
	history := g.History()
	moves := make([]string, len(history))
	for i, h := range history {
		moves[i] = h.Move.From.String() + h.Move.To.String()
	}
	resp := gameResponse{
		ID:          g.ID.String(),
		FEN:         g.Position().ToFEN(),
		Status:      g.Status().String(),
		SideToMove:  g.Position().SideToMove().String(),
		WhiteUserID: uuid.UUID(g.White.UserID).String(),
		BlackUserID: uuid.UUID(g.Black.UserID).String(),
		Moves:       moves,
	}
	if side, ok := g.DrawOfferedBy(); ok {
		resp.DrawOfferedBy = side.String()
	}
	return resp
}

type matchmakingResponse struct {
	Status        string `json:"status"`
	QueuePosition int    `json:"queuePosition,omitempty"`
	GameID        string `json:"gameId,omitempty"`
	YourColour    string `json:"yourColour,omitempty"`
}

func matchmakingDTO(r matchmaking.Result) matchmakingResponse {
	if r.Matched {
		return matchmakingResponse{Status: "MATCHED", GameID: r.GameID.String(), YourColour: r.YourColour.String()}
	}
	return matchmakingResponse{Status: "WAITING", QueuePosition: r.QueuePosition}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
