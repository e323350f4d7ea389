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

package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/game"
	"github.com/frankkopp/chessd/internal/matchmaking"
	myLogging "github.com/frankkopp/chessd/internal/logging"
)

// terminalCloseDelay is how long the hub waits after a game reaches a
// terminal status before closing its connections, so the final event has
// time to reach the client.
const terminalCloseDelay = 1 * time.Second

// Hub owns the three connection registries and the event dispatch that
// rides on top of them. Every mutating method is safe for concurrent use.
type Hub struct {
	log *logging.Logger

	matchmaking *matchmakingRegistry
	games       *gameRegistry
	spectators  *spectatorRegistry
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		log:         myLogging.GetSessionLog(),
		matchmaking: newMatchmakingRegistry(),
		games:       newGameRegistry(),
		spectators:  newSpectatorRegistry(),
	}
}

// RegisterMatchmakingConnection registers conn for userID's matchmaking
// socket, sends AuthSuccess followed by a QueuePositionUpdate, and returns.
// A prior connection for the same user is silently replaced (reconnection).
func (h *Hub) RegisterMatchmakingConnection(userID game.UserId, conn Connection, queuePosition int) {
	h.matchmaking.register(userID, conn)
	h.deliver(conn, authSuccess())
	h.deliver(conn, queuePositionUpdate(queuePosition))
}

// UnregisterMatchmakingConnection removes userID's matchmaking socket.
func (h *Hub) UnregisterMatchmakingConnection(userID game.UserId) {
	h.matchmaking.unregister(userID)
}

// RegisterGameConnection registers conn for playerID's participation in g,
// sends AuthSuccess followed by a GameStateSync, and notifies the opponent
// with PlayerReconnected.
func (h *Hub) RegisterGameConnection(playerID game.PlayerId, opponentID game.PlayerId, conn Connection, g *game.Game) {
	h.games.register(playerID, conn)
	h.deliver(conn, authSuccess())
	h.deliver(conn, gameStateSync(g))
	if opp, ok := h.games.get(opponentID); ok {
		h.deliver(opp, playerReconnected(playerID))
	}
}

// UnregisterGameConnection removes playerID's game socket and notifies the
// opponent with PlayerDisconnected. Game state is never affected.
func (h *Hub) UnregisterGameConnection(playerID, opponentID game.PlayerId) {
	h.games.unregister(playerID)
	if opp, ok := h.games.get(opponentID); ok {
		h.deliver(opp, playerDisconnected(playerID))
	}
}

// RegisterSpectatorConnection registers conn for userID watching gameID.
func (h *Hub) RegisterSpectatorConnection(gameID uuid.UUID, userID game.UserId, conn Connection, g *game.Game) {
	h.spectators.register(gameID, userID, conn)
	h.deliver(conn, authSuccess())
	h.deliver(conn, gameStateSync(g))
}

// UnregisterSpectatorConnection removes userID's spectator socket for
// gameID.
func (h *Hub) UnregisterSpectatorConnection(gameID uuid.UUID, userID game.UserId) {
	h.spectators.unregister(gameID, userID)
}

// RejectUnauthenticated closes conn with a policy-violation code, for a
// connection whose handshake never produced a valid token.
func (h *Hub) RejectUnauthenticated(conn Connection) {
	_ = conn.Close(ClosePolicyViolation, "unauthenticated")
}

// deliver sends msg to conn, logging (not propagating) any failure. Callers
// that know the registry key should prefer deliverAndPrune so a dead
// connection gets cleaned up instead of silently lingering.
func (h *Hub) deliver(conn Connection, msg Message) {
	if err := conn.Send(msg); err != nil {
		h.log.Warningf("failed to deliver %s: %v", msg.Type, err)
	}
}

// BroadcastMoveExecuted sends MoveExecuted to both players and every
// spectator of g, pruning any connection whose send fails.
func (h *Hub) BroadcastMoveExecuted(g *game.Game, mv chess.Move) {
	msg := moveExecuted(g, mv)
	h.deliverToGameAndSpectators(g, msg)
	if g.Status().IsTerminal() {
		h.scheduleTerminalClose(g)
	}
}

// SendMoveRejected delivers a MoveRejected message to the offending player
// only.
func (h *Hub) SendMoveRejected(playerID game.PlayerId, reason string) {
	if conn, ok := h.games.get(playerID); ok {
		h.deliverAndPrune(h.games, playerID, conn, moveRejected(reason))
	}
}

// BroadcastDrawOffered notifies both players that side offered a draw.
func (h *Hub) BroadcastDrawOffered(g *game.Game, side chess.Color) {
	h.deliverToGameAndSpectators(g, drawOffered(side))
}

// BroadcastDrawAccepted notifies both players the game ended in a draw.
func (h *Hub) BroadcastDrawAccepted(g *game.Game) {
	h.deliverToGameAndSpectators(g, drawAccepted(g.Status()))
	h.scheduleTerminalClose(g)
}

// BroadcastDrawRejected notifies both players the offer was declined.
func (h *Hub) BroadcastDrawRejected(g *game.Game) {
	h.deliverToGameAndSpectators(g, drawRejected())
}

// BroadcastResignation notifies both players side resigned.
func (h *Hub) BroadcastResignation(g *game.Game, side chess.Color) {
	h.deliverToGameAndSpectators(g, gameResigned(side, g.Status()))
	h.scheduleTerminalClose(g)
}

func (h *Hub) deliverToGameAndSpectators(g *game.Game, msg Message) {
	if conn, ok := h.games.get(g.White.ID); ok {
		h.deliverAndPrune(h.games, g.White.ID, conn, msg)
	}
	if conn, ok := h.games.get(g.Black.ID); ok {
		h.deliverAndPrune(h.games, g.Black.ID, conn, msg)
	}
	for userID, conn := range h.spectators.all(g.ID) {
		if err := conn.Send(msg); err != nil {
			h.log.Warningf("failed to deliver %s to spectator: %v", msg.Type, err)
			h.spectators.unregister(g.ID, userID)
		}
	}
}

// deliverAndPrune sends msg to conn and, on failure, unregisters playerID
// from reg; this is the "stale connection" half of best-effort delivery.
func (h *Hub) deliverAndPrune(reg *gameRegistry, playerID game.PlayerId, conn Connection, msg Message) {
	if err := conn.Send(msg); err != nil {
		h.log.Warningf("failed to deliver %s: %v", msg.Type, err)
		reg.unregister(playerID)
	}
}

// scheduleTerminalClose closes both player connections and every spectator
// connection of g after terminalCloseDelay, once g has reached a terminal
// status, giving the final event time to arrive first.
func (h *Hub) scheduleTerminalClose(g *game.Game) {
	white, black := g.White.ID, g.Black.ID
	gameID := g.ID
	time.AfterFunc(terminalCloseDelay, func() {
		if conn, ok := h.games.get(white); ok {
			_ = conn.Close(CloseNormal, "game ended")
			h.games.unregister(white)
		}
		if conn, ok := h.games.get(black); ok {
			_ = conn.Close(CloseNormal, "game ended")
			h.games.unregister(black)
		}
		for userID, conn := range h.spectators.all(gameID) {
			_ = conn.Close(CloseNormal, "game ended")
			h.spectators.unregister(gameID, userID)
		}
	})
}

// NotifyMatchExpired implements matchmaking.MatchExpiryNotifier: an
// expired, never-connected match is simply forgotten, there is no
// connection state to tear down yet.
func (h *Hub) NotifyMatchExpired(_ context.Context, m *matchmaking.Match) {
	h.log.Infof("match for game %s expired before both players connected", m.GameID)
}

// DeliverMatchFound sends MatchFound to userID's matchmaking connection, if
// one is registered.
func (h *Hub) DeliverMatchFound(userID game.UserId, gameID uuid.UUID, colour chess.Color) {
	if conn, ok := h.matchmaking.get(userID); ok {
		h.deliver(conn, matchFound(gameID, colour))
	}
}

// DeliverQueuePositionUpdate sends a QueuePositionUpdate to userID's
// matchmaking connection, if one is registered.
func (h *Hub) DeliverQueuePositionUpdate(userID game.UserId, position int) {
	if conn, ok := h.matchmaking.get(userID); ok {
		h.deliver(conn, queuePositionUpdate(position))
	}
}
