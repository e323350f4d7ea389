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

// Package game implements the Game aggregate: the turn state machine sitting
// on top of a Position, move history, and draw-offer/resign bookkeeping.
package game

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/frankkopp/chessd/internal/chess"
)

// Status is the lifecycle state of a Game.
type Status int

const (
	InProgress Status = iota
	Check
	Checkmate
	Stalemate
	Draw
	Resigned
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "IN_PROGRESS"
	case Check:
		return "CHECK"
	case Checkmate:
		return "CHECKMATE"
	case Stalemate:
		return "STALEMATE"
	case Draw:
		return "DRAW"
	case Resigned:
		return "RESIGNED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether no further moves can be appended to a game in
// this status.
func (s Status) IsTerminal() bool {
	switch s {
	case Checkmate, Stalemate, Draw, Resigned:
		return true
	default:
		return false
	}
}

// Sentinel errors returned by Game operations. Transport adapters map each
// to an HTTP status and a real-time MoveRejected/close code.
var (
	ErrNotAParticipant = errors.New("actor is not a participant in this game")
	ErrNotYourTurn     = errors.New("it is not the actor's turn")
	ErrGameTerminal    = errors.New("game has already ended")
	ErrIllegalMove     = errors.New("move is not legal in this position")
	ErrNoDrawOffer     = errors.New("no draw offer is pending")
	ErrOwnDrawOffer    = errors.New("actor cannot respond to their own draw offer")
)

// PlayerId identifies one side's participation in one game. It is distinct
// from UserId so the same user could, in principle, be replayed into a new
// PlayerId for a rematch without conflating history.
type PlayerId uuid.UUID

// UserId identifies a registered account, owned by the out-of-scope user
// collaborator.
type UserId uuid.UUID

// Player is one participant of a Game.
type Player struct {
	ID     PlayerId
	UserID UserId
	Side   chess.Color
}

// HistoryEntry is one applied move, in the order it was played.
type HistoryEntry struct {
	MoveNumber int
	Move       chess.Move
	PlayedAt   time.Time
}

// Game is the aggregate root: one Position under a turn-order state machine,
// owned move history, and at most one pending draw offer. All mutating
// operations return a sentinel error instead of panicking; the zero value of
// Game is not usable, construct one with New.
type Game struct {
	ID    uuid.UUID
	White Player
	Black Player

	position Position
	status   Status
	history  []HistoryEntry

	drawOfferedBy chess.Color
	hasDrawOffer  bool

	createdAt time.Time
	updatedAt time.Time
}

// Position is a thin alias kept local to this package so callers of Game
// never need to import internal/chess just to read back FEN.
type Position = chess.Position

// New creates a Game from the initial position with whiteUser playing White
// and blackUser playing Black. Fresh PlayerIds are minted per participation.
func New(id uuid.UUID, whiteUser, blackUser UserId, now time.Time) *Game {
	return &Game{
		ID:        id,
		White:     Player{ID: PlayerId(uuid.New()), UserID: whiteUser, Side: chess.White},
		Black:     Player{ID: PlayerId(uuid.New()), UserID: blackUser, Side: chess.Black},
		position:  chess.Initial(),
		status:    InProgress,
		createdAt: now,
		updatedAt: now,
	}
}

// Restore reconstructs a Game from persisted fields, used by the Repository
// when loading a row back out of storage. history must already be ordered by
// MoveNumber.
func Restore(id uuid.UUID, white, black Player, pos Position, status Status, history []HistoryEntry, drawOfferedBy chess.Color, hasDrawOffer bool, createdAt, updatedAt time.Time) *Game {
	return &Game{
		ID:            id,
		White:         white,
		Black:         black,
		position:      pos,
		status:        status,
		history:       history,
		drawOfferedBy: drawOfferedBy,
		hasDrawOffer:  hasDrawOffer,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Position returns the current board position.
func (g *Game) Position() Position { return g.position }

// Status returns the current lifecycle status.
func (g *Game) Status() Status { return g.status }

// History returns the move history in play order. The slice is owned by the
// caller to read, not to mutate.
func (g *Game) History() []HistoryEntry {
	out := make([]HistoryEntry, len(g.history))
	copy(out, g.history)
	return out
}

// DrawOfferedBy returns the side with a pending draw offer and true, or the
// zero Color and false if no offer is pending.
func (g *Game) DrawOfferedBy() (chess.Color, bool) {
	return g.drawOfferedBy, g.hasDrawOffer
}

// CreatedAt and UpdatedAt expose the persistence timestamps.
func (g *Game) CreatedAt() time.Time { return g.createdAt }
func (g *Game) UpdatedAt() time.Time { return g.updatedAt }

// participant returns the Player record for playerID, if either side matches.
func (g *Game) participant(playerID PlayerId) (Player, bool) {
	if g.White.ID == playerID {
		return g.White, true
	}
	if g.Black.ID == playerID {
		return g.Black, true
	}
	return Player{}, false
}

func (g *Game) opponent(side chess.Color) Player {
	if side == chess.White {
		return g.Black
	}
	return g.White
}

// isPlayerTurn reports whether player.Side is the side to move in the
// current position.
func (g *Game) isPlayerTurn(player Player) bool {
	return player.Side == g.position.SideToMove()
}

// MakeMove applies move on behalf of playerID. The game must not be
// terminal, playerID must be a participant and the side to move, and move
// must be legal in the current position. On success the position advances,
// the move is appended to history, and status is recomputed.
func (g *Game) MakeMove(playerID PlayerId, move chess.Move, now time.Time) error {
	if g.status.IsTerminal() {
		return ErrGameTerminal
	}
	player, ok := g.participant(playerID)
	if !ok {
		return ErrNotAParticipant
	}
	if !g.isPlayerTurn(player) {
		return ErrNotYourTurn
	}
	if !chess.IsMoveLegal(g.position, move) {
		return ErrIllegalMove
	}

	g.position = g.position.MovePiece(move)
	g.history = append(g.history, HistoryEntry{
		MoveNumber: len(g.history) + 1,
		Move:       move,
		PlayedAt:   now,
	})
	g.hasDrawOffer = false
	g.status = recomputeStatus(g.position)
	g.updatedAt = now
	return nil
}

// OfferDraw registers a draw offer from playerID. The game must not be
// terminal, playerID must be a participant, and no offer may already be
// pending.
func (g *Game) OfferDraw(playerID PlayerId, now time.Time) error {
	if g.status.IsTerminal() {
		return ErrGameTerminal
	}
	player, ok := g.participant(playerID)
	if !ok {
		return ErrNotAParticipant
	}
	if g.hasDrawOffer {
		return ErrOwnDrawOffer
	}
	g.drawOfferedBy = player.Side
	g.hasDrawOffer = true
	g.updatedAt = now
	return nil
}

// AcceptDraw ends the game in a draw on behalf of the opponent of whoever
// made the pending offer. A participant cannot accept their own offer.
func (g *Game) AcceptDraw(playerID PlayerId, now time.Time) error {
	player, err := g.respondToDraw(playerID)
	if err != nil {
		return err
	}
	_ = player
	g.status = Draw
	g.hasDrawOffer = false
	g.updatedAt = now
	return nil
}

// RejectDraw clears the pending offer without ending the game.
func (g *Game) RejectDraw(playerID PlayerId, now time.Time) error {
	if _, err := g.respondToDraw(playerID); err != nil {
		return err
	}
	g.hasDrawOffer = false
	g.updatedAt = now
	return nil
}

func (g *Game) respondToDraw(playerID PlayerId) (Player, error) {
	if !g.hasDrawOffer {
		return Player{}, ErrNoDrawOffer
	}
	player, ok := g.participant(playerID)
	if !ok {
		return Player{}, ErrNotAParticipant
	}
	if player.Side == g.drawOfferedBy {
		return Player{}, ErrOwnDrawOffer
	}
	return player, nil
}

// Resign ends the game on behalf of playerID, who must be a participant in a
// non-terminal game.
func (g *Game) Resign(playerID PlayerId, now time.Time) error {
	if g.status.IsTerminal() {
		return ErrGameTerminal
	}
	if _, ok := g.participant(playerID); !ok {
		return ErrNotAParticipant
	}
	g.status = Resigned
	g.hasDrawOffer = false
	g.updatedAt = now
	return nil
}

// recomputeStatus applies the fixed precedence order: checkmate beats
// stalemate beats the two draw conditions beats an ongoing game in check.
func recomputeStatus(p chess.Position) Status {
	switch {
	case chess.IsCheckmate(p):
		return Checkmate
	case chess.IsStalemate(p):
		return Stalemate
	case chess.IsFiftyMoveRule(p):
		return Draw
	case chess.IsInsufficientMaterial(p):
		return Draw
	case chess.IsInCheck(p, p.SideToMove()):
		return Check
	default:
		return InProgress
	}
}
