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

// Package session owns every live real-time connection: the three
// connection registries (matchmaking, game, spectator), the event
// dispatcher that turns Game domain events into wire messages, and the
// lifecycle around authentication, sync, and terminal-status teardown.
package session

import (
	"github.com/google/uuid"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/game"
)

// MessageType discriminates the envelope carried by every framed message.
type MessageType string

const (
	// Server-to-client.
	TypeAuthSuccess          MessageType = "AuthSuccess"
	TypeGameStateSync        MessageType = "GameStateSync"
	TypeQueuePositionUpdate  MessageType = "QueuePositionUpdate"
	TypeMoveExecuted         MessageType = "MoveExecuted"
	TypeMoveRejected         MessageType = "MoveRejected"
	TypeDrawOffered          MessageType = "DrawOffered"
	TypeDrawAccepted         MessageType = "DrawAccepted"
	TypeDrawRejected         MessageType = "DrawRejected"
	TypeGameResigned         MessageType = "GameResigned"
	TypePlayerDisconnected   MessageType = "PlayerDisconnected"
	TypePlayerReconnected    MessageType = "PlayerReconnected"
	TypeMatchFound           MessageType = "MatchFound"

	// Client-to-server.
	TypeJoinQueue    MessageType = "JoinQueue"
	TypeLeaveQueue   MessageType = "LeaveQueue"
	TypeMoveAttempt  MessageType = "MoveAttempt"
	TypeOfferDraw    MessageType = "OfferDraw"
	TypeAcceptDraw   MessageType = "AcceptDraw"
	TypeRejectDraw   MessageType = "RejectDraw"
	TypeResign       MessageType = "Resign"
)

// Message is the JSON envelope framed over every real-time connection. Only
// the fields relevant to Type are populated; the rest are omitted.
type Message struct {
	Type MessageType `json:"type"`

	// MoveExecuted / GameStateSync
	FEN        string `json:"fen,omitempty"`
	Status     string `json:"status,omitempty"`
	SideToMove string `json:"sideToMove,omitempty"`
	IsCheck    bool   `json:"isCheck,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Promotion  string `json:"promotion,omitempty"`

	// MoveRejected
	Reason string `json:"reason,omitempty"`

	// DrawOffered / DrawAccepted / GameResigned
	Side string `json:"side,omitempty"`

	// PlayerDisconnected / PlayerReconnected
	PlayerID string `json:"playerId,omitempty"`

	// MatchFound
	GameID     string `json:"gameId,omitempty"`
	YourColour string `json:"yourColour,omitempty"`

	// QueuePositionUpdate
	QueuePosition int `json:"queuePosition,omitempty"`
}

func gameStateSync(g *game.Game) Message {
	return Message{
		Type:       TypeGameStateSync,
		FEN:        g.Position().ToFEN(),
		Status:     g.Status().String(),
		SideToMove: g.Position().SideToMove().String(),
		IsCheck:    g.Status() == game.Check,
	}
}

func moveExecuted(g *game.Game, mv chess.Move) Message {
	msg := Message{
		Type:       TypeMoveExecuted,
		FEN:        g.Position().ToFEN(),
		Status:     g.Status().String(),
		SideToMove: g.Position().SideToMove().String(),
		IsCheck:    g.Status() == game.Check,
		From:       mv.From.String(),
		To:         mv.To.String(),
	}
	if mv.IsPromotion() {
		// Move.String ends with the lower-case promotion letter.
		msg.Promotion = mv.String()[4:]
	}
	return msg
}

func moveRejected(reason string) Message {
	return Message{Type: TypeMoveRejected, Reason: reason}
}

func drawOffered(side chess.Color) Message {
	return Message{Type: TypeDrawOffered, Side: side.String()}
}

func drawAccepted(status game.Status) Message {
	return Message{Type: TypeDrawAccepted, Status: status.String()}
}

func drawRejected() Message {
	return Message{Type: TypeDrawRejected}
}

func gameResigned(side chess.Color, status game.Status) Message {
	return Message{Type: TypeGameResigned, Side: side.String(), Status: status.String()}
}

func playerDisconnected(playerID game.PlayerId) Message {
	return Message{Type: TypePlayerDisconnected, PlayerID: uuid.UUID(playerID).String()}
}

func playerReconnected(playerID game.PlayerId) Message {
	return Message{Type: TypePlayerReconnected, PlayerID: uuid.UUID(playerID).String()}
}

func matchFound(gameID uuid.UUID, colour chess.Color) Message {
	return Message{Type: TypeMatchFound, GameID: gameID.String(), YourColour: colour.String()}
}

func queuePositionUpdate(position int) Message {
	return Message{Type: TypeQueuePositionUpdate, QueuePosition: position}
}

func authSuccess() Message {
	return Message{Type: TypeAuthSuccess}
}
