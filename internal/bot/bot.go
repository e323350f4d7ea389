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

// Package bot is the thin seam between the search engine and a game: it
// asks the Search Engine for the built-in opponent's move and submits it
// through Game.MakeMove exactly as a human move would arrive from the
// transport layer.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"github.com/frankkopp/chessd/internal/game"
	myLogging "github.com/frankkopp/chessd/internal/logging"
	"github.com/frankkopp/chessd/internal/search"
)

// EngineUserID identifies the built-in engine as a participant wherever a
// UserId is expected, the same nil UUID in every game it plays.
var EngineUserID = game.UserId(uuid.Nil)

// ErrNotEnginesTurn is returned by Move when playerID does not belong to
// the engine side of g.
var ErrNotEnginesTurn = errors.New("bot: requested move for a non-engine participant")

// Player computes and submits the built-in engine's moves for games
// matched against it.
type Player struct {
	log        *logging.Logger
	engine     *search.Engine
	difficulty search.Difficulty
}

// NewPlayer wires a Player around an Engine at the given difficulty.
func NewPlayer(engine *search.Engine, difficulty search.Difficulty) *Player {
	return &Player{log: myLogging.GetSearchLog(), engine: engine, difficulty: difficulty}
}

// IsEngine reports whether userID is the built-in engine's participant.
func IsEngine(userID game.UserId) bool {
	return userID == EngineUserID
}

// Move searches g's current position to the Player's configured
// difficulty and submits the resulting move through playerID, which must
// be the engine's own PlayerId in g. now is the timestamp recorded
// against the resulting history entry, as with any other MakeMove call.
func (p *Player) Move(ctx context.Context, g *game.Game, playerID game.PlayerId, now time.Time) (game.HistoryEntry, error) {
	engineWhite := g.White.ID == playerID && IsEngine(g.White.UserID)
	engineBlack := g.Black.ID == playerID && IsEngine(g.Black.UserID)
	if !engineWhite && !engineBlack {
		return game.HistoryEntry{}, ErrNotEnginesTurn
	}
	mv, stats, err := p.engine.BestMove(ctx, g.Position(), p.difficulty)
	if err != nil {
		return game.HistoryEntry{}, err
	}
	p.log.Infof("engine move %s for game %s (nodes=%d, ttHits=%d)", mv, g.ID, stats.NodesVisited, stats.TTHits)

	if err := g.MakeMove(playerID, mv, now); err != nil {
		return game.HistoryEntry{}, err
	}
	history := g.History()
	return history[len(history)-1], nil
}
