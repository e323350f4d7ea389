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

package bot

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/config"
	"github.com/frankkopp/chessd/internal/game"
	"github.com/frankkopp/chessd/internal/search"
)

func TestMain(m *testing.M) {
	config.Setup()
	m.Run()
}

func TestMoveRejectsNonEngineParticipant(t *testing.T) {
	g := game.New(uuid.New(), game.UserId(uuid.New()), EngineUserID, time.Now())
	p := NewPlayer(search.NewEngine(), search.Beginner)

	_, err := p.Move(context.Background(), g, game.PlayerId(uuid.New()), time.Now())
	assert.ErrorIs(t, err, ErrNotEnginesTurn)
}

func TestMovePlaysAndAppendsHistoryForEngineSide(t *testing.T) {
	g := game.New(uuid.New(), EngineUserID, game.UserId(uuid.New()), time.Now())
	p := NewPlayer(search.NewEngine(), search.Beginner)

	entry, err := p.Move(context.Background(), g, g.White.ID, time.Now())
	require.NoError(t, err)

	history := g.History()
	require.Len(t, history, 1)
	assert.Equal(t, entry.Move, history[0].Move)
	assert.Equal(t, chess.Black, g.Position().SideToMove())
}

func TestIsEngineIdentifiesTheEngineUser(t *testing.T) {
	assert.True(t, IsEngine(EngineUserID))
	assert.False(t, IsEngine(game.UserId(uuid.New())))
}
