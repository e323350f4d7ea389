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

package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/chessd/internal/chess"
)

func newTestGame(t *testing.T) (*Game, time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := New(uuid.New(), UserId(uuid.New()), UserId(uuid.New()), now)
	return g, now
}

func mustMove(t *testing.T, s string) chess.Move {
	t.Helper()
	m, err := chess.ParseMove(s)
	require.NoError(t, err)
	return m
}

func TestNewGameStartsInProgressWithInitialPosition(t *testing.T) {
	g, _ := newTestGame(t)
	assert.Equal(t, InProgress, g.Status())
	assert.Equal(t, chess.Initial(), g.Position())
	assert.Empty(t, g.History())
	assert.NotEqual(t, g.White.ID, g.Black.ID)
	assert.NotEqual(t, g.White.UserID, g.Black.UserID)
}

func TestMakeMoveAppendsHistoryAndTogglesSide(t *testing.T) {
	g, now := newTestGame(t)
	err := g.MakeMove(g.White.ID, mustMove(t, "e2e4"), now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, chess.Black, g.Position().SideToMove())
	assert.Len(t, g.History(), 1)
	assert.Equal(t, 1, g.History()[0].MoveNumber)
}

func TestMakeMoveRejectsWrongTurn(t *testing.T) {
	g, now := newTestGame(t)
	err := g.MakeMove(g.Black.ID, mustMove(t, "e7e5"), now)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestMakeMoveRejectsNonParticipant(t *testing.T) {
	g, now := newTestGame(t)
	err := g.MakeMove(PlayerId(uuid.New()), mustMove(t, "e2e4"), now)
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestMakeMoveRejectsIllegalMove(t *testing.T) {
	g, now := newTestGame(t)
	err := g.MakeMove(g.White.ID, mustMove(t, "e2e5"), now)
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestScholarsMateReachesCheckmateStatus(t *testing.T) {
	g, now := newTestGame(t)
	moves := []struct {
		player PlayerId
		move   string
	}{
		{g.White.ID, "e2e4"},
		{g.Black.ID, "e7e5"},
		{g.White.ID, "f1c4"},
		{g.Black.ID, "b8c6"},
		{g.White.ID, "d1h5"},
		{g.Black.ID, "g8f6"},
		{g.White.ID, "h5f7"},
	}
	for i, mv := range moves {
		err := g.MakeMove(mv.player, mustMove(t, mv.move), now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err, mv.move)
	}
	assert.Equal(t, Checkmate, g.Status())
	assert.True(t, g.Status().IsTerminal())
}

func TestMakeMoveAfterTerminalFails(t *testing.T) {
	g, now := newTestGame(t)
	for i, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		player := g.White.ID
		if i%2 == 1 {
			player = g.Black.ID
		}
		require.NoError(t, g.MakeMove(player, mustMove(t, mv), now.Add(time.Duration(i)*time.Second)))
	}
	require.Equal(t, Checkmate, g.Status())
	err := g.MakeMove(g.Black.ID, mustMove(t, "a7a6"), now)
	assert.ErrorIs(t, err, ErrGameTerminal)
}

func TestDrawOfferAcceptLifecycle(t *testing.T) {
	g, now := newTestGame(t)
	require.NoError(t, g.OfferDraw(g.White.ID, now))
	offeredBy, ok := g.DrawOfferedBy()
	require.True(t, ok)
	assert.Equal(t, chess.White, offeredBy)

	err := g.OfferDraw(g.Black.ID, now)
	assert.ErrorIs(t, err, ErrOwnDrawOffer)

	err = g.AcceptDraw(g.White.ID, now)
	assert.ErrorIs(t, err, ErrOwnDrawOffer)

	require.NoError(t, g.AcceptDraw(g.Black.ID, now.Add(time.Second)))
	assert.Equal(t, Draw, g.Status())
	_, ok = g.DrawOfferedBy()
	assert.False(t, ok)
}

func TestRejectDrawClearsOfferWithoutEndingGame(t *testing.T) {
	g, now := newTestGame(t)
	require.NoError(t, g.OfferDraw(g.Black.ID, now))
	require.NoError(t, g.RejectDraw(g.White.ID, now))
	assert.Equal(t, InProgress, g.Status())
	_, ok := g.DrawOfferedBy()
	assert.False(t, ok)
}

func TestRespondToDrawWithoutPendingOfferFails(t *testing.T) {
	g, now := newTestGame(t)
	err := g.AcceptDraw(g.White.ID, now)
	assert.ErrorIs(t, err, ErrNoDrawOffer)
	err = g.RejectDraw(g.White.ID, now)
	assert.ErrorIs(t, err, ErrNoDrawOffer)
}

func TestMakeMoveClearsPendingDrawOffer(t *testing.T) {
	g, now := newTestGame(t)
	require.NoError(t, g.OfferDraw(g.White.ID, now))
	require.NoError(t, g.MakeMove(g.White.ID, mustMove(t, "e2e4"), now.Add(time.Second)))
	_, ok := g.DrawOfferedBy()
	assert.False(t, ok)
}

func TestResignEndsGame(t *testing.T) {
	g, now := newTestGame(t)
	require.NoError(t, g.Resign(g.Black.ID, now))
	assert.Equal(t, Resigned, g.Status())

	err := g.Resign(g.White.ID, now)
	assert.ErrorIs(t, err, ErrGameTerminal)
}

func TestResignRejectsNonParticipant(t *testing.T) {
	g, now := newTestGame(t)
	err := g.Resign(PlayerId(uuid.New()), now)
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestStatusBecomesCheckWithoutEndingGame(t *testing.T) {
	g, now := newTestGame(t)
	for i, mv := range []string{"e2e4", "f7f6", "d1h5"} {
		player := g.White.ID
		if i%2 == 1 {
			player = g.Black.ID
		}
		require.NoError(t, g.MakeMove(player, mustMove(t, mv), now.Add(time.Duration(i)*time.Second)))
	}
	assert.Equal(t, Check, g.Status())
	assert.False(t, g.Status().IsTerminal())
}

func TestRestoreRebuildsGameFromPersistedFields(t *testing.T) {
	g, now := newTestGame(t)
	require.NoError(t, g.MakeMove(g.White.ID, mustMove(t, "e2e4"), now.Add(time.Second)))

	restored := Restore(g.ID, g.White, g.Black, g.Position(), g.Status(), g.History(), chess.White, false, g.CreatedAt(), g.UpdatedAt())
	assert.Equal(t, g.ID, restored.ID)
	assert.Equal(t, g.Position(), restored.Position())
	assert.Equal(t, g.Status(), restored.Status())
	assert.Equal(t, g.History(), restored.History())
}
