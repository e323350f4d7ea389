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

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/game"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func mustMove(t *testing.T, s string) chess.Move {
	t.Helper()
	m, err := chess.ParseMove(s)
	require.NoError(t, err)
	return m
}

func TestSaveAndFindByIDRoundTripsGame(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	g := game.New(uuid.New(), game.UserId(uuid.New()), game.UserId(uuid.New()), now)
	require.NoError(t, g.MakeMove(g.White.ID, mustMove(t, "e2e4"), now.Add(time.Second)))
	require.NoError(t, g.MakeMove(g.Black.ID, mustMove(t, "e7e5"), now.Add(2*time.Second)))

	require.NoError(t, repo.Save(ctx, g))

	found, err := repo.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, found.ID)
	assert.Equal(t, g.Position().ToFEN(), found.Position().ToFEN())
	assert.Equal(t, g.Status(), found.Status())
	assert.Equal(t, g.White.ID, found.White.ID)
	assert.Equal(t, g.Black.UserID, found.Black.UserID)
	require.Len(t, found.History(), 2)
	assert.Equal(t, g.History()[0].Move, found.History()[0].Move)
	assert.Equal(t, g.History()[1].Move, found.History()[1].Move)
}

func TestFindByIDReturnsErrGameNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestSaveReplacesMoveHistoryWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	g := game.New(uuid.New(), game.UserId(uuid.New()), game.UserId(uuid.New()), now)
	require.NoError(t, g.MakeMove(g.White.ID, mustMove(t, "e2e4"), now))
	require.NoError(t, repo.Save(ctx, g))

	require.NoError(t, g.MakeMove(g.Black.ID, mustMove(t, "e7e5"), now))
	require.NoError(t, g.MakeMove(g.White.ID, mustMove(t, "g1f3"), now))
	require.NoError(t, repo.Save(ctx, g))

	found, err := repo.FindByID(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, found.History(), 3)
	assert.Equal(t, "g1f3", found.History()[2].Move.String())
}

func TestDeleteCascadesMoves(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	g := game.New(uuid.New(), game.UserId(uuid.New()), game.UserId(uuid.New()), now)
	require.NoError(t, g.MakeMove(g.White.ID, mustMove(t, "e2e4"), now))
	require.NoError(t, repo.Save(ctx, g))

	require.NoError(t, repo.Delete(ctx, g.ID))

	var count int
	require.NoError(t, repo.db.Get(&count, "SELECT COUNT(*) FROM moves WHERE game_id = ?", g.ID.String()))
	assert.Zero(t, count)

	_, err := repo.FindByID(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestFindAllReturnsEveryGame(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	g1 := game.New(uuid.New(), game.UserId(uuid.New()), game.UserId(uuid.New()), now)
	g2 := game.New(uuid.New(), game.UserId(uuid.New()), game.UserId(uuid.New()), now)
	require.NoError(t, repo.Save(ctx, g1))
	require.NoError(t, repo.Save(ctx, g2))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveUpsertsOnConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	g := game.New(uuid.New(), game.UserId(uuid.New()), game.UserId(uuid.New()), now)
	require.NoError(t, repo.Save(ctx, g))
	require.NoError(t, g.OfferDraw(g.White.ID, now))
	require.NoError(t, repo.Save(ctx, g))

	found, err := repo.FindByID(ctx, g.ID)
	require.NoError(t, err)
	offeredBy, ok := found.DrawOfferedBy()
	require.True(t, ok)
	assert.Equal(t, chess.White, offeredBy)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
