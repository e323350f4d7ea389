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

package matchmaking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/chessd/internal/game"
	"github.com/frankkopp/chessd/internal/repository"
)

type allowAllUsers struct{}

func (allowAllUsers) UserExists(context.Context, game.UserId) (bool, error) { return true, nil }

type denyUser struct{ denied game.UserId }

func (d denyUser) UserExists(_ context.Context, userID game.UserId) (bool, error) {
	return userID != d.denied, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	expired []*Match
}

func (r *recordingNotifier) NotifyMatchExpired(_ context.Context, m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, m)
}

func newTestService(t *testing.T) (*Service, repository.Repository) {
	t.Helper()
	repo, err := repository.NewSQLiteRepository("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	svc := NewService(allowAllUsers{}, NewQueue(), repo, NewInMemoryMatchRepository(), time.Minute, nil)
	return svc, repo
}

func TestJoinMatchmakingFirstUserWaits(t *testing.T) {
	svc, _ := newTestService(t)
	u1 := game.UserId{1}
	result, err := svc.JoinMatchmaking(context.Background(), u1, time.Now())
	require.NoError(t, err)
	assert.True(t, result.Waiting)
	assert.Equal(t, 1, result.QueuePosition)
}

func TestJoinMatchmakingSecondUserPairsBoth(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()
	u1, u2 := game.UserId{1}, game.UserId{2}

	r1, err := svc.JoinMatchmaking(ctx, u1, now)
	require.NoError(t, err)
	require.True(t, r1.Waiting)

	r2, err := svc.JoinMatchmaking(ctx, u2, now)
	require.NoError(t, err)
	assert.True(t, r2.Matched)
	assert.NotEqual(t, r2.GameID.String(), "")

	status, err := svc.GetMatchStatus(ctx, u1, now)
	require.NoError(t, err)
	assert.True(t, status.Matched)
	assert.Equal(t, r2.GameID, status.GameID)
	assert.NotEqual(t, status.YourColour, r2.YourColour)
}

func TestJoinMatchmakingRejectsUnknownUser(t *testing.T) {
	repo, err := repository.NewSQLiteRepository("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	blocked := game.UserId{9}
	svc := NewService(denyUser{denied: blocked}, NewQueue(), repo, NewInMemoryMatchRepository(), time.Minute, nil)

	_, err = svc.JoinMatchmaking(context.Background(), blocked, time.Now())
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestJoinMatchmakingRejectsAlreadyQueued(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()
	u1 := game.UserId{1}
	_, err := svc.JoinMatchmaking(ctx, u1, now)
	require.NoError(t, err)

	_, err = svc.JoinMatchmaking(ctx, u1, now)
	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestJoinMatchmakingRejectsAlreadyMatched(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()
	u1, u2 := game.UserId{1}, game.UserId{2}
	_, err := svc.JoinMatchmaking(ctx, u1, now)
	require.NoError(t, err)
	_, err = svc.JoinMatchmaking(ctx, u2, now)
	require.NoError(t, err)

	_, err = svc.JoinMatchmaking(ctx, u1, now)
	assert.ErrorIs(t, err, ErrAlreadyMatched)
}

func TestGetMatchStatusNotFoundWhenUninvolved(t *testing.T) {
	svc, _ := newTestService(t)
	status, err := svc.GetMatchStatus(context.Background(), game.UserId{42}, time.Now())
	require.NoError(t, err)
	assert.False(t, status.Waiting)
	assert.False(t, status.Matched)
}

func TestCleanupExpiredMatchesNotifiesAndRemoves(t *testing.T) {
	matches := NewInMemoryMatchRepository()
	notifier := &recordingNotifier{}
	repo, err := repository.NewSQLiteRepository("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	svc := NewService(allowAllUsers{}, NewQueue(), repo, matches, time.Minute, notifier)

	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	u1, u2 := game.UserId{1}, game.UserId{2}
	result, err := svc.createMatch(ctx, u1, u2, past)
	require.NoError(t, err)
	require.True(t, result.Matched)

	require.NoError(t, svc.CleanupExpiredMatches(ctx, time.Now()))
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Len(t, notifier.expired, 1)

	status, err := svc.GetMatchStatus(ctx, u1, time.Now())
	require.NoError(t, err)
	assert.False(t, status.Matched)
}
