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
	"time"

	"github.com/google/uuid"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/game"
)

// matchExpiryWindow is how long a Match lives before CleanupExpiredMatches
// reclaims it, normally driven by config.Settings.Matchmaking.MatchExpiry.
const matchExpiryWindow = 5 * time.Minute

// Match is the transient record created the instant two queued users are
// paired, deleted once both have connected to the game or upon expiry.
type Match struct {
	GameID        uuid.UUID
	WhiteUserID   game.UserId
	BlackUserID   game.UserId
	WhitePlayerID game.PlayerId
	BlackPlayerID game.PlayerId
	MatchedAt     time.Time
	ExpiresAt     time.Time
}

// ColourFor returns the side userID plays in this match.
func (m Match) ColourFor(userID game.UserId) chess.Color {
	if userID == m.WhiteUserID {
		return chess.White
	}
	return chess.Black
}

// MatchRepository stores in-flight Matches keyed by the two participating
// users. Matches are transient: unlike the Game Repository, losing them on
// restart only forces an affected pair back through matchmaking.
type MatchRepository interface {
	Save(ctx context.Context, m *Match) error
	FindByUser(ctx context.Context, userID game.UserId) (*Match, bool, error)
	DeleteByGameID(ctx context.Context, gameID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) ([]*Match, error)
}

// InMemoryMatchRepository is a mutex-protected MatchRepository, sufficient
// for a single server process; a clustered deployment would back this with
// a shared store instead.
type InMemoryMatchRepository struct {
	mu       sync.Mutex
	byGame   map[uuid.UUID]*Match
	byUserID map[game.UserId]uuid.UUID
}

// NewInMemoryMatchRepository creates an empty MatchRepository.
func NewInMemoryMatchRepository() *InMemoryMatchRepository {
	return &InMemoryMatchRepository{
		byGame:   make(map[uuid.UUID]*Match),
		byUserID: make(map[game.UserId]uuid.UUID),
	}
}

func (r *InMemoryMatchRepository) Save(_ context.Context, m *Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byGame[m.GameID] = m
	r.byUserID[m.WhiteUserID] = m.GameID
	r.byUserID[m.BlackUserID] = m.GameID
	return nil
}

func (r *InMemoryMatchRepository) FindByUser(_ context.Context, userID game.UserId) (*Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gameID, ok := r.byUserID[userID]
	if !ok {
		return nil, false, nil
	}
	m, ok := r.byGame[gameID]
	return m, ok, nil
}

func (r *InMemoryMatchRepository) DeleteByGameID(_ context.Context, gameID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byGame[gameID]
	if !ok {
		return nil
	}
	delete(r.byGame, gameID)
	delete(r.byUserID, m.WhiteUserID)
	delete(r.byUserID, m.BlackUserID)
	return nil
}

func (r *InMemoryMatchRepository) DeleteExpired(_ context.Context, now time.Time) ([]*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []*Match
	for gameID, m := range r.byGame {
		if m.ExpiresAt.Before(now) {
			delete(r.byGame, gameID)
			delete(r.byUserID, m.WhiteUserID)
			delete(r.byUserID, m.BlackUserID)
			removed = append(removed, m)
		}
	}
	return removed, nil
}
