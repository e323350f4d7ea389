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
	"sync"

	"github.com/google/uuid"

	"github.com/frankkopp/chessd/internal/game"
)

// matchmakingRegistry maps a userId to its one matchmaking-queue
// connection. register replaces any prior entry, treated as a
// reconnection.
type matchmakingRegistry struct {
	mu   sync.RWMutex
	byID map[game.UserId]Connection
}

func newMatchmakingRegistry() *matchmakingRegistry {
	return &matchmakingRegistry{byID: make(map[game.UserId]Connection)}
}

func (r *matchmakingRegistry) register(userID game.UserId, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[userID] = conn
}

func (r *matchmakingRegistry) unregister(userID game.UserId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, userID)
}

func (r *matchmakingRegistry) get(userID game.UserId) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[userID]
	return c, ok
}

// gameRegistry maps a playerId (one per game participation) to its
// connection, so a user playing two games concurrently holds two entries.
type gameRegistry struct {
	mu   sync.RWMutex
	byID map[game.PlayerId]Connection
}

func newGameRegistry() *gameRegistry {
	return &gameRegistry{byID: make(map[game.PlayerId]Connection)}
}

func (r *gameRegistry) register(playerID game.PlayerId, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[playerID] = conn
}

func (r *gameRegistry) unregister(playerID game.PlayerId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, playerID)
}

func (r *gameRegistry) get(playerID game.PlayerId) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[playerID]
	return c, ok
}

// spectatorRegistry maps a gameId to the set of (userId, connection) pairs
// watching it. One lock guards the buckets of every game; there is no
// per-game lock.
type spectatorRegistry struct {
	mu      sync.RWMutex
	byGame  map[uuid.UUID]map[game.UserId]Connection
}

func newSpectatorRegistry() *spectatorRegistry {
	return &spectatorRegistry{byGame: make(map[uuid.UUID]map[game.UserId]Connection)}
}

func (r *spectatorRegistry) register(gameID uuid.UUID, userID game.UserId, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.byGame[gameID]
	if !ok {
		bucket = make(map[game.UserId]Connection)
		r.byGame[gameID] = bucket
	}
	bucket[userID] = conn
}

func (r *spectatorRegistry) unregister(gameID uuid.UUID, userID game.UserId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.byGame[gameID]
	if !ok {
		return
	}
	delete(bucket, userID)
	if len(bucket) == 0 {
		delete(r.byGame, gameID)
	}
}

func (r *spectatorRegistry) all(gameID uuid.UUID) map[game.UserId]Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bucket := r.byGame[gameID]
	out := make(map[game.UserId]Connection, len(bucket))
	for id, conn := range bucket {
		out[id] = conn
	}
	return out
}
