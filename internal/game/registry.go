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
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store is the slice of persistence a Registry needs: load a game once,
// save it after every mutation. repository.Repository satisfies this
// without either package importing the other.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Game, error)
	Save(ctx context.Context, g *Game) error
}

// entry pairs a live Game with the lock that makes it a single-writer
// aggregate: every caller that touches this game, whether it arrived over
// a websocket or an HTTP request, serializes on the same mutex instead of
// mutating its own disconnected reconstruction.
type entry struct {
	mu sync.Mutex
	g  *Game
}

// Registry hands out the one shared *Game instance for a given id, loading
// it from Store on first access and keeping it in memory for as long as
// any connection or request cares about it. This is what makes concurrent
// websocket connections from both players (and spectators, and HTTP
// polling callers) observe the same state instead of racing independent
// copies.
type Registry struct {
	store Store

	mu    sync.Mutex
	games map[uuid.UUID]*entry
}

// NewRegistry creates a Registry backed by store.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store, games: make(map[uuid.UUID]*entry)}
}

// Get returns the shared Game for id, loading it from the store if this is
// the first caller to ask for it.
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (*Game, error) {
	e, err := r.entryFor(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g, nil
}

// WithGame runs fn against the single shared Game for id, holding that
// game's lock for fn's whole duration. If fn returns nil the result is
// persisted through the store before WithGame returns, still under the
// same lock, so a second caller can never observe a mutation that has not
// yet been saved.
func (r *Registry) WithGame(ctx context.Context, id uuid.UUID, fn func(g *Game) error) (*Game, error) {
	e, err := r.entryFor(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.g); err != nil {
		return e.g, err
	}
	if err := r.store.Save(ctx, e.g); err != nil {
		return e.g, err
	}
	return e.g, nil
}

// Forget drops id's cached instance, e.g. once a game has reached a
// terminal status and every connection watching it has closed. A later
// Get/WithGame simply reloads it from the store.
func (r *Registry) Forget(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

func (r *Registry) entryFor(ctx context.Context, id uuid.UUID) (*entry, error) {
	r.mu.Lock()
	e, ok := r.games[id]
	r.mu.Unlock()
	if ok {
		return e, nil
	}

	g, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.games[id]; ok {
		return existing, nil
	}
	e = &entry{g: g}
	r.games[id] = e
	return e, nil
}
