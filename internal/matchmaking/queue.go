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

// Package matchmaking implements the FIFO waiting queue and the Match
// Service that pairs queued users into games.
package matchmaking

import (
	"errors"
	"sync"

	"github.com/frankkopp/chessd/internal/game"
)

// ErrAlreadyQueued is returned by Add when userId is already waiting.
var ErrAlreadyQueued = errors.New("user is already queued")

// Queue is an ordered, thread-safe set of waiting userIds. All operations
// are atomic against concurrent callers via a single mutex; no userId can
// appear in two concurrent FindMatch results.
type Queue struct {
	mu      sync.Mutex
	order   []game.UserId
	present map[game.UserId]struct{}
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{present: make(map[game.UserId]struct{})}
}

// Add appends userID to the back of the queue.
func (q *Queue) Add(userID game.UserId) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.present[userID]; ok {
		return ErrAlreadyQueued
	}
	q.present[userID] = struct{}{}
	q.order = append(q.order, userID)
	return nil
}

// Remove removes userID if present and reports whether it was.
func (q *Queue) Remove(userID game.UserId) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.present[userID]; !ok {
		return false
	}
	delete(q.present, userID)
	for i, id := range q.order {
		if id == userID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// FindMatch atomically removes and returns the two oldest queued users, or
// ok=false if fewer than two are waiting.
func (q *Queue) FindMatch() (a, b game.UserId, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.order) < 2 {
		return game.UserId{}, game.UserId{}, false
	}
	a, b = q.order[0], q.order[1]
	q.order = q.order[2:]
	delete(q.present, a)
	delete(q.present, b)
	return a, b, true
}

// Size returns the number of users currently waiting.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// IsQueued reports whether userID is currently waiting.
func (q *Queue) IsQueued(userID game.UserId) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.present[userID]
	return ok
}

// Position returns the 1-based queue position of userID, or 0 if not
// queued.
func (q *Queue) Position(userID game.UserId) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, id := range q.order {
		if id == userID {
			return i + 1
		}
	}
	return 0
}
