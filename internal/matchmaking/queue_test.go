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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/chessd/internal/game"
)

func TestQueueAddRejectsDuplicate(t *testing.T) {
	q := NewQueue()
	u := game.UserId{1}
	require.NoError(t, q.Add(u))
	assert.ErrorIs(t, q.Add(u), ErrAlreadyQueued)
}

func TestQueueFindMatchRequiresTwo(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.Add(game.UserId{1}))
	_, _, ok := q.FindMatch()
	assert.False(t, ok)
}

func TestQueueFindMatchReturnsOldestTwoInOrder(t *testing.T) {
	q := NewQueue()
	u1, u2, u3 := game.UserId{1}, game.UserId{2}, game.UserId{3}
	require.NoError(t, q.Add(u1))
	require.NoError(t, q.Add(u2))
	require.NoError(t, q.Add(u3))

	a, b, ok := q.FindMatch()
	require.True(t, ok)
	assert.Equal(t, u1, a)
	assert.Equal(t, u2, b)
	assert.Equal(t, 1, q.Size())
	assert.True(t, q.IsQueued(u3))
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	u := game.UserId{1}
	assert.False(t, q.Remove(u))
	require.NoError(t, q.Add(u))
	assert.True(t, q.Remove(u))
	assert.False(t, q.IsQueued(u))
}

// TestQueueConcurrentFindMatchNeverDoublePairs hammers FindMatch from many
// goroutines and checks no userId is ever handed out twice, the core
// guarantee the queue's mutex exists to provide.
func TestQueueConcurrentFindMatchNeverDoublePairs(t *testing.T) {
	q := NewQueue()
	const n = 200
	for i := 0; i < n; i++ {
		require.NoError(t, q.Add(game.UserId{byte(i), byte(i >> 8)}))
	}

	var mu sync.Mutex
	seen := make(map[game.UserId]int)
	var wg sync.WaitGroup
	for i := 0; i < n/2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, b, ok := q.FindMatch()
			if !ok {
				return
			}
			mu.Lock()
			seen[a]++
			seen[b]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	for id, count := range seen {
		assert.LessOrEqualf(t, count, 1, "userId %v appeared in %d matches", id, count)
	}
	assert.Equal(t, 0, q.Size())
}
