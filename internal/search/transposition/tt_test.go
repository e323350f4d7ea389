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

package transposition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTableSizesToNearestPowerOfTwo(t *testing.T) {
	tb := NewTable(2)
	assert.Equal(t, uint64(65_536), tb.maxNumberOfEntries)
	assert.Equal(t, 65_536, tb.Len())

	tb = NewTable(64)
	assert.Equal(t, uint64(2_097_152), tb.maxNumberOfEntries)

	tb = NewTable(100)
	assert.Equal(t, uint64(4_194_304), tb.maxNumberOfEntries)
}

func TestNewTableClampsToMaxSize(t *testing.T) {
	tb := NewTable(MaxSizeMB * 2)
	assert.LessOrEqual(t, tb.Len(), 1<<uint(28))
}

func TestPutAndProbe(t *testing.T) {
	tb := NewTable(4)

	tb.Put(111, 0xABCD, 4, 57, LowerBound)
	e := tb.Probe(111)
	if assert.NotNil(t, e) {
		assert.Equal(t, uint64(111), e.Key())
		assert.EqualValues(t, 0xABCD, e.Move())
		assert.EqualValues(t, 4, e.Depth())
		assert.EqualValues(t, 57, e.Value())
		assert.Equal(t, LowerBound, e.NodeType())
	}
	assert.EqualValues(t, 1, tb.Stats.Puts)
	assert.EqualValues(t, 1, tb.Stats.Probes)
	assert.EqualValues(t, 1, tb.Stats.Hits)
}

func TestProbeMissReturnsNil(t *testing.T) {
	tb := NewTable(1)
	tb.Put(111, 0xABCD, 4, 57, Exact)

	collisionKey := 111 + tb.maxNumberOfEntries
	e := tb.Probe(collisionKey)
	assert.Nil(t, e)
	assert.EqualValues(t, 1, tb.Stats.Misses)
}

func TestPutAlwaysReplaces(t *testing.T) {
	tb := NewTable(1)
	collisionKey := uint64(111) + tb.maxNumberOfEntries

	tb.Put(111, 0xABCD, 4, 57, Exact)
	tb.Put(collisionKey, 0x1234, 6, 99, UpperBound)

	e := tb.Probe(collisionKey)
	if assert.NotNil(t, e) {
		assert.Equal(t, collisionKey, e.Key())
		assert.EqualValues(t, 99, e.Value())
	}
	assert.Nil(t, tb.Probe(111))
}

func TestClearResetsEntriesAndStats(t *testing.T) {
	tb := NewTable(1)
	tb.Put(111, 0xABCD, 4, 57, Exact)
	tb.Probe(111)

	tb.Clear()

	assert.Nil(t, tb.Probe(111))
	assert.EqualValues(t, Stats{}, tb.Stats)
}

func TestZeroSizeTableIsInert(t *testing.T) {
	tb := NewTable(0)
	assert.Equal(t, 0, tb.Len())

	tb.Put(111, 0xABCD, 4, 57, Exact)
	assert.Nil(t, tb.Probe(111))
}
