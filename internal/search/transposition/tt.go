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

// Package transposition implements the shared transposition table used by
// the Lazy-SMP search workers. Entries are addressed with a
// power-of-two bit mask so resizing only ever trims/grows to the nearest
// power of two fitting the requested megabyte budget.
//
// Put/Probe are deliberately unsynchronized: Lazy-SMP workers share one
// table without a lock, so concurrent updates can race. A race can only
// ever produce a stale or slightly corrupted entry for one key, and every
// reader validates the entry's key before trusting it, so the worst case
// is a missed hit, never a wrong move. This mirrors the stated design of
// the teacher's own TtTable, which calls out that external synchronization
// is the caller's responsibility, and it is what "Lazy-SMP" means in
// practice: sharing is intentionally best-effort.
package transposition

import (
	"math"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/frankkopp/chessd/internal/logging"
)

var out = message.NewPrinter(language.German)

// MaxSizeMB bounds the memory the table may ever request.
const MaxSizeMB = 4096

// entrySizeBytes is the in-memory footprint of one Entry, used to size the
// table to the requested megabyte budget.
const entrySizeBytes = 24

// NodeType records which kind of alpha-beta bound a stored value represents.
type NodeType uint8

const (
	// Exact means the stored value is the position's true minimax value.
	Exact NodeType = iota
	// LowerBound means the true value is at least the stored value (a
	// beta cutoff occurred).
	LowerBound
	// UpperBound means the true value is at most the stored value (no
	// move improved alpha).
	UpperBound
)

// Entry is one transposition table slot.
type Entry struct {
	key uint64
	move uint32 // encoded Move; zero means "no move"
	depth int8
	value int32
	nodeType NodeType
}

// Key returns this entry's full hash key (callers must compare this
// against the probe key before trusting Move/Value).
func (e *Entry) Key() uint64 { return e.key }

// Move returns the encoded best move stored with this entry.
func (e *Entry) Move() uint32 { return e.move }

// Depth returns the search depth the entry was stored at.
func (e *Entry) Depth() int8 { return e.depth }

// Value returns the stored value.
func (e *Entry) Value() int32 { return e.value }

// NodeType returns the stored bound type.
func (e *Entry) NodeType() NodeType { return e.nodeType }

// Table is the shared transposition table.
type Table struct {
	log *logging.Logger
	data []Entry
	hashKeyMask uint64
	maxNumberOfEntries uint64

	Stats Stats
}

// Stats holds coarse usage counters. Reads/writes are not synchronized;
// treat these as approximate, consistent with how the table itself is shared.
type Stats struct {
	Puts uint64
	Probes uint64
	Hits uint64
	Misses uint64
}

// NewTable creates a Table sized to at most sizeInMB megabytes.
func NewTable(sizeInMB int) *Table {
	t := &Table{log: myLogging.GetLog()}
	t.Resize(sizeInMB)
	return t
}

// Resize clears the table and rebuilds it to the nearest power-of-two
// entry count fitting sizeInMB. Must not be called concurrently with Put/Probe.
func (t *Table) Resize(sizeInMB int) {
	if sizeInMB > MaxSizeMB {
		t.log.Warning(out.Sprintf("requested TT size %d MB reduced to max %d MB", sizeInMB, MaxSizeMB))
		sizeInMB = MaxSizeMB
	}
	sizeInBytes := uint64(sizeInMB) * 1024 * 1024
	if sizeInBytes < entrySizeBytes {
		t.maxNumberOfEntries = 0
	} else {
		t.maxNumberOfEntries = 1 << uint64(math.Floor(math.Log2(float64(sizeInBytes/entrySizeBytes))))
	}
	t.hashKeyMask = t.maxNumberOfEntries - 1
	t.data = make([]Entry, t.maxNumberOfEntries)
	t.log.Info(out.Sprintf("transposition table sized to %d MB, %d entries", sizeInMB, t.maxNumberOfEntries))
}

// Clear zeroes every entry.
func (t *Table) Clear() {
	t.data = make([]Entry, t.maxNumberOfEntries)
	t.Stats = Stats{}
}

// Probe returns the entry for key, or nil if the slot holds a different
// position (a miss) or the table has zero capacity.
func (t *Table) Probe(key uint64) *Entry {
	if t.maxNumberOfEntries == 0 {
		return nil
	}
	t.Stats.Probes++
	e := &t.data[key&t.hashKeyMask]
	if e.key == key {
		t.Stats.Hits++
		return e
	}
	t.Stats.Misses++
	return nil
}

// Put stores a value, always-replace: a new entry for a different key
// simply overwrites whatever was in its slot. This is the standard
// always-replace policy and keeps the table branch-free under concurrent
// writers.
func (t *Table) Put(key uint64, move uint32, depth int8, value int32, nodeType NodeType) {
	if t.maxNumberOfEntries == 0 {
		return
	}
	t.Stats.Puts++
	e := &t.data[key&t.hashKeyMask]
	e.key = key
	e.move = move
	e.depth = depth
	e.value = value
	e.nodeType = nodeType
}

// Len returns the table's entry capacity.
func (t *Table) Len() int {
	return len(t.data)
}
