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

package search

import "sync/atomic"

// Statistics are extra counters not essential for a functioning search, kept
// for logging and admin reporting. All fields are updated with
// atomic operations since Lazy-SMP workers share one Statistics instance.
type Statistics struct {
	NodesVisited uint64
	LeafsEvaluated uint64
	BetaCuts uint64
	TTHits uint64
	TTMisses uint64
}

func (s *Statistics) addNode() { atomic.AddUint64(&s.NodesVisited, 1) }
func (s *Statistics) addLeaf() { atomic.AddUint64(&s.LeafsEvaluated, 1) }
func (s *Statistics) addBetaCut() { atomic.AddUint64(&s.BetaCuts, 1) }
func (s *Statistics) addTTHit() { atomic.AddUint64(&s.TTHits, 1) }
func (s *Statistics) addTTMiss() { atomic.AddUint64(&s.TTMisses, 1) }

func (s *Statistics) merge(o *Statistics) {
	atomic.AddUint64(&s.NodesVisited, atomic.LoadUint64(&o.NodesVisited))
	atomic.AddUint64(&s.LeafsEvaluated, atomic.LoadUint64(&o.LeafsEvaluated))
	atomic.AddUint64(&s.BetaCuts, atomic.LoadUint64(&o.BetaCuts))
	atomic.AddUint64(&s.TTHits, atomic.LoadUint64(&o.TTHits))
	atomic.AddUint64(&s.TTMisses, atomic.LoadUint64(&o.TTMisses))
}

func (s *Statistics) String() string {
	return out.Sprintf("nodes=%d leafs=%d betaCuts=%d ttHits=%d ttMisses=%d",
		atomic.LoadUint64(&s.NodesVisited), atomic.LoadUint64(&s.LeafsEvaluated),
		atomic.LoadUint64(&s.BetaCuts), atomic.LoadUint64(&s.TTHits), atomic.LoadUint64(&s.TTMisses))
}
