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

// Package search implements the move-selection engine: iterative-deepening
// negamax with alpha-beta pruning, a shared transposition table, and
// Lazy-SMP parallel workers.
package search

import (
	"context"
	"errors"
	"sync"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/config"
	"github.com/frankkopp/chessd/internal/evaluator"
	myLogging "github.com/frankkopp/chessd/internal/logging"
	"github.com/frankkopp/chessd/internal/search/transposition"
)

var out = message.NewPrinter(language.German)

// ErrNoLegalMoves is returned by BestMove when the position has no legal
// move, i.e. the game is already over.
var ErrNoLegalMoves = errors.New("no legal moves in position")

const (
	infinity = 10_000_000
	mateValue = 1_000_000
)

// Engine selects a move for a position by searching to a depth and with a
// worker count fixed by Difficulty. Create one with NewEngine and reuse it
// across calls; the transposition table persists between searches, which is
// the point of sharing it.
type Engine struct {
	log *logging.Logger
	slog *logging.Logger

	eval *evaluator.Evaluator
	tt *transposition.Table
}

// NewEngine creates an Engine with a transposition table sized per
// config.Settings.Search.TTSizeMB.
func NewEngine() *Engine {
	return &Engine{
		log: myLogging.GetLog(),
		slog: myLogging.GetSearchLog(),
		eval: evaluator.NewEvaluator(),
		tt: transposition.NewTable(config.Settings.Search.TTSizeMB),
	}
}

// NewGame clears the transposition table so stale entries from a previous
// game cannot leak into this one.
func (e *Engine) NewGame() {
	e.tt.Clear()
}

// BestMove searches p to the depth and with the worker count dictated by
// difficulty and returns the best move found. Every worker searches the same
// position with a rotated root move order to diversify exploration; the
// root keeps whichever worker reports the highest score, which is what
// "Lazy-SMP" means in practice — the shared transposition table, not a
// single privileged worker, is what lets the pool cooperate.
func (e *Engine) BestMove(ctx context.Context, p chess.Position, difficulty Difficulty) (chess.Move, Statistics, error) {
	rootMoves := chess.LegalMoves(p)
	if len(rootMoves) == 0 {
		return chess.Move{}, Statistics{}, ErrNoLegalMoves
	}

	depth := difficulty.Depth()
	workers := difficulty.Workers()
	if workers < 1 {
		workers = 1
	}

	stats := &Statistics{}
	var mu sync.Mutex
	best := workerResult{value: -infinity}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		idx := i
		g.Go(func() error {
			move, value := e.runWorker(gctx, p, depth, idx, stats)
			mu.Lock()
			best = bestOf(best, workerResult{move: move, value: value})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	e.slog.Debug(out.Sprintf("bestMove=%v value=%d difficulty=%v %s", best.move, best.value, difficulty, stats.String()))
	return best.move, *stats, nil
}

// workerResult is one Lazy-SMP worker's root choice.
type workerResult struct {
	move  chess.Move
	value int
}

// bestOf keeps whichever of a, b reports the higher score, so the root
// never discards a worker's result just because it ran with a non-zero
// index or rotated move order.
func bestOf(a, b workerResult) workerResult {
	if b.value > a.value {
		return b
	}
	return a
}

// runWorker performs iterative deepening from depth 1 to targetDepth,
// reusing the shared TT between iterations for move ordering. Worker idx>0
// rotates its root move order by idx to diversify exploration, since all
// workers otherwise search identical positions.
func (e *Engine) runWorker(ctx context.Context, p chess.Position, targetDepth, idx int, stats *Statistics) (chess.Move, int) {
	var move chess.Move
	var value int
	for d := 1; d <= targetDepth; d++ {
		if ctx.Err() != nil {
			break
		}
		v, m := e.negamaxRoot(ctx, p, d, idx, stats)
		if ctx.Err() != nil && d > 1 {
			break
		}
		value, move = v, m
	}
	return move, value
}

func (e *Engine) negamaxRoot(ctx context.Context, p chess.Position, depth, workerIdx int, stats *Statistics) (int, chess.Move) {
	moves := chess.LegalMoves(p)
	key := uint64(p.ZobristKey())
	ttMove := chess.Move{}
	if entry := e.tt.Probe(key); entry != nil {
		if mv, ok := decodeMove(entry.Move()); ok {
			ttMove = mv
		}
	}
	orderMoves(p, moves, ttMove, chess.Move{})
	if workerIdx > 0 && len(moves) > workerIdx {
		rotateTail(moves, workerIdx%len(moves))
	}

	alpha, beta := -infinity, infinity
	best := moves[0]
	bestValue := -infinity
	for _, m := range moves {
		if ctx.Err() != nil {
			break
		}
		next := p.MovePiece(m)
		value, _ := e.negamax(ctx, next, depth-1, 1, -beta, -alpha, stats)
		value = -value
		if value > bestValue {
			bestValue, best = value, m
		}
		if value > alpha {
			alpha = value
		}
	}
	e.tt.Put(key, encodeMove(best), int8(depth), int32(bestValue), transposition.Exact)
	return bestValue, best
}

// negamax implements alpha-beta pruned negamax search. ply counts plies from
// the root of this call, used only to prefer shorter mates.
func (e *Engine) negamax(ctx context.Context, p chess.Position, depth, ply, alpha, beta int, stats *Statistics) (int, chess.Move) {
	stats.addNode()

	key := uint64(p.ZobristKey())
	ttMove := chess.Move{}
	if entry := e.tt.Probe(key); entry != nil {
		stats.addTTHit()
		if mv, ok := decodeMove(entry.Move()); ok {
			ttMove = mv
		}
		if int(entry.Depth()) >= depth {
			switch entry.NodeType() {
			case transposition.Exact:
				return int(entry.Value()), ttMove
			case transposition.LowerBound:
				if int(entry.Value()) > alpha {
					alpha = int(entry.Value())
				}
			case transposition.UpperBound:
				if int(entry.Value()) < beta {
					beta = int(entry.Value())
				}
			}
			if alpha >= beta {
				return int(entry.Value()), ttMove
			}
		}
	} else {
		stats.addTTMiss()
	}

	if ply > 0 && (chess.IsFiftyMoveRule(p) || chess.IsInsufficientMaterial(p)) {
		return 0, chess.Move{}
	}

	moves := chess.LegalMoves(p)
	if len(moves) == 0 {
		if chess.IsInCheck(p, p.SideToMove()) {
			return -(mateValue - ply), chess.Move{}
		}
		return 0, chess.Move{}
	}

	if depth == 0 || ctx.Err() != nil {
		stats.addLeaf()
		return e.eval.Evaluate(p), chess.Move{}
	}

	orderMoves(p, moves, ttMove, chess.Move{})

	origAlpha := alpha
	best := moves[0]
	bestValue := -infinity
	for _, m := range moves {
		if ctx.Err() != nil {
			break
		}
		next := p.MovePiece(m)
		value, _ := e.negamax(ctx, next, depth-1, ply+1, -beta, -alpha, stats)
		value = -value
		if value > bestValue {
			bestValue, best = value, m
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			stats.addBetaCut()
			break
		}
	}

	nodeType := transposition.Exact
	if bestValue <= origAlpha {
		nodeType = transposition.UpperBound
	} else if bestValue >= beta {
		nodeType = transposition.LowerBound
	}
	e.tt.Put(key, encodeMove(best), int8(depth), int32(bestValue), nodeType)
	return bestValue, best
}

func rotateTail(moves []chess.Move, k int) {
	if k <= 0 || k >= len(moves) {
		return
	}
	tail := append([]chess.Move{}, moves[k:]...)
	copy(moves[len(moves)-k:], moves[:k])
	copy(moves, tail)
}
