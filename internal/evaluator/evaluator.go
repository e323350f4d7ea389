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

// Package evaluator contains structures and functions to calculate the
// value of a chess position to be used by the search.
package evaluator

import (
	"strings"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frankkopp/chessd/internal/chess"
	myLogging "github.com/frankkopp/chessd/internal/logging"
)

var out = message.NewPrinter(language.German)

// gamePhaseMax is the phase weight of a full, unreduced set of minor/major
// pieces on the board. Weights: knight/bishop=1, rook=2, queen=4, per side.
const gamePhaseMax = 24

var phaseWeight = map[chess.PieceType]int{
	chess.Knight: 1,
	chess.Bishop: 1,
	chess.Rook: 2,
	chess.Queen: 4,
}

// Score carries a position's evaluation split by game phase; Evaluate
// interpolates between them using the position's phase factor.
type Score struct {
	MidGameValue int
	EndGameValue int
}

func (s *Score) add(o Score) {
	s.MidGameValue += o.MidGameValue
	s.EndGameValue += o.EndGameValue
}

// valueFromScore blends mid/end game values by gamePhaseFactor, 1.0 at a
// full board and 0.0 once all knights, bishops, rooks and queens are gone.
func (s Score) valueFromScore(gamePhaseFactor float64) int {
	return int(float64(s.MidGameValue)*gamePhaseFactor + float64(s.EndGameValue)*(1.0-gamePhaseFactor))
}

// Evaluator computes a centipawn value for a chess position from material
// and piece-square tables. Create one with NewEvaluator and reuse it across
// calls to Evaluate; it holds no per-position state between calls.
type Evaluator struct {
	log *logging.Logger
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{log: myLogging.GetLog()}
}

// Evaluate returns the value of p from the perspective of the side to move:
// positive means the side to move stands better. Checkmate/stalemate are
// the Rules package's concern, not this function's; callers should check
// those first.
func (e *Evaluator) Evaluate(p chess.Position) int {
	if chess.IsInsufficientMaterial(p) {
		return 0
	}

	gamePhaseFactor := gamePhase(p)

	var score Score
	score.add(materialScore(p))
	score.add(pstScore(p))

	value := score.valueFromScore(gamePhaseFactor)
	if p.SideToMove() == chess.Black {
		value = -value
	}
	return value
}

// gamePhase returns 1.0 for a full board tapering to 0.0 as major and
// minor pieces come off the board.
func gamePhase(p chess.Position) float64 {
	phase := 0
	for c := chess.Color(0); c < chess.NumColors; c++ {
		for pt, weight := range phaseWeight {
			phase += p.Pieces(c, pt).PopCount() * weight
		}
	}
	if phase > gamePhaseMax {
		phase = gamePhaseMax
	}
	return float64(phase) / float64(gamePhaseMax)
}

func materialScore(p chess.Position) Score {
	var s Score
	for pt := chess.Pawn; pt <= chess.Queen; pt++ {
		diff := p.Pieces(chess.White, pt).PopCount() - p.Pieces(chess.Black, pt).PopCount()
		v := diff * pt.Value()
		s.MidGameValue += v
		s.EndGameValue += v
	}
	return s
}

func pstScore(p chess.Position) Score {
	var s Score
	for c := chess.Color(0); c < chess.NumColors; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}
		for pt := chess.Pawn; pt <= chess.King; pt++ {
			bb := p.Pieces(c, pt)
			for bb != 0 {
				var sq chess.Square
				sq, bb = bb.PopLSB()
				pc := chess.Piece{Color: c, Type: pt}
				s.MidGameValue += sign * pstMid(pc, sq)
				s.EndGameValue += sign * pstEnd(pc, sq)
			}
		}
	}
	return s
}

// Report renders a human-readable evaluation breakdown, used for debugging
// and admin tooling.
func (e *Evaluator) Report(p chess.Position) string {
	var report strings.Builder
	report.WriteString("Evaluation Report\n")
	report.WriteString("=============================================\n")
	report.WriteString(out.Sprintf("Position: %s\n", p.ToFEN()))
	report.WriteString(out.Sprintf("%s\n", p.StringBoard()))
	report.WriteString(out.Sprintf("Game phase factor: %f\n", gamePhase(p)))
	report.WriteString(out.Sprintf("Value (side to move %s): %d\n", p.SideToMove(), e.Evaluate(p)))
	return report.String()
}
