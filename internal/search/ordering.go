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

import (
	"sort"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/evaluator"
)

// encodeMove packs a Move into the 32 bits stored in the transposition
// table: from[0:6] to[6:12] promotion[12:15].
func encodeMove(m chess.Move) uint32 {
	promo := uint32(0)
	if m.IsPromotion() {
		promo = uint32(m.Promotion)
	}
	return uint32(m.From) | uint32(m.To)<<6 | promo<<12
}

// decodeMove is encodeMove's inverse. A zero-value result with ok=false
// means "no move was stored".
func decodeMove(enc uint32) (chess.Move, bool) {
	if enc == 0 {
		return chess.Move{}, false
	}
	from := chess.Square(enc & 0x3f)
	to := chess.Square((enc >> 6) & 0x3f)
	promo := chess.PieceType((enc >> 12) & 0x7)
	return chess.Move{From: from, To: to, Promotion: promo}, true
}

// orderMoves sorts moves in place: the transposition table move first, then the inherited PV move, then
// promotions, then captures by MVV-LVA, then quiet moves by PST delta.
func orderMoves(p chess.Position, moves []chess.Move, ttMove, pvMove chess.Move) {
	scores := make([]int, len(moves))
	occOpp := p.OccupiedByColor(p.SideToMove().Opponent())
	for i, m := range moves {
		scores[i] = moveScore(p, m, ttMove, pvMove, occOpp)
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return scores[i] > scores[j]
	})
}

func moveScore(p chess.Position, m, ttMove, pvMove chess.Move, occOpp chess.Bitboard) int {
	switch {
	case m == ttMove:
		return 1_000_000
	case m == pvMove:
		return 900_000
	case m.IsPromotion():
		return 800_000 + m.Promotion.Value()
	}
	if occOpp.IsSet(m.To) {
		attacker, _ := p.PieceAt(m.From)
		victim, _ := p.PieceAt(m.To)
		return 700_000 + victim.Type.Value()*10 - attacker.Type.Value()
	}
	piece, _ := p.PieceAt(m.From)
	delta := evaluator.PSTMidValue(chess.Piece{Color: piece.Color, Type: piece.Type}, m.To) -
		evaluator.PSTMidValue(chess.Piece{Color: piece.Color, Type: piece.Type}, m.From)
	return delta
}
