/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package chess

import "math/rand"

// Key is a 64-bit Zobrist fingerprint used only by the transposition table;
// search correctness never depends on its uniqueness.
type Key uint64

// zobristSeed is fixed so the per-process table is deterministic across
// runs.
const zobristSeed = 42

var (
	zPieceSquare [NumColors][NumPieceTypes][64]Key
	zSideToMove Key
	zCastling [16]Key
	zEnPassant [8]Key
)

func init() {
	r := rand.New(rand.NewSource(zobristSeed))
	for c := Color(0); c < NumColors; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := Square(0); sq < 64; sq++ {
				zPieceSquare[c][pt][sq] = Key(r.Uint64())
			}
		}
	}
	zSideToMove = Key(r.Uint64())
	for i := range zCastling {
		zCastling[i] = Key(r.Uint64())
	}
	for i := range zEnPassant {
		zEnPassant[i] = Key(r.Uint64())
	}
}

// ZobristKey computes the hash of the position from scratch. Equal hashes
// imply equal "search-relevant state": positions differing only in the
// halfmove/fullmove counters hash identically.
func (p Position) ZobristKey() Key {
	var k Key
	for c := Color(0); c < NumColors; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.pieces[c][pt]
			for bb != 0 {
				var sq Square
				sq, bb = bb.PopLSB()
				k ^= zPieceSquare[c][pt][sq]
			}
		}
	}
	if p.sideToMove == Black {
		k ^= zSideToMove
	}
	k ^= zCastling[p.castling]
	if ep, ok := p.EnPassant(); ok {
		k ^= zEnPassant[ep.File()]
	}
	return k
}
