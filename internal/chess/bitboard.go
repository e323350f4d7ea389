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

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit set of squares; bit i represents square i.
type Bitboard uint64

const EmptyBitboard Bitboard = 0

// BitMask returns a bitboard with only sq set.
func BitMask(sq Square) Bitboard {
	return Bitboard(1) << uint(sq)
}

func (b Bitboard) IsSet(sq Square) bool {
	return b&BitMask(sq) != 0
}

func (b Bitboard) Set(sq Square) Bitboard {
	return b | BitMask(sq)
}

func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ BitMask(sq)
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the least-significant set square, or NoSquare if empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB returns the least-significant set square and the bitboard with it cleared.
func (b Bitboard) PopLSB() (Square, Bitboard) {
	sq := b.LSB()
	return sq, b&(b-1)
}

func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if b.IsSet(NewSquare(f, r)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		if r != 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

const (
	fileA Bitboard = 0x0101010101010101
	fileH Bitboard = fileA << 7
	rank1 Bitboard = 0xff
	rank2 Bitboard = rank1 << 8
	rank4 Bitboard = rank1 << (8 * 3)
	rank5 Bitboard = rank1 << (8 * 4)
	rank7 Bitboard = rank1 << (8 * 6)
	rank8 Bitboard = rank1 << (8 * 7)
)

// precomputed non-sliding attack tables, one entry per origin square.
var knightAttacks [64]Bitboard
var kingAttacks [64]Bitboard
var pawnAttacks [NumColors][64]Bitboard

func init() {
	for sq := Square(0); sq < 64; sq++ {
		knightAttacks[sq] = computeKnightAttacks(sq)
		kingAttacks[sq] = computeKingAttacks(sq)
		pawnAttacks[White][sq] = computePawnAttacks(White, sq)
		pawnAttacks[Black][sq] = computePawnAttacks(Black, sq)
	}
}

func computeKnightAttacks(sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()
	offsets := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	var bb Bitboard
	for _, o := range offsets {
		nf, nr := f+o[0], r+o[1]
		if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
			bb = bb.Set(NewSquare(nf, nr))
		}
	}
	return bb
}

func computeKingAttacks(sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()
	var bb Bitboard
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			nf, nr := f+df, r+dr
			if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				bb = bb.Set(NewSquare(nf, nr))
			}
		}
	}
	return bb
}

func computePawnAttacks(c Color, sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()
	dr := 1
	if c == Black {
		dr = -1
	}
	var bb Bitboard
	for _, df := range []int{-1, 1} {
		nf, nr := f+df, r+dr
		if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
			bb = bb.Set(NewSquare(nf, nr))
		}
	}
	return bb
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king (one-step) attack set from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the diagonal capture squares for a pawn of color c on sq.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

// rayDirections: N, S, E, W, NE, NW, SE, SW as (df, dr) offsets.
var rayDirections = [8][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// rayAttacks walks each requested direction from sq, stopping at (and
// including) the first occupied square. This is classical ray-casting, not
// a magic-bitboard lookup. occupied is the full-board occupancy.
func rayAttacks(sq Square, occupied Bitboard, dirs []int) Bitboard {
	var bb Bitboard
	f0, r0 := sq.File(), sq.Rank()
	for _, d := range dirs {
		df, dr := rayDirections[d][0], rayDirections[d][1]
		f, r := f0+df, r0+dr
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			target := NewSquare(f, r)
			bb = bb.Set(target)
			if occupied.IsSet(target) {
				break
			}
			f, r = f+df, r+dr
		}
	}
	return bb
}

var rookDirs = []int{0, 1, 2, 3}
var bishopDirs = []int{4, 5, 6, 7}

// RookAttacks returns rook-line attacks from sq given full-board occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, rookDirs)
}

// BishopAttacks returns diagonal attacks from sq given full-board occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, bishopDirs)
}

// QueenAttacks returns combined rook+bishop attacks from sq.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}
