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

import "strings"

// CastlingRights encodes the four-bit castling state (K Q k q).
type CastlingRights uint8

const (
	CastlingWhiteKing CastlingRights = 1 << iota
	CastlingWhiteQueen
	CastlingBlackKing
	CastlingBlackQueen

	CastlingNone = CastlingRights(0)
	CastlingAll  = CastlingWhiteKing | CastlingWhiteQueen | CastlingBlackKing | CastlingBlackQueen
)

// Has reports whether all bits of rhs are present.
func (c CastlingRights) Has(rhs CastlingRights) bool {
	return c&rhs == rhs
}

// Remove clears the given rights and returns the result.
func (c CastlingRights) Remove(rhs CastlingRights) CastlingRights {
	return c &^ rhs
}

func (c CastlingRights) String() string {
	if c == CastlingNone {
		return "-"
	}
	var sb strings.Builder
	if c.Has(CastlingWhiteKing) {
		sb.WriteByte('K')
	}
	if c.Has(CastlingWhiteQueen) {
		sb.WriteByte('Q')
	}
	if c.Has(CastlingBlackKing) {
		sb.WriteByte('k')
	}
	if c.Has(CastlingBlackQueen) {
		sb.WriteByte('q')
	}
	return sb.String()
}

// ParseCastlingRights parses the FEN castling field, e.g. "KQkq" or "-".
func ParseCastlingRights(s string) (CastlingRights, bool) {
	if s == "-" {
		return CastlingNone, true
	}
	var c CastlingRights
	for _, r := range s {
		switch r {
		case 'K':
			c |= CastlingWhiteKing
		case 'Q':
			c |= CastlingWhiteQueen
		case 'k':
			c |= CastlingBlackKing
		case 'q':
			c |= CastlingBlackQueen
		default:
			return CastlingNone, false
		}
	}
	return c, true
}
