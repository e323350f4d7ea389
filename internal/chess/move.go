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

import "fmt"

// Move is a candidate or applied move: (from, to, promotion?). Equality is by
// value; two moves are the same move iff From, To and Promotion match.
type Move struct {
	From Square
	To Square
	Promotion PieceType // NoPieceType unless this move promotes a pawn
}

// IsPromotion reports whether the move carries a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion.IsValid()
}

func (m Move) String() string {
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%c", m.From, m.To, m.Promotion.Char()+('a'-'A'))
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// ParseMove parses pure algebraic coordinate notation, e.g. "e2e4" or
// "a7a8q": fromSquare, toSquare, and an optional lower-case promotion
// letter (q, r, b, or n).
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n':
			pt, _ := ParsePieceType(s[4])
			m.Promotion = pt
		default:
			return Move{}, fmt.Errorf("invalid promotion in move %q", s)
		}
	}
	return m, nil
}
