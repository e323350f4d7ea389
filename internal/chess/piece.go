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

// PieceType identifies a kind of piece, independent of color.
type PieceType int8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumPieceTypes = 7
)

var pieceTypeChars = string("-PNBRQK")

// Char returns the single upper-case FEN letter for the piece type.
func (pt PieceType) Char() byte {
	return pieceTypeChars[pt]
}

// IsValid reports whether pt is a real piece type (not NoPieceType).
func (pt PieceType) IsValid() bool {
	return pt >= Pawn && pt <= King
}

// ParsePieceType parses a FEN piece letter, case-insensitive.
func ParsePieceType(r byte) (PieceType, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPieceType, false
	}
}

// pieceTypeValue gives each piece type's material value in centipawns.
var pieceTypeValue = [NumPieceTypes]int{0, 100, 320, 330, 500, 900, 20_000}

// Value returns the material value of the piece type in centipawns.
func (pt PieceType) Value() int {
	return pieceTypeValue[pt]
}

// Piece is a PieceType paired with a Color.
type Piece struct {
	Color Color
	Type PieceType
}

// IsValid reports whether the piece has a real type.
func (p Piece) IsValid() bool {
	return p.Type.IsValid()
}

// Char returns the FEN letter for the piece: upper-case for White, lower for Black.
func (p Piece) Char() byte {
	c := p.Type.Char()
	if p.Color == Black {
		return c + ('a' - 'A')
	}
	return c
}

func (p Piece) String() string {
	return string(p.Char())
}
