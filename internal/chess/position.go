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

// homeSquares for castling-rights bookkeeping.
const (
	whiteKingHome = Square(4) // e1
	whiteRookAHome = Square(0) // a1
	whiteRookHHome = Square(7) // h1
	blackKingHome = Square(60) // e8
	blackRookAHome = Square(56) // a8
	blackRookHHome = Square(63) // h8
)

// Position is an immutable chess position: piece placement, castling
// rights, en passant target, and the two clocks. It carries no move
// history; that is the Game aggregate's responsibility (internal/game).
type Position struct {
	pieces [NumColors][NumPieceTypes]Bitboard

	// moved records every square from which any piece has departed at
	// least once, so castling eligibility can be cross-checked against the
	// castling-rights bits instead of relying on those bits alone.
	moved Bitboard

	sideToMove Color
	castling CastlingRights
	enPassant Square // NoSquare unless the previous move was a pawn double push

	halfmoveClock int
	fullmoveNumber int
}

// Initial returns the FIDE starting position.
func Initial() Position {
	var p Position
	p.enPassant = NoSquare
	p.castling = CastlingAll
	p.sideToMove = White
	p.fullmoveNumber = 1

	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < 8; f++ {
		p.place(White, back[f], NewSquare(f, 0))
		p.place(White, Pawn, NewSquare(f, 1))
		p.place(Black, Pawn, NewSquare(f, 6))
		p.place(Black, back[f], NewSquare(f, 7))
	}
	return p
}

func (p *Position) place(c Color, pt PieceType, sq Square) {
	p.pieces[c][pt] = p.pieces[c][pt].Set(sq)
}

func (p *Position) remove(c Color, pt PieceType, sq Square) {
	p.pieces[c][pt] = p.pieces[c][pt].Clear(sq)
}

// OccupiedByColor returns the union of all pieces of the given color.
func (p Position) OccupiedByColor(c Color) Bitboard {
	var bb Bitboard
	for pt := Pawn; pt <= King; pt++ {
		bb |= p.pieces[c][pt]
	}
	return bb
}

// Occupied returns the union of all pieces on the board.
func (p Position) Occupied() Bitboard {
	return p.OccupiedByColor(White) | p.OccupiedByColor(Black)
}

// IsOccupied reports whether any piece sits on sq.
func (p Position) IsOccupied(sq Square) bool {
	return p.Occupied().IsSet(sq)
}

// PieceAt returns the piece on sq, if any.
func (p Position) PieceAt(sq Square) (Piece, bool) {
	for c := Color(0); c < NumColors; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if p.pieces[c][pt].IsSet(sq) {
				return Piece{Color: c, Type: pt}, true
			}
		}
	}
	return Piece{}, false
}

// Pieces returns the bitboard for one color+type combination.
func (p Position) Pieces(c Color, pt PieceType) Bitboard {
	return p.pieces[c][pt]
}

func (p Position) SideToMove() Color { return p.sideToMove }
func (p Position) Castling() CastlingRights { return p.castling }
func (p Position) HalfmoveClock() int { return p.halfmoveClock }
func (p Position) FullmoveNumber() int { return p.fullmoveNumber }

// EnPassant returns the en passant target square and whether one is set.
func (p Position) EnPassant() (Square, bool) {
	return p.enPassant, p.enPassant != NoSquare
}

// KingSquare returns the square of c's king.
func (p Position) KingSquare(c Color) Square {
	return p.pieces[c][King].LSB()
}

// MovePiece applies a move assumed already legal. It is the only state
// transition; legality is the caller's responsibility. A move whose origin
// square is empty is a no-op.
func (p Position) MovePiece(m Move) Position {
	piece, ok := p.PieceAt(m.From)
	if !ok {
		return p
	}
	next := p
	mover := p.sideToMove
	isCapture := false

	// (1) en passant capture removal, before the mover lands.
	if piece.Type == Pawn && p.enPassant != NoSquare && m.To == p.enPassant && m.From.File() != m.To.File() {
		capturedSq := NewSquare(m.To.File(), m.From.Rank())
		next.remove(mover.Opponent(), Pawn, capturedSq)
		isCapture = true
	} else if target, occupied := p.PieceAt(m.To); occupied {
		next.remove(target.Color, target.Type, m.To)
		isCapture = true
	}

	// (2) move the piece itself, promoting if requested.
	next.remove(mover, piece.Type, m.From)
	destType := piece.Type
	if m.IsPromotion() {
		destType = m.Promotion
	}
	next.place(mover, destType, m.To)
	next.moved = next.moved.Set(m.From)

	// (3) castling rook relocation: king moved exactly two files.
	if piece.Type == King && abs(m.To.File()-m.From.File()) == 2 {
		rank := m.From.Rank()
		if m.To.File() == 6 { // king side
			rookFrom := NewSquare(7, rank)
			rookTo := NewSquare(5, rank)
			next.remove(mover, Rook, rookFrom)
			next.place(mover, Rook, rookTo)
			next.moved = next.moved.Set(rookFrom)
		} else { // queen side
			rookFrom := NewSquare(0, rank)
			rookTo := NewSquare(3, rank)
			next.remove(mover, Rook, rookFrom)
			next.place(mover, Rook, rookTo)
			next.moved = next.moved.Set(rookFrom)
		}
	}

	// (4) new en passant target: only set on a pawn double push from its home rank.
	next.enPassant = NoSquare
	if piece.Type == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		homeRank := 1
		if mover == Black {
			homeRank = 6
		}
		if m.From.Rank() == homeRank {
			next.enPassant = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
		}
	}

	// (5) castling-rights update.
	next.castling = updateCastlingRights(next.castling, mover, piece.Type, m.From, m.To)

	// (6) halfmove clock / fullmove number.
	if isCapture || piece.Type == Pawn {
		next.halfmoveClock = 0
	} else {
		next.halfmoveClock = p.halfmoveClock + 1
	}
	if mover == Black {
		next.fullmoveNumber = p.fullmoveNumber + 1
	}

	next.sideToMove = mover.Opponent()
	return next
}

// updateCastlingRights clears rights when a king moves, a rook leaves its
// home square, or a rook on its home square is captured.
func updateCastlingRights(c CastlingRights, mover Color, pt PieceType, from, to Square) CastlingRights {
	if pt == King {
		if mover == White {
			c = c.Remove(CastlingWhiteKing | CastlingWhiteQueen)
		} else {
			c = c.Remove(CastlingBlackKing | CastlingBlackQueen)
		}
	}
	clearForSquare := func(sq Square) CastlingRights {
		switch sq {
		case whiteRookAHome:
			return CastlingWhiteQueen
		case whiteRookHHome:
			return CastlingWhiteKing
		case blackRookAHome:
			return CastlingBlackQueen
		case blackRookHHome:
			return CastlingBlackKing
		default:
			return CastlingNone
		}
	}
	c = c.Remove(clearForSquare(from))
	c = c.Remove(clearForSquare(to))
	return c
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

func (p Position) String() string {
	return fmt.Sprintf("Position{%v turn=%v castling=%v ep=%v hm=%d fm=%d}",
		p.StringBoard(), p.sideToMove, p.castling, p.enPassant, p.halfmoveClock, p.fullmoveNumber)
}

// StringBoard renders the board as eight ranks, 8th rank first.
func (p Position) StringBoard() string {
	s := make([]byte, 0, 8*9)
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if piece, ok := p.PieceAt(NewSquare(f, r)); ok {
				s = append(s, piece.Char())
			} else {
				s = append(s, '.')
			}
		}
		if r != 0 {
			s = append(s, '/')
		}
	}
	return string(s)
}
