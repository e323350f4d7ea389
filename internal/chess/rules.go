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

// rules.go implements pseudo-legal generation, the legality filter, and
// terminal-state detection.
package chess

// IsAttacked reports whether sq is attacked by bySide, given the position's
// actual occupancy.
func IsAttacked(p Position, sq Square, bySide Color) bool {
	return isAttackedOcc(p, sq, bySide, p.Occupied())
}

func isAttackedOcc(p Position, sq Square, bySide Color, occupied Bitboard) bool {
	if KnightAttacks(sq)&p.pieces[bySide][Knight] != 0 {
		return true
	}
	if KingAttacks(sq)&p.pieces[bySide][King] != 0 {
		return true
	}
	if BishopAttacks(sq, occupied)&(p.pieces[bySide][Bishop]|p.pieces[bySide][Queen]) != 0 {
		return true
	}
	if RookAttacks(sq, occupied)&(p.pieces[bySide][Rook]|p.pieces[bySide][Queen]) != 0 {
		return true
	}
	// A bySide pawn attacks sq iff sq lies on one of its forward-diagonal
	// squares, which is the same relation as "sq attacks backwards" under
	// the opposite color's direction.
	return PawnAttacks(bySide.Opponent(), sq)&p.pieces[bySide][Pawn] != 0
}

// ThreatenedSquares returns every square attacked by bySide.
func ThreatenedSquares(p Position, bySide Color) Bitboard {
	var bb Bitboard
	occ := p.Occupied()
	for sq := Square(0); sq < NumSquares; sq++ {
		if isAttackedOcc(p, sq, bySide, occ) {
			bb = bb.Set(sq)
		}
	}
	return bb
}

// IsInCheck reports whether side's king is currently attacked.
func IsInCheck(p Position, side Color) bool {
	return IsAttacked(p, p.KingSquare(side), side.Opponent())
}

// PseudoLegalMoves generates every move the side to move could make
// ignoring whether it leaves its own king in check.
func PseudoLegalMoves(p Position) []Move {
	side := p.sideToMove
	occ := p.Occupied()
	occOwn := p.OccupiedByColor(side)
	occOpp := p.OccupiedByColor(side.Opponent())

	moves := make([]Move, 0, 40)
	moves = genPawnMoves(p, side, occ, occOpp, moves)
	moves = genStepMoves(p.pieces[side][Knight], KnightAttacks, occOwn, moves)
	moves = genSliderMoves(p.pieces[side][Bishop], func(sq Square) Bitboard { return BishopAttacks(sq, occ) }, occOwn, moves)
	moves = genSliderMoves(p.pieces[side][Rook], func(sq Square) Bitboard { return RookAttacks(sq, occ) }, occOwn, moves)
	moves = genSliderMoves(p.pieces[side][Queen], func(sq Square) Bitboard { return QueenAttacks(sq, occ) }, occOwn, moves)
	moves = genStepMoves(p.pieces[side][King], KingAttacks, occOwn, moves)
	moves = genCastlingMoves(p, side, moves)
	return moves
}

func genStepMoves(origins Bitboard, attacksOf func(Square) Bitboard, occOwn Bitboard, moves []Move) []Move {
	for origins != 0 {
		var sq Square
		sq, origins = origins.PopLSB()
		targets := attacksOf(sq) &^ occOwn
		for targets != 0 {
			var to Square
			to, targets = targets.PopLSB()
			moves = append(moves, Move{From: sq, To: to})
		}
	}
	return moves
}

func genSliderMoves(origins Bitboard, attacksOf func(Square) Bitboard, occOwn Bitboard, moves []Move) []Move {
	return genStepMoves(origins, attacksOf, occOwn, moves)
}

var promotionPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

func genPawnMoves(p Position, side Color, occ, occOpp Bitboard, moves []Move) []Move {
	forward := 1
	homeRank, lastRank := 1, 7
	if side == Black {
		forward = -1
		homeRank, lastRank = 6, 0
	}
	ep, hasEP := p.EnPassant()

	pawns := p.pieces[side][Pawn]
	for pawns != 0 {
		var sq Square
		sq, pawns = pawns.PopLSB()
		f, r := sq.File(), sq.Rank()
		oneR := r + forward

		if oneR >= 0 && oneR < 8 {
			oneSq := NewSquare(f, oneR)
			if !occ.IsSet(oneSq) {
				moves = addPawnMove(moves, sq, oneSq, lastRank)
				if r == homeRank {
					twoSq := NewSquare(f, r+2*forward)
					if !occ.IsSet(twoSq) {
						moves = append(moves, Move{From: sq, To: twoSq})
					}
				}
			}
			for _, df := range [2]int{-1, 1} {
				nf := f + df
				if nf < 0 || nf > 7 {
					continue
				}
				capSq := NewSquare(nf, oneR)
				if occOpp.IsSet(capSq) {
					moves = addPawnMove(moves, sq, capSq, lastRank)
				} else if hasEP && capSq == ep {
					moves = append(moves, Move{From: sq, To: capSq})
				}
			}
		}
	}
	return moves
}

func addPawnMove(moves []Move, from, to Square, lastRank int) []Move {
	if to.Rank() == lastRank {
		for _, promo := range promotionPieces {
			moves = append(moves, Move{From: from, To: to, Promotion: promo})
		}
		return moves
	}
	return append(moves, Move{From: from, To: to})
}

// genCastlingMoves emits castling moves: the side retains
// the right, neither the king nor the rook has left its home square (per
// the position's moved bits), the path is empty, the king is not in check,
// and neither the transit nor destination square is attacked. Attack checks on the transit
// squares use the occupancy with the king removed so discovered attacks
// along its vacated square are not hidden.
func genCastlingMoves(p Position, side Color, moves []Move) []Move {
	rank := 0
	kingRight, queenRight := CastlingWhiteKing, CastlingWhiteQueen
	if side == Black {
		rank = 7
		kingRight, queenRight = CastlingBlackKing, CastlingBlackQueen
	}
	kingSq := NewSquare(4, rank)
	if p.KingSquare(side) != kingSq || p.moved.IsSet(kingSq) {
		return moves
	}
	opp := side.Opponent()
	if IsAttacked(p, kingSq, opp) {
		return moves
	}
	occ := p.Occupied()
	occWithoutKing := occ.Clear(kingSq)

	if p.castling.Has(kingRight) && !p.moved.IsSet(NewSquare(7, rank)) {
		f1, g1 := NewSquare(5, rank), NewSquare(6, rank)
		if !occ.IsSet(f1) && !occ.IsSet(g1) &&
			!isAttackedOcc(p, f1, opp, occWithoutKing) && !isAttackedOcc(p, g1, opp, occWithoutKing) {
			moves = append(moves, Move{From: kingSq, To: g1})
		}
	}
	if p.castling.Has(queenRight) && !p.moved.IsSet(NewSquare(0, rank)) {
		d1, c1, b1 := NewSquare(3, rank), NewSquare(2, rank), NewSquare(1, rank)
		if !occ.IsSet(d1) && !occ.IsSet(c1) && !occ.IsSet(b1) &&
			!isAttackedOcc(p, d1, opp, occWithoutKing) && !isAttackedOcc(p, c1, opp, occWithoutKing) {
			moves = append(moves, Move{From: kingSq, To: c1})
		}
	}
	return moves
}

// LegalMoves filters PseudoLegalMoves to those that do not leave the
// mover's king in check after the move is applied.
func LegalMoves(p Position) []Move {
	pseudo := PseudoLegalMoves(p)
	mover := p.sideToMove
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		next := p.MovePiece(m)
		if !IsInCheck(next, mover) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsMoveLegal reports whether m is a member of LegalMoves(p).
func IsMoveLegal(p Position, m Move) bool {
	for _, lm := range LegalMoves(p) {
		if lm == m {
			return true
		}
	}
	return false
}

// IsCheckmate reports check with no legal replies.
func IsCheckmate(p Position) bool {
	return IsInCheck(p, p.sideToMove) && len(LegalMoves(p)) == 0
}

// IsStalemate reports no check and no legal replies.
func IsStalemate(p Position) bool {
	return !IsInCheck(p, p.sideToMove) && len(LegalMoves(p)) == 0
}

// IsFiftyMoveRule reports the fifty-move (100-ply) no-progress draw rule.
func IsFiftyMoveRule(p Position) bool {
	return p.halfmoveClock >= 100
}

// IsInsufficientMaterial reports K-K, K+minor-K, or K+B-K+B with
// same-coloured bishops
func IsInsufficientMaterial(p Position) bool {
	var nonKing [NumColors]struct {
		knights, bishopsLight, bishopsDark, pawns, rooks, queens int
	}
	for c := Color(0); c < NumColors; c++ {
		nonKing[c].knights = p.pieces[c][Knight].PopCount()
		nonKing[c].pawns = p.pieces[c][Pawn].PopCount()
		nonKing[c].rooks = p.pieces[c][Rook].PopCount()
		nonKing[c].queens = p.pieces[c][Queen].PopCount()
		bishops := p.pieces[c][Bishop]
		for bishops != 0 {
			var sq Square
			sq, bishops = bishops.PopLSB()
			if isLightSquare(sq) {
				nonKing[c].bishopsLight++
			} else {
				nonKing[c].bishopsDark++
			}
		}
	}

	totalMinor := func(c Color) int {
		return nonKing[c].knights + nonKing[c].bishopsLight + nonKing[c].bishopsDark
	}
	heavy := func(c Color) bool {
		return nonKing[c].pawns > 0 || nonKing[c].rooks > 0 || nonKing[c].queens > 0
	}

	if heavy(White) || heavy(Black) {
		return false
	}

	wMinor, bMinor := totalMinor(White), totalMinor(Black)
	switch {
	case wMinor == 0 && bMinor == 0:
		return true // K-K
	case wMinor == 1 && bMinor == 0 && nonKing[White].knights+nonKing[White].bishopsLight+nonKing[White].bishopsDark == 1:
		return true // K+minor-K
	case bMinor == 1 && wMinor == 0:
		return true // K-K+minor
	case wMinor == 1 && bMinor == 1 &&
		((nonKing[White].bishopsLight == 1 && nonKing[Black].bishopsLight == 1) ||
			(nonKing[White].bishopsDark == 1 && nonKing[Black].bishopsDark == 1)):
		return true // K+B-K+B, same coloured bishops
	default:
		return false
	}
}

func isLightSquare(sq Square) bool {
	return (sq.File()+sq.Rank())%2 == 1
}
