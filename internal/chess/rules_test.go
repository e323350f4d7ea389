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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMove(t *testing.T, s string) Move {
	t.Helper()
	m, err := ParseMove(s)
	require.NoError(t, err)
	return m
}

func TestFENRoundTrip(t *testing.T) {
	cases := []string{
		InitialFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"7k/8/5K2/5Q2/8/8/8/8 w - - 0 1",
		"4k3/8/8/8/8/3n4/4K3/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
	}
	for _, fen := range cases {
		p, err := FromFEN(fen)
		require.NoError(t, err, fen)
		assert.Equal(t, fen, p.ToFEN())
	}
}

func TestFromFEN_InvalidEncoding(t *testing.T) {
	bad := []string{
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	}
	for _, fen := range bad {
		_, err := FromFEN(fen)
		assert.ErrorIs(t, err, ErrInvalidEncoding, fen)
	}
}

func TestInitialPositionMoveCount(t *testing.T) {
	p := Initial()
	assert.Len(t, LegalMoves(p), 20)
}

// Scholar's mate.
func TestScholarsMate(t *testing.T) {
	p := Initial()
	for _, mv := range []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"} {
		m := mustMove(t, mv)
		require.True(t, IsMoveLegal(p, m), mv)
		p = p.MovePiece(m)
	}
	assert.True(t, IsCheckmate(p))
}

// Fool's mate.
func TestFoolsMate(t *testing.T) {
	p, err := FromFEN(InitialFEN)
	require.NoError(t, err)
	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m := mustMove(t, mv)
		require.True(t, IsMoveLegal(p, m), mv)
		p = p.MovePiece(m)
	}
	assert.True(t, IsCheckmate(p))
}

// Stalemate from a custom FEN.
func TestStalemateFromCustomFEN(t *testing.T) {
	p, err := FromFEN("7k/8/5K2/5Q2/8/8/8/8 w - - 0 1")
	require.NoError(t, err)
	m := mustMove(t, "f5g6")
	require.True(t, IsMoveLegal(p, m))
	p = p.MovePiece(m)
	assert.True(t, IsStalemate(p))
	assert.False(t, IsInCheck(p, p.SideToMove()))
}

// Insufficient material after capturing the lone knight.
func TestInsufficientMaterialAfterCapture(t *testing.T) {
	p, err := FromFEN("4k3/8/8/8/8/3n4/4K3/8 w - - 0 1")
	require.NoError(t, err)
	m := mustMove(t, "e2d3")
	require.True(t, IsMoveLegal(p, m))
	p = p.MovePiece(m)
	assert.True(t, IsInsufficientMaterial(p))
}

func TestCastlingRequiresClearAndUnattackedPath(t *testing.T) {
	p, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	moves := LegalMoves(p)
	assert.Contains(t, moves, Move{From: mustSquare(t, "e1"), To: mustSquare(t, "g1")})
	assert.Contains(t, moves, Move{From: mustSquare(t, "e1"), To: mustSquare(t, "c1")})
}

func TestCastlingBlockedThroughCheck(t *testing.T) {
	// black rook on f8-file attacks f1, so white cannot castle king-side.
	p, err := FromFEN("4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	require.NoError(t, err)
	p2, err := FromFEN("4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	require.NoError(t, err)
	_ = p
	moves := LegalMoves(p2)
	assert.NotContains(t, moves, Move{From: mustSquare(t, "e1"), To: mustSquare(t, "g1")})
}

func TestEnPassantCapture(t *testing.T) {
	p, err := FromFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	require.NoError(t, err)
	m := mustMove(t, "e5d6")
	require.True(t, IsMoveLegal(p, m))
	next := p.MovePiece(m)
	_, captured := next.PieceAt(mustSquare(t, "d5"))
	assert.False(t, captured)
	piece, ok := next.PieceAt(mustSquare(t, "d6"))
	require.True(t, ok)
	assert.Equal(t, Pawn, piece.Type)
}

func TestPromotion(t *testing.T) {
	p, err := FromFEN("8/P6k/8/8/8/8/7K/8 w - - 0 1")
	require.NoError(t, err)
	moves := LegalMoves(p)
	count := 0
	for _, m := range moves {
		if m.From == mustSquare(t, "a7") && m.To == mustSquare(t, "a8") {
			count++
		}
	}
	assert.Equal(t, 4, count) // Q, R, B, N
}

func TestHalfmoveClockResetsOnCaptureOrPawnMove(t *testing.T) {
	p := Initial()
	p = p.MovePiece(mustMove(t, "e2e4"))
	assert.Equal(t, 0, p.HalfmoveClock())
	p = p.MovePiece(mustMove(t, "b8c6"))
	assert.Equal(t, 1, p.HalfmoveClock())
}

func TestFullmoveNumberAdvancesAfterBlack(t *testing.T) {
	p := Initial()
	p = p.MovePiece(mustMove(t, "e2e4"))
	assert.Equal(t, 1, p.FullmoveNumber())
	p = p.MovePiece(mustMove(t, "e7e5"))
	assert.Equal(t, 2, p.FullmoveNumber())
}

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	require.NoError(t, err)
	return sq
}

func TestLegalMovesNeverLeaveMoverInCheck(t *testing.T) {
	p, err := FromFEN("4k3/8/8/8/4r3/8/4K3/8 w - - 0 1")
	require.NoError(t, err)
	for _, m := range LegalMoves(p) {
		next := p.MovePiece(m)
		assert.False(t, IsInCheck(next, White), m.String())
	}
}
