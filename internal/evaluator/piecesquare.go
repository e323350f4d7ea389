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

package evaluator

import "github.com/frankkopp/chessd/internal/chess"

// Piece-square tables, indexed a1..h8 (rank 1 first), mid game and end game.
// Black reads a table mirrored by rank (square XOR 56); White reads it
// directly.
// @formatter:off
var (
	pawnMidGame = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -30, -30, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 30, 30, 0, 0, 0,
		5, 5, 10, 30, 30, 10, 5, 5,
		0, 5, 5, 5, 5, 5, 5, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	pawnEndGame = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		5, 10, 10, 10, 10, 10, 10, 5,
		10, 10, 20, 20, 20, 10, 10, 10,
		20, 30, 30, 40, 40, 30, 30, 20,
		40, 50, 50, 60, 60, 50, 50, 40,
		90, 90, 90, 90, 90, 90, 90, 90,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	knightMidGame = [64]int{
		-50, -25, -20, -30, -30, -20, -25, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}
	knightEndGame = [64]int{
		-50, -40, -20, -30, -30, -20, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}
	bishopMidGame = [64]int{
		-20, -10, -40, -10, -10, -40, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
	bishopEndGame = [64]int{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
	rookMidGame = [64]int{
		-15, -10, 15, 15, 15, 15, -10, -15,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		10, 10, 10, 10, 10, 10, 10, 10,
		5, 5, 5, 5, 5, 5, 5, 5,
	}
	rookEndGame = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 5, 5, 5, 5, 5, 5, 5,
	}
	queenMidGame = [64]int{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 2, 2, 2, 2, 0, -5,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	queenEndGame = [64]int{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	kingMidGame = [64]int{
		20, 50, 0, -20, -20, 0, 50, 20,
		0, 0, -20, -20, -20, -20, 0, 0,
		-10, -20, -20, -30, -30, -30, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	}
	kingEndGame = [64]int{
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-50, -30, -30, -20, -20, -30, -30, -50,
	}
)

// @formatter:on

var midTables = map[chess.PieceType]*[64]int{
	chess.Pawn: &pawnMidGame,
	chess.Knight: &knightMidGame,
	chess.Bishop: &bishopMidGame,
	chess.Rook: &rookMidGame,
	chess.Queen: &queenMidGame,
	chess.King: &kingMidGame,
}

var endTables = map[chess.PieceType]*[64]int{
	chess.Pawn: &pawnEndGame,
	chess.Knight: &knightEndGame,
	chess.Bishop: &bishopEndGame,
	chess.Rook: &rookEndGame,
	chess.Queen: &queenEndGame,
	chess.King: &kingEndGame,
}

// pstIndex mirrors sq for Black so both colors read the tables as if
// playing up the board from rank 1.
func pstIndex(c chess.Color, sq chess.Square) int {
	if c == chess.Black {
		return int(sq) ^ 56
	}
	return int(sq)
}

func pstMid(pc chess.Piece, sq chess.Square) int {
	return midTables[pc.Type][pstIndex(pc.Color, sq)]
}

func pstEnd(pc chess.Piece, sq chess.Square) int {
	return endTables[pc.Type][pstIndex(pc.Color, sq)]
}

// PSTMidValue exposes the mid-game piece-square value, for use by move
// ordering heuristics outside this package (quiet moves are ranked by their
// piece-square delta).
func PSTMidValue(pc chess.Piece, sq chess.Square) int {
	return pstMid(pc, sq)
}
