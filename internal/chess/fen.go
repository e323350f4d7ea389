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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidEncoding is returned by FromFEN for any malformed FEN string.
var ErrInvalidEncoding = errors.New("invalid encoding")

// InitialFEN is the starting position in FEN, kept for convenience constants
// used by callers such as the Game Repository and HTTP DTOs.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FromFEN parses a six-field FEN string.
func FromFEN(s string) (Position, error) {
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return Position{}, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidEncoding, len(fields))
	}

	var p Position
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidEncoding, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, r := range rankStr {
			if r >= '1' && r <= '8' {
				file += int(r - '0')
				continue
			}
			pt, ok := ParsePieceType(byte(r))
			if !ok {
				return Position{}, fmt.Errorf("%w: bad piece letter %q", ErrInvalidEncoding, r)
			}
			if file > 7 {
				return Position{}, fmt.Errorf("%w: rank %d overflows", ErrInvalidEncoding, i)
			}
			color := White
			if r >= 'a' && r <= 'z' {
				color = Black
			}
			p.place(color, pt, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return Position{}, fmt.Errorf("%w: rank %d has %d files, want 8", ErrInvalidEncoding, i, file)
		}
	}

	side, ok := ParseColor(fields[1])
	if !ok {
		return Position{}, fmt.Errorf("%w: bad active colour %q", ErrInvalidEncoding, fields[1])
	}
	p.sideToMove = side

	castling, ok := ParseCastlingRights(fields[2])
	if !ok {
		return Position{}, fmt.Errorf("%w: bad castling field %q", ErrInvalidEncoding, fields[2])
	}
	p.castling = castling

	if fields[3] == "-" {
		p.enPassant = NoSquare
	} else {
		ep, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("%w: bad en passant square %q", ErrInvalidEncoding, fields[3])
		}
		p.enPassant = ep
	}

	hm, err := strconv.Atoi(fields[4])
	if err != nil {
		return Position{}, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidEncoding, fields[4])
	}
	p.halfmoveClock = hm

	fm, err := strconv.Atoi(fields[5])
	if err != nil {
		return Position{}, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidEncoding, fields[5])
	}
	p.fullmoveNumber = fm

	if p.pieces[White][King].PopCount() != 1 || p.pieces[Black][King].PopCount() != 1 {
		return Position{}, fmt.Errorf("%w: must have exactly one king per side", ErrInvalidEncoding)
	}

	return p, nil
}

// ToFEN renders the position as a six-field FEN string. It is the exact
// inverse of FromFEN on well-formed positions.
func (p Position) ToFEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			piece, ok := p.PieceAt(NewSquare(f, r))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r != 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.sideToMove.String())
	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	if p.enPassant == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(p.enPassant.String())
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmoveNumber))
	return sb.String()
}
