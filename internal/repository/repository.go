//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package repository durably persists Games: one row per game, one row per
// played move, written through github.com/jmoiron/sqlx against a
// github.com/mattn/go-sqlite3 database.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/frankkopp/chessd/internal/game"
)

// ErrGameNotFound is returned by FindByID when no row matches the id.
var ErrGameNotFound = errors.New("game not found")

// Repository is the durable store for Games. All operations are safe to
// call from multiple goroutines; save is a single atomic unit, rolled back
// wholesale on any sub-step failure.
type Repository interface {
	Save(ctx context.Context, g *game.Game) error
	FindByID(ctx context.Context, id uuid.UUID) (*game.Game, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]*game.Game, error)
	Close() error
}
