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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/op/go-logging"

	// registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/game"
	myLogging "github.com/frankkopp/chessd/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id              TEXT PRIMARY KEY,
	white_player_id TEXT NOT NULL,
	white_user_id   TEXT NOT NULL,
	black_player_id TEXT NOT NULL,
	black_user_id   TEXT NOT NULL,
	fen             TEXT NOT NULL,
	status          INTEGER NOT NULL,
	draw_offered_by INTEGER NOT NULL,
	has_draw_offer  INTEGER NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS moves (
	game_id     TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	move_number INTEGER NOT NULL,
	from_square TEXT NOT NULL,
	to_square   TEXT NOT NULL,
	promotion   TEXT,
	played_at   TIMESTAMP NOT NULL,
	PRIMARY KEY (game_id, move_number)
);
`

// SQLiteRepository is the sqlx/sqlite3-backed Repository implementation.
type SQLiteRepository struct {
	db  *sqlx.DB
	log *logging.Logger
}

// NewSQLiteRepository opens dataSourceName with driverName (normally
// "sqlite3"), enables foreign keys so move rows cascade-delete with their
// game, and applies the schema.
func NewSQLiteRepository(driverName, dataSourceName string) (*SQLiteRepository, error) {
	db, err := sqlx.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dataSourceName, err)
	}
	// sqlite3 has one writer at a time; a single pooled connection avoids
	// "database is locked" errors and, for ":memory:" sources, keeps every
	// caller on the same in-memory database instead of each getting its own.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", dataSourceName, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteRepository{db: db, log: myLogging.GetLog()}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type gameRow struct {
	ID            string    `db:"id"`
	WhitePlayerID string    `db:"white_player_id"`
	WhiteUserID   string    `db:"white_user_id"`
	BlackPlayerID string    `db:"black_player_id"`
	BlackUserID   string    `db:"black_user_id"`
	FEN           string    `db:"fen"`
	Status        int       `db:"status"`
	DrawOfferedBy int       `db:"draw_offered_by"`
	HasDrawOffer  bool      `db:"has_draw_offer"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type moveRow struct {
	GameID     string         `db:"game_id"`
	MoveNumber int            `db:"move_number"`
	FromSquare string         `db:"from_square"`
	ToSquare   string         `db:"to_square"`
	Promotion  sql.NullString `db:"promotion"`
	PlayedAt   time.Time      `db:"played_at"`
}

func toGameRow(g *game.Game) gameRow {
	drawOfferedBy, hasDrawOffer := g.DrawOfferedBy()
	return gameRow{
		ID:            g.ID.String(),
		WhitePlayerID: uuid.UUID(g.White.ID).String(),
		WhiteUserID:   uuid.UUID(g.White.UserID).String(),
		BlackPlayerID: uuid.UUID(g.Black.ID).String(),
		BlackUserID:   uuid.UUID(g.Black.UserID).String(),
		FEN:           g.Position().ToFEN(),
		Status:        int(g.Status()),
		DrawOfferedBy: int(drawOfferedBy),
		HasDrawOffer:  hasDrawOffer,
		CreatedAt:     g.CreatedAt(),
		UpdatedAt:     g.UpdatedAt(),
	}
}

func toMoveRows(gameID string, history []game.HistoryEntry) []moveRow {
	rows := make([]moveRow, len(history))
	for i, h := range history {
		promo := sql.NullString{}
		if h.Move.IsPromotion() {
			promo = sql.NullString{String: string(h.Move.Promotion.Char()), Valid: true}
		}
		rows[i] = moveRow{
			GameID:     gameID,
			MoveNumber: h.MoveNumber,
			FromSquare: h.Move.From.String(),
			ToSquare:   h.Move.To.String(),
			Promotion:  promo,
			PlayedAt:   h.PlayedAt,
		}
	}
	return rows
}

// Save upserts the game row and replaces the move history wholesale, inside
// a single transaction. Any sub-step failure rolls back the whole save.
func (r *SQLiteRepository) Save(ctx context.Context, g *game.Game) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer tx.Rollback()

	row := toGameRow(g)
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO games (id, white_player_id, white_user_id, black_player_id, black_user_id, fen, status, draw_offered_by, has_draw_offer, created_at, updated_at)
		VALUES (:id, :white_player_id, :white_user_id, :black_player_id, :black_user_id, :fen, :status, :draw_offered_by, :has_draw_offer, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			fen = excluded.fen,
			status = excluded.status,
			draw_offered_by = excluded.draw_offered_by,
			has_draw_offer = excluded.has_draw_offer,
			updated_at = excluded.updated_at
	`, row)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", row.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM moves WHERE game_id = ?", row.ID); err != nil {
		return fmt.Errorf("clear moves for game %s: %w", row.ID, err)
	}

	for _, mv := range toMoveRows(row.ID, g.History()) {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO moves (game_id, move_number, from_square, to_square, promotion, played_at)
			VALUES (:game_id, :move_number, :from_square, :to_square, :promotion, :played_at)
		`, mv)
		if err != nil {
			return fmt.Errorf("insert move %d for game %s: %w", mv.MoveNumber, row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save for game %s: %w", row.ID, err)
	}
	r.log.Debugf("saved game %s with %d moves", row.ID, len(g.History()))
	return nil
}

// FindByID reconstructs a Game: players from the persisted id pair, the
// position by parsing the stored FEN, and history ordered by move_number.
func (r *SQLiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*game.Game, error) {
	var row gameRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM games WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find game %s: %w", id, err)
	}
	return r.reconstruct(ctx, row)
}

// FindAll returns every persisted game.
func (r *SQLiteRepository) FindAll(ctx context.Context) ([]*game.Game, error) {
	var rows []gameRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM games"); err != nil {
		return nil, fmt.Errorf("find all games: %w", err)
	}
	games := make([]*game.Game, 0, len(rows))
	for _, row := range rows {
		g, err := r.reconstruct(ctx, row)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

// Delete removes a game row; moves cascade-delete by foreign key.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) reconstruct(ctx context.Context, row gameRow) (*game.Game, error) {
	pos, err := chess.FromFEN(row.FEN)
	if err != nil {
		return nil, fmt.Errorf("parse fen for game %s: %w", row.ID, err)
	}

	var moveRows []moveRow
	err = r.db.SelectContext(ctx, &moveRows, "SELECT * FROM moves WHERE game_id = ? ORDER BY move_number", row.ID)
	if err != nil {
		return nil, fmt.Errorf("find moves for game %s: %w", row.ID, err)
	}
	history := make([]game.HistoryEntry, len(moveRows))
	for i, mr := range moveRows {
		from, err := chess.ParseSquare(mr.FromSquare)
		if err != nil {
			return nil, fmt.Errorf("parse move %d from-square for game %s: %w", mr.MoveNumber, row.ID, err)
		}
		to, err := chess.ParseSquare(mr.ToSquare)
		if err != nil {
			return nil, fmt.Errorf("parse move %d to-square for game %s: %w", mr.MoveNumber, row.ID, err)
		}
		promotion := chess.NoPieceType
		if mr.Promotion.Valid && mr.Promotion.String != "" {
			promotion, _ = chess.ParsePieceType(mr.Promotion.String[0])
		}
		history[i] = game.HistoryEntry{
			MoveNumber: mr.MoveNumber,
			Move:       chess.Move{From: from, To: to, Promotion: promotion},
			PlayedAt:   mr.PlayedAt,
		}
	}

	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse game id %s: %w", row.ID, err)
	}
	whitePlayerID, err := uuid.Parse(row.WhitePlayerID)
	if err != nil {
		return nil, fmt.Errorf("parse white player id for game %s: %w", row.ID, err)
	}
	whiteUserID, err := uuid.Parse(row.WhiteUserID)
	if err != nil {
		return nil, fmt.Errorf("parse white user id for game %s: %w", row.ID, err)
	}
	blackPlayerID, err := uuid.Parse(row.BlackPlayerID)
	if err != nil {
		return nil, fmt.Errorf("parse black player id for game %s: %w", row.ID, err)
	}
	blackUserID, err := uuid.Parse(row.BlackUserID)
	if err != nil {
		return nil, fmt.Errorf("parse black user id for game %s: %w", row.ID, err)
	}

	white := game.Player{ID: game.PlayerId(whitePlayerID), UserID: game.UserId(whiteUserID), Side: chess.White}
	black := game.Player{ID: game.PlayerId(blackPlayerID), UserID: game.UserId(blackUserID), Side: chess.Black}

	return game.Restore(id, white, black, pos, game.Status(row.Status), history, chess.Color(row.DrawOfferedBy), row.HasDrawOffer, row.CreatedAt, row.UpdatedAt), nil
}
