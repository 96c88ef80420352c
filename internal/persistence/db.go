// Package persistence keeps a SQLite chronicle of played turns and an index
// of the save slots, so adapters can browse a game's past without decoding
// save files.
package persistence

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/save"
)

// DB wraps a SQLite connection for the chronicle.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		date TEXT NOT NULL,
		season TEXT NOT NULL,
		net_income INTEGER NOT NULL,
		population_change INTEGER NOT NULL,
		loan INTEGER NOT NULL,
		game_over INTEGER NOT NULL,
		PRIMARY KEY (game_id, turn)
	);

	CREATE TABLE IF NOT EXISTS announcements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		year INTEGER NOT NULL,
		message TEXT NOT NULL,
		category TEXT NOT NULL,
		real_time REAL NOT NULL,
		UNIQUE (game_id, turn, real_time, message)
	);

	CREATE TABLE IF NOT EXISTS slots (
		slot INTEGER PRIMARY KEY,
		game_id TEXT NOT NULL,
		province TEXT NOT NULL,
		year INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		version TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_announcements_game ON announcements(game_id, turn);
	CREATE INDEX IF NOT EXISTS idx_history_game ON history(game_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// TurnRow is one chronicled turn.
type TurnRow struct {
	GameID           string `db:"game_id" json:"game_id"`
	Turn             int    `db:"turn" json:"turn"`
	Date             string `db:"date" json:"date"`
	Season           string `db:"season" json:"season"`
	NetIncome        int    `db:"net_income" json:"net_income"`
	PopulationChange int    `db:"population_change" json:"population_change"`
	Loan             int    `db:"loan" json:"loan"`
	GameOver         bool   `db:"game_over" json:"game_over"`
}

// AnnouncementRow is one stored announcement.
type AnnouncementRow struct {
	Turn     int    `db:"turn" json:"turn"`
	Severity string `db:"severity" json:"severity"`
	Message  string `db:"message" json:"message"`
}

// RecordTurn appends a turn, its announcements and any history entries not
// yet stored. Replaying a turn after a reload overwrites its summary row.
func (db *DB) RecordTurn(gameID string, r engine.TurnReport, entries []history.Entry) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO turns
		(game_id, turn, date, season, net_income, population_change, loan, game_over)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		gameID, r.Turn, r.Date.String(), r.Season, r.NetIncome, r.PopulationChange, r.Loan, r.GameOver,
	); err != nil {
		return fmt.Errorf("insert turn %d: %w", r.Turn, err)
	}
	if _, err := tx.Exec("DELETE FROM announcements WHERE game_id = ? AND turn = ?", gameID, r.Turn); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO announcements (game_id, turn, severity, message) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, a := range r.Announcements {
		if _, err := stmt.Exec(gameID, r.Turn, string(a.Severity), a.Message); err != nil {
			return fmt.Errorf("insert announcement: %w", err)
		}
	}

	for _, e := range entries {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO history
			(game_id, turn, year, message, category, real_time) VALUES (?, ?, ?, ?, ?, ?)`,
			gameID, e.Turn, e.Year, e.Message, e.Category, e.RealTime,
		); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}

	return tx.Commit()
}

// Observe records the turn g just played. It is the hook adapters call after
// AdvanceTurn.
func (db *DB) Observe(g *engine.Game, r engine.TurnReport) {
	if err := db.RecordTurn(g.ID, r, g.History.Since(r.Turn-1)); err != nil {
		slog.Error("chronicle write failed", "game_id", g.ID, "turn", r.Turn, "error", err)
	}
}

// Turns returns the most recent turns of a game, newest first.
func (db *DB) Turns(gameID string, limit int) ([]TurnRow, error) {
	var rows []TurnRow
	err := db.conn.Select(&rows,
		"SELECT * FROM turns WHERE game_id = ? ORDER BY turn DESC LIMIT ?",
		gameID, limit,
	)
	return rows, err
}

// Announcements returns what was announced on a turn in order.
func (db *DB) Announcements(gameID string, turn int) ([]AnnouncementRow, error) {
	var rows []AnnouncementRow
	err := db.conn.Select(&rows,
		"SELECT turn, severity, message FROM announcements WHERE game_id = ? AND turn = ? ORDER BY id",
		gameID, turn,
	)
	return rows, err
}

// History returns every stored history entry of a game at or after turn.
// Unlike the in-game log it is not trimmed.
func (db *DB) History(gameID string, since int) ([]history.Entry, error) {
	var rows []struct {
		Turn     int     `db:"turn"`
		Year     int     `db:"year"`
		Message  string  `db:"message"`
		Category string  `db:"category"`
		RealTime float64 `db:"real_time"`
	}
	err := db.conn.Select(&rows,
		"SELECT turn, year, message, category, real_time FROM history WHERE game_id = ? AND turn >= ? ORDER BY id",
		gameID, since,
	)
	if err != nil {
		return nil, err
	}
	out := make([]history.Entry, len(rows))
	for i, r := range rows {
		out[i] = history.Entry{Turn: r.Turn, Year: r.Year, Message: r.Message, Category: r.Category, RealTime: r.RealTime}
	}
	return out, nil
}

// IndexSlot stores the header of a written slot.
func (db *DB) IndexSlot(info save.Info) error {
	if !info.Exists {
		_, err := db.conn.Exec("DELETE FROM slots WHERE slot = ?", info.Slot)
		return err
	}
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO slots
		(slot, game_id, province, year, turn, version, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.Slot, info.GameID, info.Province, info.Year, info.Turn, info.Version,
		info.Modified.UTC().Format(time.RFC3339),
	)
	return err
}

// SlotRow is one indexed slot.
type SlotRow struct {
	Slot     int    `db:"slot" json:"slot"`
	GameID   string `db:"game_id" json:"game_id"`
	Province string `db:"province" json:"province"`
	Year     int    `db:"year" json:"year"`
	Turn     int    `db:"turn" json:"turn"`
	Version  string `db:"version" json:"version"`
	SavedAt  string `db:"saved_at" json:"saved_at"`
}

// Slots returns the indexed slots in order.
func (db *DB) Slots() ([]SlotRow, error) {
	var rows []SlotRow
	err := db.conn.Select(&rows, "SELECT * FROM slots ORDER BY slot")
	return rows, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
