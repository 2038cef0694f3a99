// Package indexdb keeps a small sqlite catalog of save slots and notable
// events next to the save files. The save files themselves stay the source
// of truth; the index only makes listing and lookup cheap.
package indexdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	db *sqlx.DB
}

// SlotRow describes one save slot.
type SlotRow struct {
	Slot       string  `db:"slot"`
	Path       string  `db:"path"`
	Tick       int64   `db:"tick"`
	Day        int     `db:"day"`
	Population int     `db:"population"`
	Treasury   float64 `db:"treasury"`
	Digest     string  `db:"digest"`
	Catalogs   string  `db:"catalogs_digest"`
	SavedAt    string  `db:"saved_at"`
}

// EventRow is one archived simulation event.
type EventRow struct {
	Tick     int64  `db:"tick"`
	Type     string `db:"type"`
	Severity string `db:"severity"`
	X        int    `db:"x"`
	Y        int    `db:"y"`
	Message  string `db:"message"`
}

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS save_slots (
	slot TEXT PRIMARY KEY,
	path TEXT NOT NULL,
	tick INTEGER NOT NULL,
	day INTEGER NOT NULL,
	population INTEGER NOT NULL,
	treasury REAL NOT NULL,
	digest TEXT NOT NULL,
	catalogs_digest TEXT NOT NULL,
	saved_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tick INTEGER NOT NULL,
	type TEXT NOT NULL,
	severity TEXT NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	message TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(type, tick);
`

func Open(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("indexdb: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func (s *SQLiteIndex) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// RecordSlot upserts a save slot row after a successful save.
func (s *SQLiteIndex) RecordSlot(row SlotRow) error {
	if s == nil {
		return nil
	}
	if row.SavedAt == "" {
		row.SavedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.NamedExec(`
		INSERT OR REPLACE INTO save_slots
			(slot, path, tick, day, population, treasury, digest, catalogs_digest, saved_at)
		VALUES
			(:slot, :path, :tick, :day, :population, :treasury, :digest, :catalogs_digest, :saved_at)`,
		row)
	return err
}

// Slot returns a single slot row.
func (s *SQLiteIndex) Slot(name string) (SlotRow, error) {
	var row SlotRow
	err := s.db.Get(&row, `SELECT * FROM save_slots WHERE slot = ?`, name)
	return row, err
}

// Slots lists all slots, most recent first.
func (s *SQLiteIndex) Slots() ([]SlotRow, error) {
	var rows []SlotRow
	err := s.db.Select(&rows, `SELECT * FROM save_slots ORDER BY saved_at DESC`)
	return rows, err
}

// DeleteSlot drops a slot row (the save file is the caller's problem).
func (s *SQLiteIndex) DeleteSlot(name string) error {
	_, err := s.db.Exec(`DELETE FROM save_slots WHERE slot = ?`, name)
	return err
}

// RecordEvent archives one simulation event.
func (s *SQLiteIndex) RecordEvent(row EventRow) error {
	if s == nil {
		return nil
	}
	_, err := s.db.NamedExec(`
		INSERT INTO events (tick, type, severity, x, y, message)
		VALUES (:tick, :type, :severity, :x, :y, :message)`, row)
	return err
}

// EventsSince returns archived events at or after a tick, oldest first.
func (s *SQLiteIndex) EventsSince(tick int64, limit int) ([]EventRow, error) {
	if limit <= 0 {
		limit = 500
	}
	var rows []EventRow
	err := s.db.Select(&rows,
		`SELECT tick, type, severity, x, y, message FROM events
		 WHERE tick >= ? ORDER BY tick ASC, id ASC LIMIT ?`, tick, limit)
	return rows, err
}
