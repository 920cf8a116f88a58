/*
Package save
File: sqlite.go
Description:
    SQLite backend for the save manager (pure Go driver, no cgo).
    Each save slot is one row holding the JSON payload and its save time.
*/

package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSlot is the save slot used when none is given.
const DefaultSlot = "main"

// SQLiteStore keeps saves as JSON payloads in a SQLite table, one row per slot.
type SQLiteStore struct {
	db   *sql.DB
	slot string
}

// OpenSQLite opens (and creates if missing) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path, slot string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if slot == "" {
		slot = DefaultSlot
	}
	return &SQLiteStore{db: db, slot: slot}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	var payload string
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, s.slot)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("save get: %w", err)
	}
	return []byte(payload), nil
}

func (s *SQLiteStore) Write(ctx context.Context, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, s.slot, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save upsert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("save delete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var n int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saves WHERE slot = ?`, s.slot)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("save count: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
