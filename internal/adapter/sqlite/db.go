// Package sqlite implements the item and review log repositories on an
// embedded SQLite database (modernc.org/sqlite, no cgo). It backs
// single-user and development deployments; the postgres adapter serves
// the same interfaces for the hosted setup.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// currentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const currentSchemaVersion = 1

// Open opens (and creates, if needed) the SQLite database at path and
// applies pending migrations. Pragmas ride in the connection string so
// every pooled connection gets them.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS items (
		  id               TEXT PRIMARY KEY,
		  learner_id       TEXT NOT NULL,
		  lemma            TEXT NOT NULL,
		  language         TEXT NOT NULL,
		  status           TEXT NOT NULL DEFAULT 'NEW',
		  interval_days    INTEGER NOT NULL DEFAULT 1,
		  ease_factor      REAL NOT NULL DEFAULT 2.5,
		  repetitions      INTEGER NOT NULL DEFAULT 0,
		  lapses           INTEGER NOT NULL DEFAULT 0,
		  correct_uses     INTEGER NOT NULL DEFAULT 0,
		  total_uses       INTEGER NOT NULL DEFAULT 0,
		  last_reviewed_at INTEGER,
		  next_review_at   INTEGER NOT NULL,
		  suspended_from   TEXT,
		  created_at       INTEGER NOT NULL,
		  updated_at       INTEGER NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_items_learner_language_lemma
		ON items(learner_id, language, lemma);

		CREATE INDEX IF NOT EXISTS idx_items_due
		ON items(learner_id, next_review_at)
		WHERE status <> 'SUSPENDED';

		CREATE TABLE IF NOT EXISTS review_logs (
		  id          TEXT PRIMARY KEY,
		  item_id     TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		  learner_id  TEXT NOT NULL,
		  quality     INTEGER NOT NULL,
		  prev_state  TEXT,
		  reviewed_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_review_logs_item
		ON review_logs(item_id, reviewed_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
