package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// FileName is the index database inside the base directory.
const FileName = "capture.db"

// Init initializes the SQLite capture index at baseDir/capture.db.
// The baseDir parameter allows tests to use t.TempDir() instead of the config dir.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// Pragmas in the DSN apply to every pooled connection
	dbPath := filepath.Join(baseDir, FileName)
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: captures table and its full-text index
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS captures (
		  id               TEXT PRIMARY KEY,
		  day              TEXT NOT NULL,
		  day_file         TEXT NOT NULL,
		  summary          TEXT NOT NULL,
		  details          TEXT NOT NULL DEFAULT '',
		  screenshots_json TEXT,
		  attachments_json TEXT,
		  tabs_json        TEXT,
		  created_at       INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_captures_created
		ON captures(created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_captures_day_created
		ON captures(day, created_at DESC);

		CREATE VIRTUAL TABLE IF NOT EXISTS captures_fts USING fts5(
		  summary, details,
		  content='captures', content_rowid='rowid'
		);

		CREATE TRIGGER IF NOT EXISTS captures_ai AFTER INSERT ON captures BEGIN
		  INSERT INTO captures_fts(rowid, summary, details)
		  VALUES (new.rowid, new.summary, new.details);
		END;

		CREATE TRIGGER IF NOT EXISTS captures_ad AFTER DELETE ON captures BEGIN
		  INSERT INTO captures_fts(captures_fts, rowid, summary, details)
		  VALUES ('delete', old.rowid, old.summary, old.details);
		END;
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
