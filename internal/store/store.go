// Package store provides SQLite-backed persistence for application
// configuration, provider API keys, and task records. It is the only
// durable state in the system; license and quota fields live in the
// app_config table and commit on every mutation.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for application records.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if necessary) a SQLite store at the provided path
// and ensures the schema exists with its seed rows.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.initSchema(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// initSchema creates tables if absent and seeds the config defaults the
// rest of the system assumes are present. Seeding uses INSERT OR IGNORE so
// restarts never clobber live values.
func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			due_date TEXT,
			status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			service TEXT PRIMARY KEY,
			api_key TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS app_config (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`INSERT OR IGNORE INTO app_config (key, value) VALUES ('license_status', 'UNLICENSED')`,
		`INSERT OR IGNORE INTO app_config (key, value) VALUES ('query_count', '0')`,
	}
	for _, stmt := range statements {
		if _, err := s.sqlDB.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}

	seedMonth := time.Now().Format("2006-01")
	if _, err := s.sqlDB.Exec(
		`INSERT OR IGNORE INTO app_config (key, value) VALUES ('last_query_reset', ?)`, seedMonth,
	); err != nil {
		return fmt.Errorf("seed reset period: %w", err)
	}
	return nil
}
