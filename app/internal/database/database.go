package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"statuspage/app/internal/crypto"
)

// Store is the sqlite-backed persistence layer. It implements the
// status sample adapter, the monitor registry and the incident
// repository consumed by the engines.
type Store struct {
	db     *sql.DB
	cipher *crypto.Cipher
}

// Open opens (or creates) the database at dbPath and ensures the schema.
// The cipher protects monitor secrets at rest and may not be nil.
func Open(dbPath string, cipher *crypto.Cipher) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// sqlite allows a single writer; serialize access to avoid
	// SQLITE_BUSY under concurrent heartbeats.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, cipher: cipher}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates all necessary database tables
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS monitors (
  tag TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  secret TEXT NOT NULL DEFAULT '',
  degraded_is_up INTEGER NOT NULL DEFAULT 1,
  default_status TEXT NOT NULL DEFAULT 'UP',
  probe_url TEXT NOT NULL DEFAULT '',
  updated_at TEXT
);

-- One authoritative sample per (monitor_tag, timestamp); a later write
-- for the same minute supersedes the earlier one.
CREATE TABLE IF NOT EXISTS samples (
  monitor_tag TEXT NOT NULL,
  timestamp INTEGER NOT NULL,
  status TEXT NOT NULL,
  latency_ms INTEGER,
  PRIMARY KEY (monitor_tag, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_samples_ts ON samples(timestamp);

CREATE TABLE IF NOT EXISTS incidents (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  impact TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT '',
  started_at INTEGER NOT NULL,
  resolved_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_incidents_started ON incidents(started_at);

CREATE TABLE IF NOT EXISTS incident_monitors (
  incident_id TEXT NOT NULL,
  monitor_tag TEXT NOT NULL,
  impact TEXT NOT NULL,
  PRIMARY KEY (incident_id, monitor_tag)
);
CREATE INDEX IF NOT EXISTS idx_incident_monitors_tag ON incident_monitors(monitor_tag);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
