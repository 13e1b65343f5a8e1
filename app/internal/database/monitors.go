package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// UpsertMonitor creates or updates a monitor definition. The secret is
// encrypted before it reaches disk.
func (s *Store) UpsertMonitor(ctx context.Context, m models.Monitor) error {
	if m.Tag == "" {
		return models.ErrInvalidTag
	}

	encSecret, err := s.cipher.Encrypt(m.Secret)
	if err != nil {
		return fmt.Errorf("encrypt secret for %q: %w", m.Tag, err)
	}

	degraded := 0
	if m.DegradedIsUp {
		degraded = 1
	}
	def := m.DefaultStatus
	if !status.Valid(def) {
		def = status.Up
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO monitors (tag, name, secret, degraded_is_up, default_status, probe_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tag) DO UPDATE SET
			name = excluded.name,
			secret = excluded.secret,
			degraded_is_up = excluded.degraded_is_up,
			default_status = excluded.default_status,
			probe_url = excluded.probe_url,
			updated_at = excluded.updated_at`,
		m.Tag, m.Name, encSecret, degraded, string(def), m.ProbeURL,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert monitor %q: %w", m.Tag, err)
	}
	return nil
}

// FindMonitorByTag returns the monitor for tag, or nil when unknown.
// The stored secret is decrypted before returning.
func (s *Store) FindMonitorByTag(ctx context.Context, tag string) (*models.Monitor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT tag, name, secret, degraded_is_up, default_status, probe_url
		FROM monitors WHERE tag = ?`, tag)

	m, err := s.scanMonitor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMonitors returns all monitor definitions ordered by tag.
func (s *Store) ListMonitors(ctx context.Context) ([]models.Monitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag, name, secret, degraded_is_up, default_status, probe_url
		FROM monitors ORDER BY tag ASC`)
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	defer rows.Close()

	var out []models.Monitor
	for rows.Next() {
		m, err := s.scanMonitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	return out, nil
}

func (s *Store) scanMonitor(r rowScanner) (models.Monitor, error) {
	var (
		m        models.Monitor
		secret   string
		degraded int
		def      string
	)
	if err := r.Scan(&m.Tag, &m.Name, &secret, &degraded, &def, &m.ProbeURL); err != nil {
		if err == sql.ErrNoRows {
			return models.Monitor{}, err
		}
		return models.Monitor{}, fmt.Errorf("scan monitor: %w", err)
	}

	plain, err := s.cipher.Decrypt(secret)
	if err != nil {
		return models.Monitor{}, fmt.Errorf("decrypt secret for %q: %w", m.Tag, err)
	}
	m.Secret = plain
	m.DegradedIsUp = degraded != 0
	m.DefaultStatus = status.Status(def)
	return m, nil
}
