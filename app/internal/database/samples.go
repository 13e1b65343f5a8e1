package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// UpsertSample writes the authoritative sample for (tag, minute).
// The write is atomic: concurrent heartbeats landing on the same minute
// resolve to last-write-wins at the storage layer.
func (s *Store) UpsertSample(ctx context.Context, tag string, minuteTS int64, st status.Status, latencyMS *int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO samples (monitor_tag, timestamp, status, latency_ms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(monitor_tag, timestamp) DO UPDATE SET
			status = excluded.status,
			latency_ms = excluded.latency_ms`,
		tag, minuteTS/60*60, string(st), latencyMS)
	if err != nil {
		return fmt.Errorf("upsert sample: %w", err)
	}
	return nil
}

// ReadRange returns the samples for tag within [start, end], time-ordered.
func (s *Store) ReadRange(ctx context.Context, tag string, start, end int64) ([]models.StatusSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, status, latency_ms
		FROM samples
		WHERE monitor_tag = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`,
		tag, start, end)
	if err != nil {
		return nil, fmt.Errorf("read range: %w", err)
	}
	defer rows.Close()

	var out []models.StatusSample
	for rows.Next() {
		sample, err := scanSample(rows, tag)
		if err != nil {
			return nil, err
		}
		out = append(out, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read range: %w", err)
	}
	return out, nil
}

// ReadLastBefore returns the most recent sample strictly before ts,
// or nil when no earlier sample exists.
func (s *Store) ReadLastBefore(ctx context.Context, tag string, ts int64) (*models.StatusSample, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT timestamp, status, latency_ms
		FROM samples
		WHERE monitor_tag = ? AND timestamp < ?
		ORDER BY timestamp DESC LIMIT 1`,
		tag, ts)

	sample, err := scanSample(row, tag)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

// PruneSamples deletes samples older than the retention window.
// Returns the number of rows removed.
func (s *Store) PruneSamples(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune samples: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(r rowScanner, tag string) (models.StatusSample, error) {
	var (
		ts      int64
		label   string
		latency sql.NullInt64
	)
	if err := r.Scan(&ts, &label, &latency); err != nil {
		if err == sql.ErrNoRows {
			return models.StatusSample{}, err
		}
		return models.StatusSample{}, fmt.Errorf("scan sample: %w", err)
	}

	sample := models.StatusSample{
		MonitorTag: tag,
		Timestamp:  ts,
		Status:     status.Status(label),
	}
	if latency.Valid {
		ms := int(latency.Int64)
		sample.LatencyMS = &ms
	}
	return sample, nil
}
