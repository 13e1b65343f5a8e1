package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// Direction selects which side of the cursor a listing walks.
type Direction string

const (
	After  Direction = "after"
	Before Direction = "before"
)

// CreateIncident stores an incident and its monitor associations.
// A missing ID is assigned a fresh UUID. Returns the stored incident.
func (s *Store) CreateIncident(ctx context.Context, inc models.Incident) (models.Incident, error) {
	if inc.ID == "" {
		inc.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Incident{}, fmt.Errorf("create incident: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO incidents (id, title, impact, type, started_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		inc.ID, inc.Title, string(inc.Impact), inc.Type, inc.StartedAt, inc.ResolvedAt)
	if err != nil {
		return models.Incident{}, fmt.Errorf("create incident: %w", err)
	}

	for _, tag := range inc.Monitors {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO incident_monitors (incident_id, monitor_tag, impact)
			VALUES (?, ?, ?)
			ON CONFLICT(incident_id, monitor_tag) DO UPDATE SET impact = excluded.impact`,
			inc.ID, tag, string(inc.Impact))
		if err != nil {
			return models.Incident{}, fmt.Errorf("link incident %q to %q: %w", inc.ID, tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Incident{}, fmt.Errorf("create incident: %w", err)
	}
	return inc, nil
}

// FindIncidentsByMonitorAndRange returns the incidents touching tag whose
// start falls within [start, end], ordered by start time.
func (s *Store) FindIncidentsByMonitorAndRange(ctx context.Context, tag string, start, end int64) ([]models.Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.title, i.impact, i.type, i.started_at, i.resolved_at
		FROM incidents i
		JOIN incident_monitors im ON im.incident_id = i.id
		WHERE im.monitor_tag = ? AND i.started_at >= ? AND i.started_at <= ?
		ORDER BY i.started_at ASC`,
		tag, start, end)
	if err != nil {
		return nil, fmt.Errorf("find incidents for %q: %w", tag, err)
	}
	defer rows.Close()

	return collectIncidents(rows)
}

// ListIncidents returns one page of incidents relative to the filter's
// start cursor. Direction After walks forward in time (ascending),
// Before walks backward (descending). All filter fields are conjunctive.
func (s *Store) ListIncidents(ctx context.Context, filter models.IncidentFilter, dir Direction, page, limit int) ([]models.Incident, error) {
	query := `SELECT id, title, impact, type, started_at, resolved_at FROM incidents WHERE 1=1`
	args := []any{}

	if dir == Before {
		query += ` AND started_at <= ?`
	} else {
		query += ` AND started_at >= ?`
	}
	args = append(args, filter.Start)

	if filter.Status != "" {
		query += ` AND impact = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}

	if dir == Before {
		query += ` ORDER BY started_at DESC`
	} else {
		query += ` ORDER BY started_at ASC`
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	return collectIncidents(rows)
}

func collectIncidents(rows *sql.Rows) ([]models.Incident, error) {
	var out []models.Incident
	for rows.Next() {
		var (
			inc      models.Incident
			impact   string
			resolved sql.NullInt64
		)
		if err := rows.Scan(&inc.ID, &inc.Title, &impact, &inc.Type, &inc.StartedAt, &resolved); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		inc.Impact = status.Status(impact)
		if resolved.Valid {
			ts := resolved.Int64
			inc.ResolvedAt = &ts
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collect incidents: %w", err)
	}
	return out, nil
}
