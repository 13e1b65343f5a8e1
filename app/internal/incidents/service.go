package incidents

import (
	"context"
	"fmt"
	"time"

	"statuspage/app/internal/database"
	"statuspage/app/internal/models"
)

// Repository is the incident read contract consumed by the service.
type Repository interface {
	FindIncidentsByMonitorAndRange(ctx context.Context, tag string, start, end int64) ([]models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter, dir database.Direction, page, limit int) ([]models.Incident, error)
}

// Service exposes incident queries to the HTTP layer.
type Service struct {
	repo Repository
}

// NewService creates an incident query service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ClampPage applies the listing defaults: page and limit are 1-based
// and non-positive or missing values fall back to page=1, limit=100.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	return page, limit
}

// List returns one page of incidents. Direction defaults to After;
// a Before listing with no cursor starts from the present.
func (s *Service) List(ctx context.Context, filter models.IncidentFilter, dir database.Direction, page, limit int) ([]models.Incident, error) {
	page, limit = ClampPage(page, limit)
	if dir != database.Before {
		dir = database.After
	}
	if dir == database.Before && filter.Start == 0 {
		filter.Start = time.Now().UTC().Unix()
	}
	return s.repo.ListIncidents(ctx, filter, dir, page, limit)
}

// DayBuckets fetches the incidents touching tag within [start, end]
// and groups them into calendar-day buckets in the named timezone
// (IANA name, "" means UTC).
func (s *Service) DayBuckets(ctx context.Context, tag string, window models.TimeWindow, tz string) (*DayBuckets, error) {
	loc := time.UTC
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("incidents: bad timezone %q: %w", tz, err)
		}
	}

	list, err := s.repo.FindIncidentsByMonitorAndRange(ctx, tag, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("incidents for %q: %w", tag, err)
	}
	return BucketByDay(list, loc), nil
}
