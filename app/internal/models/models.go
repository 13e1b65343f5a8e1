package models

import (
	"errors"
	"time"

	"statuspage/app/internal/status"
)

// Monitor represents a monitored service identified by its tag.
type Monitor struct {
	Tag    string `json:"tag"`
	Name   string `json:"name"`
	Secret string `json:"-"` // heartbeat credential, never serialized

	// DegradedIsUp controls whether DEGRADED minutes count toward uptime.
	DegradedIsUp  bool          `json:"degraded_is_up"`
	DefaultStatus status.Status `json:"default_status"`

	// Probe settings (optional, empty URL disables active checks)
	ProbeURL     string        `json:"probe_url,omitempty"`
	ProbeTimeout time.Duration `json:"-"`
	MinOK        int           `json:"-"`
	MaxOK        int           `json:"-"`
}

// StatusSample is a single per-minute status observation.
type StatusSample struct {
	MonitorTag string        `json:"monitor_tag"`
	Timestamp  int64         `json:"timestamp"` // minute-aligned epoch seconds
	Status     status.Status `json:"status"`
	LatencyMS  *int          `json:"latency_ms,omitempty"`
}

// ErrInvalidWindow is returned when a window's end precedes its start.
var ErrInvalidWindow = errors.New("invalid window: end before start")

// ErrInvalidTag is returned for an empty or malformed monitor tag.
var ErrInvalidTag = errors.New("invalid monitor tag")

// TimeWindow is an inclusive minute-aligned range of epoch seconds.
type TimeWindow struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewWindow floors both bounds to the minute and validates ordering.
func NewWindow(start, end int64) (TimeWindow, error) {
	w := TimeWindow{Start: start / 60 * 60, End: end / 60 * 60}
	if w.End < w.Start {
		return TimeWindow{}, ErrInvalidWindow
	}
	return w, nil
}

// Minutes returns the number of minute slots the window spans.
func (w TimeWindow) Minutes() int {
	return int((w.End-w.Start)/60) + 1
}

// Incident represents a service disruption affecting one or more monitors.
type Incident struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Impact     status.Status `json:"impact"`
	Type       string        `json:"type,omitempty"`
	StartedAt  int64         `json:"started_at"`
	ResolvedAt *int64        `json:"resolved_at,omitempty"`
	Monitors   []string      `json:"monitors,omitempty"`
}

// IncidentFilter narrows an incident listing. Zero values mean "any".
type IncidentFilter struct {
	Start  int64         `json:"start"`
	Status status.Status `json:"status"`
	Type   string        `json:"type"`
}

// DayBucket aggregates the incidents sharing a calendar day.
type DayBucket struct {
	IDs    []string      `json:"ids"`
	Impact status.Status `json:"monitor_impact"`
}
