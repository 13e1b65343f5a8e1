package stats

import (
	"math"

	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// Summary holds per-status counts and the derived uptime percentage
// for one aggregation window.
type Summary struct {
	Up        int     `json:"up"`
	Down      int     `json:"down"`
	Degraded  int     `json:"degraded"`
	Total     int     `json:"total"`
	UptimePct float64 `json:"uptime_pct"`

	// NoData is set when the series was empty. UptimePct is zero then,
	// which callers must not present as "0% uptime".
	NoData bool `json:"no_data,omitempty"`
}

// Aggregate reduces a sample series into counts and an uptime
// percentage. When includeDegraded is true, DEGRADED minutes count
// toward uptime. Pure function.
func Aggregate(series []models.StatusSample, includeDegraded bool) Summary {
	var sum Summary
	for _, s := range series {
		switch s.Status {
		case status.Up:
			sum.Up++
		case status.Down:
			sum.Down++
		case status.Degraded:
			sum.Degraded++
		}
	}
	sum.Total = sum.Up + sum.Down + sum.Degraded

	if sum.Total == 0 {
		sum.NoData = true
		return sum
	}

	available := sum.Up
	if includeDegraded {
		available += sum.Degraded
	}
	sum.UptimePct = roundPct(float64(available) / float64(sum.Total) * 100)
	return sum
}

// roundPct rounds half-up to two decimal places.
func roundPct(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
