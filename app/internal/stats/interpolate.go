package stats

import (
	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// Interpolate fills a window with one sample per minute. Raw samples
// win at their own minute and advance the carry-forward cursor; gaps
// take the cursor's status, which starts as the anchor (the last known
// status before the window) or the monitor's default when no anchor
// exists.
//
// The result always holds exactly window.Minutes() samples. Pure
// function of its inputs; linear in window length.
func Interpolate(window models.TimeWindow, samples []models.StatusSample, anchor *status.Status, def status.Status) ([]models.StatusSample, error) {
	if window.End < window.Start {
		return nil, models.ErrInvalidWindow
	}
	if !status.Valid(def) {
		def = status.Up
	}

	current := def
	if anchor != nil && status.Valid(*anchor) {
		current = *anchor
	}

	byMinute := make(map[int64]models.StatusSample, len(samples))
	tag := ""
	for _, s := range samples {
		byMinute[s.Timestamp/60*60] = s
		if tag == "" {
			tag = s.MonitorTag
		}
	}

	out := make([]models.StatusSample, 0, window.Minutes())
	for ts := window.Start; ts <= window.End; ts += 60 {
		if raw, ok := byMinute[ts]; ok {
			current = raw.Status
			out = append(out, raw)
			continue
		}
		out = append(out, models.StatusSample{
			MonitorTag: tag,
			Timestamp:  ts,
			Status:     current,
		})
	}
	return out, nil
}
