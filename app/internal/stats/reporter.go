package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"statuspage/app/internal/cache"
	"statuspage/app/internal/metrics"
	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// SampleReader is the read side of the status store consumed by the
// reporter. Engines below never touch it; only the reporter does.
type SampleReader interface {
	ReadRange(ctx context.Context, tag string, start, end int64) ([]models.StatusSample, error)
	ReadLastBefore(ctx context.Context, tag string, ts int64) (*models.StatusSample, error)
}

// Reporter composes store reads, interpolation and aggregation into
// the uptime query exposed to callers.
type Reporter struct {
	store  SampleReader
	cache  *cache.Cache
	logger zerolog.Logger
}

// NewReporter creates a reporter. The cache may be nil to disable
// result caching.
func NewReporter(store SampleReader, c *cache.Cache, logger zerolog.Logger) *Reporter {
	return &Reporter{store: store, cache: c, logger: logger}
}

// Uptime returns the aggregated uptime for one monitor over a window.
// Store failures propagate to the caller; the reporter never retries.
func (r *Reporter) Uptime(ctx context.Context, mon models.Monitor, window models.TimeWindow) (Summary, error) {
	t0 := time.Now()
	defer func() { metrics.ObserveUptimeQuery(time.Since(t0)) }()

	cacheKey := fmt.Sprintf("uptime:%s:%d:%d", mon.Tag, window.Start, window.End)
	if r.cache != nil {
		if cached, ok := r.cache.Get(cacheKey); ok {
			if sum, ok := cached.(Summary); ok {
				return sum, nil
			}
		}
	}

	anchorSample, err := r.store.ReadLastBefore(ctx, mon.Tag, window.Start)
	if err != nil {
		return Summary{}, fmt.Errorf("uptime %q: %w", mon.Tag, err)
	}
	var anchor *status.Status
	if anchorSample != nil {
		anchor = &anchorSample.Status
	}

	raw, err := r.store.ReadRange(ctx, mon.Tag, window.Start, window.End)
	if err != nil {
		return Summary{}, fmt.Errorf("uptime %q: %w", mon.Tag, err)
	}

	// A window with no samples and no history yet is reported as
	// no-data rather than interpolated from the configured default.
	if anchorSample == nil && len(raw) == 0 {
		return Summary{NoData: true}, nil
	}

	series, err := Interpolate(window, raw, anchor, mon.DefaultStatus)
	if err != nil {
		return Summary{}, err
	}

	sum := Aggregate(series, mon.DegradedIsUp)
	if r.cache != nil {
		r.cache.Set(cacheKey, sum)
	}

	r.logger.Debug().
		Str("tag", mon.Tag).
		Int64("start", window.Start).
		Int64("end", window.End).
		Float64("uptime_pct", sum.UptimePct).
		Msg("uptime computed")
	return sum, nil
}
