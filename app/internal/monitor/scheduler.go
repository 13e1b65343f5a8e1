package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"statuspage/app/internal/checker"
	"statuspage/app/internal/heartbeat"
	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// Registry lists the monitors eligible for active probing.
type Registry interface {
	ListMonitors(ctx context.Context) ([]models.Monitor, error)
}

// Scheduler actively probes monitors that carry a probe URL and feeds
// the results into the ingestion pipeline, complementing pushed
// heartbeats for services that cannot push.
type Scheduler struct {
	registry   Registry
	pipeline   *heartbeat.Pipeline
	tracker    *FailureTracker
	interval   time.Duration
	degradedMS int
	logger     zerolog.Logger
}

// NewScheduler creates a prober that runs every interval. Latencies
// above degradedMS map to DEGRADED; a probe failure maps to DOWN only
// once the tracker's threshold is reached.
func NewScheduler(registry Registry, pipeline *heartbeat.Pipeline, tracker *FailureTracker, interval time.Duration, degradedMS int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		registry:   registry,
		pipeline:   pipeline,
		tracker:    tracker,
		interval:   interval,
		degradedMS: degradedMS,
		logger:     logger,
	}
}

// Run probes until ctx is cancelled. One pass runs immediately.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	monitors, err := s.registry.ListMonitors(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("prober: list monitors failed")
		return
	}

	valid := make(map[string]struct{}, len(monitors))
	for _, mon := range monitors {
		valid[mon.Tag] = struct{}{}
		if mon.ProbeURL == "" {
			continue
		}

		res := checker.Probe(ctx, mon.ProbeURL, mon.ProbeTimeout, mon.MinOK, mon.MaxOK)
		st := s.classify(mon.Tag, res)

		if err := s.pipeline.Record(ctx, mon.Tag, st, res.LatencyMS); err != nil {
			s.logger.Error().Str("tag", mon.Tag).Err(err).Msg("prober: record failed")
		}
	}
	s.tracker.Prune(valid)
}

// classify maps a probe result to a status. Failures become DOWN only
// after consecutive failures reach the tracker threshold; until then
// the monitor is reported DEGRADED. Slow successes are DEGRADED too.
func (s *Scheduler) classify(tag string, res checker.Result) status.Status {
	if !res.OK {
		if s.tracker.Update(tag, false) {
			return status.Down
		}
		return status.Degraded
	}

	s.tracker.Update(tag, true)
	if res.LatencyMS != nil && *res.LatencyMS > s.degradedMS {
		return status.Degraded
	}
	return status.Up
}
