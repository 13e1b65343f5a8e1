package heartbeat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"statuspage/app/internal/cache"
	"statuspage/app/internal/metrics"
	"statuspage/app/internal/status"
)

// SampleStore persists per-minute status samples.
type SampleStore interface {
	UpsertSample(ctx context.Context, tag string, minuteTS int64, st status.Status, latencyMS *int) error
}

// Pipeline validates heartbeat submissions and records the resulting
// status sample. It is the only component that writes to the store.
type Pipeline struct {
	validator *Validator
	store     SampleStore
	cache     *cache.Cache
	logger    zerolog.Logger

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(validator *Validator, store SampleStore, c *cache.Cache, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		validator: validator,
		store:     store,
		cache:     c,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterHeartbeat authenticates a bare heartbeat and records an UP
// sample at the current minute. The act of calling is proof of liveness.
func (p *Pipeline) RegisterHeartbeat(ctx context.Context, tag, secret string) (status.Status, error) {
	return p.RegisterPush(ctx, tag, secret, status.Up, nil)
}

// RegisterPush authenticates a heartbeat carrying an explicit status
// (webhook path) and records it at the current minute. Exactly one
// store upsert per call; within a minute the last call wins.
func (p *Pipeline) RegisterPush(ctx context.Context, tag, secret string, st status.Status, latencyMS *int) (status.Status, error) {
	if !status.Valid(st) {
		st = status.Up
	}

	if _, err := p.validator.Validate(ctx, tag, secret); err != nil {
		if IsAuthError(err) {
			metrics.ObserveHeartbeat(metrics.OutcomeRejected)
			p.logger.Warn().Str("tag", tag).Err(err).Msg("heartbeat rejected")
		} else {
			metrics.ObserveHeartbeat(metrics.OutcomeError)
		}
		return "", err
	}

	if err := p.record(ctx, tag, st, latencyMS); err != nil {
		metrics.ObserveHeartbeat(metrics.OutcomeError)
		return "", err
	}

	metrics.ObserveHeartbeat(metrics.OutcomeAccepted)
	p.logger.Debug().Str("tag", tag).Str("status", string(st)).Msg("heartbeat recorded")
	return st, nil
}

// Record stores a sample without authentication. It is the internal
// path used by the active prober, which already trusts its input.
func (p *Pipeline) Record(ctx context.Context, tag string, st status.Status, latencyMS *int) error {
	return p.record(ctx, tag, st, latencyMS)
}

func (p *Pipeline) record(ctx context.Context, tag string, st status.Status, latencyMS *int) error {
	minute := p.now().UTC().Unix() / 60 * 60
	if err := p.store.UpsertSample(ctx, tag, minute, st, latencyMS); err != nil {
		p.logger.Error().Str("tag", tag).Err(err).Msg("sample upsert failed")
		return fmt.Errorf("record %q: %w", tag, err)
	}
	metrics.ObserveSampleWritten()

	// A new sample changes every cached window ending at "now".
	if p.cache != nil {
		p.cache.DeletePrefix("uptime:" + tag + ":")
	}
	return nil
}
