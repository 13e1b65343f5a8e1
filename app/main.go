package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"statuspage/app/internal/cache"
	"statuspage/app/internal/config"
	"statuspage/app/internal/crypto"
	"statuspage/app/internal/database"
	"statuspage/app/internal/handlers"
	"statuspage/app/internal/heartbeat"
	"statuspage/app/internal/incidents"
	"statuspage/app/internal/logging"
	"statuspage/app/internal/metrics"
	"statuspage/app/internal/monitor"
	"statuspage/app/internal/ratelimit"
	"statuspage/app/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", "console")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	store, err := database.Open(cfg.DBPath, crypto.New(cfg.EncryptionSecret))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed monitors from the environment; existing rows are refreshed
	// so config stays the source of truth for monitor definitions.
	for _, mon := range cfg.MonitorConfigs {
		if err := store.UpsertMonitor(ctx, mon); err != nil {
			logger.Fatal().Str("tag", mon.Tag).Err(err).Msg("failed to seed monitor")
		}
		logger.Info().
			Str("tag", mon.Tag).
			Str("secret", crypto.MaskSecret(mon.Secret)).
			Bool("probed", mon.ProbeURL != "").
			Msg("monitor registered")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	if err := metrics.Register(reg); err != nil {
		logger.Fatal().Err(err).Msg("failed to register metrics")
	}

	statsCache := cache.New(30 * time.Second)
	defer statsCache.Stop()

	validator := heartbeat.NewValidator(store)
	pipeline := heartbeat.NewPipeline(validator, store, statsCache, logger)
	reporter := stats.NewReporter(store, statsCache, logger)
	incSvc := incidents.NewService(store)

	limiter := ratelimit.NewHeartbeatLimiter(cfg.HeartbeatPerMinute)
	defer limiter.Stop()

	if cfg.EnableScheduler {
		tracker := monitor.NewFailureTracker(2)
		sched := monitor.NewScheduler(store, pipeline, tracker, cfg.PollInterval, cfg.DegradedThresholdMS, logger)
		go sched.Run(ctx)
		logger.Info().Dur("interval", cfg.PollInterval).Msg("active prober started")
	}

	go retentionSweep(ctx, store, cfg.SampleRetention, logger)

	h := handlers.New(store, pipeline, reporter, incSvc, limiter, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("port", cfg.Port).Msg("status api listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// retentionSweep deletes samples past the retention window once an hour.
func retentionSweep(ctx context.Context, store *database.Store, retention time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PruneSamples(ctx, retention)
			if err != nil {
				logger.Error().Err(err).Msg("retention sweep failed")
				continue
			}
			if n > 0 {
				logger.Info().Int64("samples", n).Msg("retention sweep pruned old samples")
			}
		}
	}
}
