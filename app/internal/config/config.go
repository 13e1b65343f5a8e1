package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Secret-at-rest encryption key material
	EncryptionSecret []byte

	// Scheduler
	EnableScheduler bool
	PollInterval    time.Duration

	// Status policy defaults (per-monitor overrides in MonitorConfigs)
	DefaultStatus       status.Status
	DegradedIsUp        bool
	DegradedThresholdMS int

	// Retention
	SampleRetention time.Duration

	// Heartbeat rate limiting
	HeartbeatPerMinute int

	// Monitors (loaded from env)
	MonitorConfigs []models.Monitor
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	defStatus, ok := status.Parse(getenv("DEFAULT_STATUS", "UP"))
	if !ok {
		defStatus = status.Up
	}

	cfg := &Config{
		Port:                getenv("PORT", "4555"),
		DBPath:              getenv("DB_PATH", "./statuspage.db"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "json"),
		EnableScheduler:     envBool("ENABLE_SCHEDULER", true),
		PollInterval:        envDurSecs("POLL_SECONDS", 60),
		DefaultStatus:       defStatus,
		DegradedIsUp:        envBool("DEGRADED_COUNTS_AS_UP", true),
		DegradedThresholdMS: envInt("DEGRADED_THRESHOLD_MS", 200),
		SampleRetention:     time.Duration(envInt("SAMPLE_RETENTION_DAYS", 365)) * 24 * time.Hour,
		HeartbeatPerMinute:  envInt("HEARTBEAT_PER_MINUTE", 12),
	}

	// Encryption secret protects monitor secrets at rest
	secret := getenv("ENCRYPTION_SECRET", "")
	if len(secret) < 32 {
		return nil, errors.New("ENCRYPTION_SECRET must be at least 32 bytes (use a long random string)")
	}
	cfg.EncryptionSecret = []byte(secret)

	cfg.MonitorConfigs = loadMonitorConfigs(cfg)

	return cfg, nil
}

// loadMonitorConfigs reads the MONITORS tag list and per-tag settings.
// Example:
//
//	MONITORS=api,db
//	MON_API_NAME=Public API
//	MON_API_SECRET=s3cret
//	MON_API_URL=http://10.0.0.2:8080/healthz
func loadMonitorConfigs(cfg *Config) []models.Monitor {
	tags := strings.Split(getenv("MONITORS", ""), ",")
	var out []models.Monitor
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		prefix := "MON_" + strings.ToUpper(strings.ReplaceAll(tag, "-", "_")) + "_"

		def := cfg.DefaultStatus
		if s, ok := status.Parse(getenv(prefix+"DEFAULT_STATUS", "")); ok {
			def = s
		}

		out = append(out, models.Monitor{
			Tag:           tag,
			Name:          getenv(prefix+"NAME", tag),
			Secret:        getenv(prefix+"SECRET", ""),
			DegradedIsUp:  envBool(prefix+"DEGRADED_IS_UP", cfg.DegradedIsUp),
			DefaultStatus: def,
			ProbeURL:      getenv(prefix+"URL", ""),
			ProbeTimeout:  envDurSecs(prefix+"TIMEOUT_SECS", 5),
			MinOK:         envInt(prefix+"OK_MIN", 200),
			MaxOK:         envInt(prefix+"OK_MAX", 399),
		})
	}
	return out
}

// Helper functions
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.ToLower(getenv(k, ""))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}

func envDurSecs(k string, def int) time.Duration {
	return time.Duration(envInt(k, def)) * time.Second
}
