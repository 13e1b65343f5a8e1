package config

import (
	"os"
	"testing"
	"time"

	"statuspage/app/internal/status"
)

// --- helpers ---

func setEnvs(t *testing.T, m map[string]string) {
	t.Helper()
	for k, v := range m {
		t.Setenv(k, v)
	}
}

const testSecret = "this-is-a-very-long-secret-that-exceeds-thirty-two-bytes"

func clearMonitorEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_PATH", "ENABLE_SCHEDULER", "POLL_SECONDS",
		"DEFAULT_STATUS", "DEGRADED_COUNTS_AS_UP", "DEGRADED_THRESHOLD_MS",
		"SAMPLE_RETENTION_DAYS", "HEARTBEAT_PER_MINUTE", "MONITORS",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		os.Unsetenv(k)
	}
}

// --- getenv ---

func TestGetenv_Set(t *testing.T) {
	t.Setenv("TEST_KEY_GETENV", "hello")
	if got := getenv("TEST_KEY_GETENV", "fallback"); got != "hello" {
		t.Errorf("getenv returned %q, want %q", got, "hello")
	}
}

func TestGetenv_Unset(t *testing.T) {
	os.Unsetenv("TEST_KEY_GETENV_MISSING")
	if got := getenv("TEST_KEY_GETENV_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getenv returned %q, want %q", got, "fallback")
	}
}

func TestGetenv_EmptyStringUsesDefault(t *testing.T) {
	t.Setenv("TEST_KEY_EMPTY", "")
	if got := getenv("TEST_KEY_EMPTY", "default"); got != "default" {
		t.Errorf("getenv returned %q, want %q for empty env var", got, "default")
	}
}

// --- envInt ---

func TestEnvInt_ValidNumber(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := envInt("TEST_INT", 0); got != 42 {
		t.Errorf("envInt returned %d, want 42", got)
	}
}

func TestEnvInt_InvalidNumber(t *testing.T) {
	t.Setenv("TEST_INT_BAD", "not_a_number")
	if got := envInt("TEST_INT_BAD", 99); got != 99 {
		t.Errorf("envInt returned %d, want default 99 for invalid input", got)
	}
}

func TestEnvInt_Unset(t *testing.T) {
	os.Unsetenv("TEST_INT_MISSING")
	if got := envInt("TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("envInt returned %d, want default 7", got)
	}
}

func TestEnvInt_NegativeNumber(t *testing.T) {
	t.Setenv("TEST_INT_NEG", "-5")
	if got := envInt("TEST_INT_NEG", 0); got != -5 {
		t.Errorf("envInt returned %d, want -5", got)
	}
}

// --- envBool ---

func TestEnvBool_True(t *testing.T) {
	for _, val := range []string{"1", "true", "yes", "TRUE", "True", "YES", "Yes"} {
		t.Setenv("TEST_BOOL", val)
		if got := envBool("TEST_BOOL", false); !got {
			t.Errorf("envBool(%q) = false, want true", val)
		}
	}
}

func TestEnvBool_False(t *testing.T) {
	for _, val := range []string{"0", "false", "no", "FALSE", "random"} {
		t.Setenv("TEST_BOOL", val)
		if got := envBool("TEST_BOOL", true); got {
			t.Errorf("envBool(%q) = true, want false", val)
		}
	}
}

func TestEnvBool_Unset(t *testing.T) {
	os.Unsetenv("TEST_BOOL_MISSING")
	if got := envBool("TEST_BOOL_MISSING", true); !got {
		t.Error("envBool should return default true when unset")
	}
	if got := envBool("TEST_BOOL_MISSING", false); got {
		t.Error("envBool should return default false when unset")
	}
}

// --- envDurSecs ---

func TestEnvDurSecs_Set(t *testing.T) {
	t.Setenv("TEST_DUR", "30")
	got := envDurSecs("TEST_DUR", 60)
	want := 30 * time.Second
	if got != want {
		t.Errorf("envDurSecs = %v, want %v", got, want)
	}
}

func TestEnvDurSecs_Default(t *testing.T) {
	os.Unsetenv("TEST_DUR_MISSING")
	got := envDurSecs("TEST_DUR_MISSING", 120)
	want := 120 * time.Second
	if got != want {
		t.Errorf("envDurSecs = %v, want %v", got, want)
	}
}

// --- Load ---

func TestLoad_Defaults(t *testing.T) {
	clearMonitorEnv(t)
	t.Setenv("ENCRYPTION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "4555" {
		t.Errorf("Port = %q, want 4555", cfg.Port)
	}
	if cfg.DBPath != "./statuspage.db" {
		t.Errorf("DBPath = %q, want ./statuspage.db", cfg.DBPath)
	}
	if !cfg.EnableScheduler {
		t.Error("EnableScheduler should default to true")
	}
	if cfg.PollInterval != 60*time.Second {
		t.Errorf("PollInterval = %v, want 60s", cfg.PollInterval)
	}
	if cfg.DefaultStatus != status.Up {
		t.Errorf("DefaultStatus = %q, want UP", cfg.DefaultStatus)
	}
	if !cfg.DegradedIsUp {
		t.Error("DegradedIsUp should default to true")
	}
	if cfg.SampleRetention != 365*24*time.Hour {
		t.Errorf("SampleRetention = %v, want 365 days", cfg.SampleRetention)
	}
	if len(cfg.MonitorConfigs) != 0 {
		t.Errorf("MonitorConfigs length = %d, want 0 without MONITORS", len(cfg.MonitorConfigs))
	}
}

func TestLoad_EncryptionSecretTooShort(t *testing.T) {
	clearMonitorEnv(t)
	t.Setenv("ENCRYPTION_SECRET", "tooshort")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail when ENCRYPTION_SECRET < 32 bytes")
	}
}

func TestLoad_CustomPort(t *testing.T) {
	clearMonitorEnv(t)
	setEnvs(t, map[string]string{
		"ENCRYPTION_SECRET": testSecret,
		"PORT":              "8080",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
}

func TestLoad_DisableScheduler(t *testing.T) {
	clearMonitorEnv(t)
	setEnvs(t, map[string]string{
		"ENCRYPTION_SECRET": testSecret,
		"ENABLE_SCHEDULER":  "false",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.EnableScheduler {
		t.Error("EnableScheduler should be false when set to 'false'")
	}
}

// --- loadMonitorConfigs ---

func TestLoadMonitorConfigs_FromEnv(t *testing.T) {
	clearMonitorEnv(t)
	setEnvs(t, map[string]string{
		"ENCRYPTION_SECRET":   testSecret,
		"MONITORS":            "api, db",
		"MON_API_NAME":        "Public API",
		"MON_API_SECRET":      "api-secret",
		"MON_API_URL":         "http://10.0.0.2:8080/healthz",
		"MON_DB_SECRET":       "db-secret",
		"MON_DB_TIMEOUT_SECS": "10",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.MonitorConfigs) != 2 {
		t.Fatalf("MonitorConfigs length = %d, want 2", len(cfg.MonitorConfigs))
	}

	api := cfg.MonitorConfigs[0]
	if api.Tag != "api" {
		t.Errorf("Tag = %q, want api", api.Tag)
	}
	if api.Name != "Public API" {
		t.Errorf("Name = %q, want Public API", api.Name)
	}
	if api.Secret != "api-secret" {
		t.Errorf("Secret = %q, want api-secret", api.Secret)
	}
	if api.ProbeURL != "http://10.0.0.2:8080/healthz" {
		t.Errorf("ProbeURL = %q", api.ProbeURL)
	}

	db := cfg.MonitorConfigs[1]
	if db.Tag != "db" {
		t.Errorf("Tag = %q, want db", db.Tag)
	}
	if db.Name != "db" {
		t.Errorf("Name should fall back to tag, got %q", db.Name)
	}
	if db.ProbeTimeout != 10*time.Second {
		t.Errorf("ProbeTimeout = %v, want 10s", db.ProbeTimeout)
	}
}

func TestLoadMonitorConfigs_DashedTag(t *testing.T) {
	clearMonitorEnv(t)
	setEnvs(t, map[string]string{
		"ENCRYPTION_SECRET":             testSecret,
		"MONITORS":                      "edge-cache",
		"MON_EDGE_CACHE_SECRET":         "s",
		"MON_EDGE_CACHE_DEFAULT_STATUS": "DEGRADED",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.MonitorConfigs) != 1 {
		t.Fatalf("MonitorConfigs length = %d, want 1", len(cfg.MonitorConfigs))
	}
	mon := cfg.MonitorConfigs[0]
	if mon.Tag != "edge-cache" {
		t.Errorf("Tag = %q, want edge-cache", mon.Tag)
	}
	if mon.DefaultStatus != status.Degraded {
		t.Errorf("DefaultStatus = %q, want DEGRADED", mon.DefaultStatus)
	}
}
