// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
redis:
  url: "localhost:6379"
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Runway.Model != "gemini_2.5_flash" {
		t.Fatalf("model = %q", cfg.Runway.Model)
	}
	if cfg.Runway.PollInterval != 3*time.Second {
		t.Fatalf("poll interval = %v, want 3s", cfg.Runway.PollInterval)
	}
	if cfg.Runway.ConcurrentLimit != 4 {
		t.Fatalf("concurrent limit = %d, want 4", cfg.Runway.ConcurrentLimit)
	}
	if cfg.TryOn.Workers != 8 {
		t.Fatalf("workers = %d, want 8", cfg.TryOn.Workers)
	}
	if cfg.TryOn.Warmup != WarmupOnDemand {
		t.Fatalf("warmup = %q, want on_demand", cfg.TryOn.Warmup)
	}
	if cfg.Runway.MaxPollAttempts != 0 {
		t.Fatalf("max poll attempts = %d, want unbounded default", cfg.Runway.MaxPollAttempts)
	}
}

func TestLoadConfigEnvOverridesAPIKey(t *testing.T) {
	path := writeConfig(t, `
redis:
  url: "localhost:6379"
runway:
  api_key: "from-file"
`)
	t.Setenv("RUNWAY_API_KEY", "from-env")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Runway.APIKey != "from-env" {
		t.Fatalf("api key = %q, environment must win", cfg.Runway.APIKey)
	}
}

func TestLoadConfigRequiresRedis(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatal("expected error for missing redis.url")
	}
}

func TestLoadConfigRejectsBadWarmup(t *testing.T) {
	path := writeConfig(t, `
redis:
  url: "localhost:6379"
tryon:
  warmup: "sometimes"
`)
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatal("expected error for invalid warmup mode")
	}
}
