package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // applied to the portrait blob only
}

// RunwayConfig configures the remote generation task API client.
// APIKey may be empty at boot; generation then short-circuits with
// domain.ErrNotConfigured instead of attempting network calls.
type RunwayConfig struct {
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	Model           string        `yaml:"model"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxPollAttempts int           `yaml:"max_poll_attempts"` // 0 = poll until terminal
	ConcurrentLimit int           `yaml:"concurrent_limit"`  // max concurrent API calls
}

type TryOnConfig struct {
	Workers   int    `yaml:"workers"`    // batch pipeline workers
	Warmup    string `yaml:"warmup"`     // eager | on_demand
	AssetsDir string `yaml:"assets_dir"` // root for catalog image paths
}

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Runway RunwayConfig `yaml:"runway"`
	TryOn  TryOnConfig  `yaml:"tryon"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	WarmupEager    = "eager"
	WarmupOnDemand = "on_demand"
)

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Environment always wins for the secret.
	if key := os.Getenv("RUNWAY_API_KEY"); key != "" {
		cfg.Runway.APIKey = key
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Runway.BaseURL == "" {
		cfg.Runway.BaseURL = "https://api.dev.runwayml.com"
	}
	if cfg.Runway.Model == "" {
		cfg.Runway.Model = "gemini_2.5_flash"
	}
	if cfg.Runway.PollInterval <= 0 {
		cfg.Runway.PollInterval = 3 * time.Second
	}
	if cfg.Runway.ConcurrentLimit <= 0 {
		cfg.Runway.ConcurrentLimit = 4
	}
	if cfg.TryOn.Workers <= 0 {
		cfg.TryOn.Workers = 8
	}
	if cfg.TryOn.Warmup == "" {
		cfg.TryOn.Warmup = WarmupOnDemand
	}
	if cfg.TryOn.AssetsDir == "" {
		cfg.TryOn.AssetsDir = "public"
	}

	// Minimal validation
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.TryOn.Warmup != WarmupEager && cfg.TryOn.Warmup != WarmupOnDemand {
		return nil, fmt.Errorf("tryon.warmup must be %q or %q", WarmupEager, WarmupOnDemand)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
