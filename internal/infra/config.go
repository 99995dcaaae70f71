package infra

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Loaded from yaml, then sensitive
// values are overridden from the environment.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Binance struct {
			RestURL   string `yaml:"rest_url"`
			WSURL     string `yaml:"ws_url"`
			APIKey    string `yaml:"api_key"`
			SecretKey string `yaml:"secret_key"`
		} `yaml:"binance"`
	} `yaml:"api"`

	Engine struct {
		SettleDelaySec   int `yaml:"settle_delay_sec"`
		PollIntervalSec  int `yaml:"poll_interval_sec"`
		PollRetryMax     int `yaml:"poll_retry_max"`
		PollRetryDelayMS int `yaml:"poll_retry_delay_ms"`
	} `yaml:"engine"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Stream struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"stream"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no config file exists.
// Timing values mirror the live exchange contract: a short settle delay
// before the first status fetch, a few seconds between polls.
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "oco_trader"
	cfg.App.Version = "dev"
	cfg.API.Binance.RestURL = "https://api.binance.com"
	cfg.API.Binance.WSURL = "wss://stream.binance.com:9443"
	cfg.Engine.SettleDelaySec = 2
	cfg.Engine.PollIntervalSec = 3
	cfg.Engine.PollRetryMax = 5
	cfg.Engine.PollRetryDelayMS = 500
	cfg.Journal.Enabled = true
	cfg.Logging.Level = "info"
	return &cfg
}

// LoadConfig reads and parses the config file, falling back to defaults
// when the file does not exist. Environment variables override secrets
// afterwards, and the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults are a complete configuration; keys still come from env.
	default:
		return nil, err
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.Binance.RestURL, "http://") && !strings.HasPrefix(c.API.Binance.RestURL, "https://") {
		return fmt.Errorf("invalid Binance REST URL: %s", c.API.Binance.RestURL)
	}
	if !strings.HasPrefix(c.API.Binance.WSURL, "ws://") && !strings.HasPrefix(c.API.Binance.WSURL, "wss://") {
		return fmt.Errorf("invalid Binance WS URL: %s", c.API.Binance.WSURL)
	}
	if c.Engine.SettleDelaySec < 0 {
		return fmt.Errorf("settle delay must not be negative")
	}
	if c.Engine.PollIntervalSec <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Engine.PollRetryMax <= 0 {
		return fmt.Errorf("poll retry cap must be positive")
	}
	if c.Engine.PollRetryDelayMS < 0 {
		return fmt.Errorf("poll retry delay must not be negative")
	}
	return nil
}

// SettleDelay returns the post-submission settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Engine.SettleDelaySec) * time.Second
}

// PollInterval returns the pause between fill polls as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Engine.PollIntervalSec) * time.Second
}

// PollRetryDelay returns the in-cycle transient retry delay as a duration.
func (c *Config) PollRetryDelay() time.Duration {
	return time.Duration(c.Engine.PollRetryDelayMS) * time.Millisecond
}

// overrideWithEnv overrides settings from environment variables when set.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("BINANCE_API_KEY"); key != "" {
		cfg.API.Binance.APIKey = key
	}
	if secret := os.Getenv("BINANCE_SECRET_KEY"); secret != "" {
		cfg.API.Binance.SecretKey = secret
	}
	if url := os.Getenv("BINANCE_REST_URL"); url != "" {
		cfg.API.Binance.RestURL = url
	}
}
