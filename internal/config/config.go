package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the persisted user preferences.
type Config struct {
	Theme           string        `toml:"theme"`
	DefaultProfile  string        `toml:"default_profile"`
	PollInterval    time.Duration `toml:"-"`
	PollIntervalStr string        `toml:"poll_interval"`
	MaxHistory      int           `toml:"max_history"`
	BackendURL      string        `toml:"backend_url"`
	WebhookURL      string        `toml:"webhook_url"`
	SparkWidth      int           `toml:"spark_width"`
	SparkHeight     int           `toml:"spark_height"`
	MockUsers       int           `toml:"mock_users"`
	MockDays        int           `toml:"mock_days"`
	MockSeed        int64         `toml:"mock_seed"`
	LogLevel        string        `toml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:           "solarized-dark",
		DefaultProfile:  "",
		PollInterval:    10 * time.Second,
		PollIntervalStr: "10s",
		MaxHistory:      60,
		SparkWidth:      90,
		SparkHeight:     14,
		MockUsers:       50,
		MockDays:        21,
		LogLevel:        "info",
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.PollIntervalStr != "" {
		d, err := time.ParseDuration(cfg.PollIntervalStr)
		if err == nil {
			cfg.PollInterval = d
		}
	}
	cfg.normalize()
	return cfg, nil
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.PollInterval < time.Second {
		c.PollInterval = def.PollInterval
	}
	if c.MaxHistory < 2 {
		c.MaxHistory = def.MaxHistory
	}
	if c.SparkWidth < 1 {
		c.SparkWidth = def.SparkWidth
	}
	if c.SparkHeight < 1 {
		c.SparkHeight = def.SparkHeight
	}
	if c.MockUsers < 1 {
		c.MockUsers = def.MockUsers
	}
	if c.MockDays < 1 {
		c.MockDays = def.MockDays
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// ResolvedWebhookURL returns the configured webhook, falling back to the
// WEBHOOK_URL environment variable the backend also reads.
func (c *Config) ResolvedWebhookURL() string {
	if c.WebhookURL != "" {
		return c.WebhookURL
	}
	return os.Getenv("WEBHOOK_URL")
}

func SaveConfig(cfg *Config, path string) error {
	cfg.PollIntervalStr = cfg.PollInterval.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
