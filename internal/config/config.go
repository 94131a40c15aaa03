package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDestination is where files land when nothing else is configured
const DefaultDestination = "~/SHARPkit/ECMWF/AIFS"

var (
	instance *Config
	once     sync.Once
)

type SourceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	Delay      time.Duration `yaml:"delay"`
}

type FetchConfig struct {
	Destination string      `yaml:"destination"`
	Horizon     int         `yaml:"horizon"`
	Retry       RetryConfig `yaml:"retry"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type NotifyConfig struct {
	Redis RedisConfig `yaml:"redis"`
	MQTT  MQTTConfig  `yaml:"mqtt"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type ScheduleConfig struct {
	Cron   string `yaml:"cron"`
	Listen string `yaml:"listen"`
}

// Config is the full aifsfetch configuration
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Logging  LoggingConfig  `yaml:"logging"`
	Notify   NotifyConfig   `yaml:"notify"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// Default returns a Config holding every default value, before env overrides
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL: "https://data.ecmwf.int",
		},
		Fetch: FetchConfig{
			Destination: DefaultDestination,
			Horizon:     360,
			Retry: RetryConfig{
				MaxRetries: 5,
				Delay:      30 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Notify: NotifyConfig{
			Redis: defaultRedisConfig(),
			MQTT:  defaultMQTTConfig(),
		},
		Schedule: ScheduleConfig{
			// 1h after each cycle's nominal init time
			Cron:   "0 1,7,13,19 * * *",
			Listen: ":9108",
		},
	}
}

// Load reads configPath once and caches the result. An empty configPath
// skips the file and uses defaults plus environment overrides.
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = Read(configPath)
	})

	return instance, err
}

// Read loads configPath without touching the cached instance
func Read(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	dest, err := expandHome(cfg.Fetch.Destination)
	if err != nil {
		return nil, err
	}
	cfg.Fetch.Destination = dest

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Fetch.Destination = getEnv("AIFS_DEST", c.Fetch.Destination)
	c.Source.BaseURL = getEnv("AIFS_BASE_URL", c.Source.BaseURL)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)

	horizon, err := getEnvInt("AIFS_HORIZON", c.Fetch.Horizon)
	if err != nil {
		return err
	}
	c.Fetch.Horizon = horizon

	c.Notify.Redis.applyEnv()
	return c.Notify.MQTT.applyEnv()
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source.base_url must be an http(s) URL, got %q", c.Source.BaseURL)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout cannot be negative")
	}

	if c.Fetch.Destination == "" {
		return fmt.Errorf("fetch.destination cannot be empty")
	}
	if c.Fetch.Horizon < 0 || c.Fetch.Horizon%6 != 0 {
		return fmt.Errorf("fetch.horizon must be a non-negative multiple of 6, got %d", c.Fetch.Horizon)
	}
	if c.Fetch.Retry.MaxRetries < 0 {
		return fmt.Errorf("fetch.retry.max_retries cannot be negative")
	}
	if c.Fetch.Retry.Delay < 0 {
		return fmt.Errorf("fetch.retry.delay cannot be negative")
	}

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if err := c.Notify.Redis.validate(); err != nil {
		return err
	}
	return c.Notify.MQTT.validate()
}

// expandHome resolves a leading ~ against the user's home directory
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
