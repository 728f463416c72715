package utils

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Journal drivers accepted in journal.driver.
const (
	JournalNone     = "none"
	JournalRedis    = "redis"
	JournalPostgres = "postgres"
)

// PostgresConfig describes how to reach the print journal database.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Config is the service-wide configuration read once at startup.
type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    string `yaml:"port"`
		Prefork bool   `yaml:"prefork"`
	} `yaml:"server"`

	Limits struct {
		MaxPayloadBytes int `yaml:"max_payload_bytes"`
	} `yaml:"limits"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Cache struct {
		RedisHost   string `yaml:"redis_host"`
		RateLimitDB int    `yaml:"redis_rate_db"`
		JournalDB   int    `yaml:"redis_journal_db"`
	} `yaml:"cache"`

	RateLimiter struct {
		Interval          time.Duration `yaml:"interval"`
		EnableUserLimiter bool          `yaml:"enable_user_limiter"`
		UserLimit         int           `yaml:"user_limit"`
	} `yaml:"rate_limiter"`

	Render struct {
		BaseURL     string `yaml:"base_url"`
		TimeoutSecs int    `yaml:"timeout_secs"`
	} `yaml:"render"`

	Emulator struct {
		OverrideFile string `yaml:"override_file"`
	} `yaml:"emulator"`

	Journal struct {
		Driver   string         `yaml:"driver"`
		Size     int            `yaml:"size"`
		Postgres PostgresConfig `yaml:"postgres"`
	} `yaml:"journal"`
}

// AppConfig holds the configuration loaded by LoadConfig.
var AppConfig Config

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = ":8080"
	cfg.Limits.MaxPayloadBytes = 1024 * 1024
	cfg.Logger.Level = "info"
	cfg.Logger.MaxSizeMB = 10
	cfg.Logger.MaxBackups = 3
	cfg.Logger.MaxAgeDays = 28
	cfg.Cache.RateLimitDB = 0
	cfg.Cache.JournalDB = 1
	cfg.RateLimiter.Interval = time.Minute
	cfg.Render.BaseURL = "http://api.labelary.com"
	cfg.Render.TimeoutSecs = 30
	cfg.Emulator.OverrideFile = "emulator.yaml"
	cfg.Journal.Driver = JournalNone
	cfg.Journal.Size = 100
	return cfg
}

// LoadConfig reads the file named by CONFIG_PATH (config.yaml by default).
func LoadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads and validates the YAML file at path, falling back to
// defaults when the file does not exist. It panics on invalid configuration.
func LoadConfigFrom(path string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		panic(fmt.Sprintf("read config %s: %v", path, err))
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic(fmt.Sprintf("parse config %s: %v", path, err))
		}
	}

	if err := validateConfig(&cfg); err != nil {
		panic(fmt.Sprintf("invalid config %s: %v", path, err))
	}

	AppConfig = cfg
	return cfg
}

// GetConfig returns the configuration loaded at startup.
func GetConfig() Config {
	return AppConfig
}

func validateConfig(cfg *Config) error {
	if cfg.Limits.MaxPayloadBytes <= 0 {
		return fmt.Errorf("limits.max_payload_bytes must be positive")
	}
	if cfg.RateLimiter.UserLimit < 0 {
		return fmt.Errorf("rate_limiter.user_limit must not be negative")
	}
	if cfg.RateLimiter.Interval <= 0 {
		return fmt.Errorf("rate_limiter.interval must be positive")
	}
	if cfg.Render.TimeoutSecs <= 0 {
		return fmt.Errorf("render.timeout_secs must be positive")
	}
	u, err := url.Parse(cfg.Render.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("render.base_url must be an absolute http(s) URL")
	}
	if cfg.Emulator.OverrideFile == "" {
		return fmt.Errorf("emulator.override_file is empty")
	}

	switch cfg.Journal.Driver {
	case "":
		cfg.Journal.Driver = JournalNone
	case JournalNone, JournalRedis, JournalPostgres:
	default:
		return fmt.Errorf("journal.driver %q is not supported", cfg.Journal.Driver)
	}
	if cfg.Journal.Size <= 0 {
		return fmt.Errorf("journal.size must be positive")
	}
	return nil
}
