package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"hourglass/internal/timer"
)

const DefaultPath = "hourglass.yaml"

type Config struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	Rotation struct {
		Critical time.Duration `yaml:"critical"`
		Warning  time.Duration `yaml:"warning"`
		Normal   time.Duration `yaml:"normal"`
	} `yaml:"rotation"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`

	Mirror struct {
		Enabled        bool     `yaml:"enabled"`
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"mirror"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

func Default() *Config {
	cfg := &Config{RefreshInterval: 100 * time.Millisecond}

	tiers := timer.DefaultTiers()
	cfg.Rotation.Critical = tiers.Critical
	cfg.Rotation.Warning = tiers.Warning
	cfg.Rotation.Normal = tiers.Normal

	cfg.History.Enabled = true
	cfg.History.Path = "hourglass.db"

	cfg.Mirror.Addr = ":8080"
	cfg.Mirror.AllowedOrigins = []string{"*"}

	cfg.Log.Level = "info"
	cfg.Log.File = "hourglass.log"
	return cfg
}

// Load reads .env (if present), then the YAML file named by HOURGLASS_CONFIG
// or DefaultPath, then applies environment overrides. A missing YAML file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(getEnv("HOURGLASS_CONFIG", DefaultPath))
}

func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.History.Enabled = getEnvAsBool("HOURGLASS_HISTORY_ENABLED", c.History.Enabled)
	c.Mirror.Enabled = getEnvAsBool("HOURGLASS_MIRROR_ENABLED", c.Mirror.Enabled)
	c.History.Path = getEnv("HOURGLASS_DB", c.History.Path)
	c.Mirror.Addr = getEnv("HOURGLASS_MIRROR_ADDR", c.Mirror.Addr)
	c.Log.Level = getEnv("HOURGLASS_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("HOURGLASS_LOG_FILE", c.Log.File)
}

func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.Rotation.Critical <= 0 || c.Rotation.Warning <= 0 || c.Rotation.Normal <= 0 {
		return fmt.Errorf("rotation delays must be positive")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	if c.Mirror.Enabled && c.Mirror.Addr == "" {
		return fmt.Errorf("mirror.addr is required when the mirror is enabled")
	}
	return nil
}

func (c *Config) Tiers() timer.Tiers {
	return timer.Tiers{
		Critical: c.Rotation.Critical,
		Warning:  c.Rotation.Warning,
		Normal:   c.Rotation.Normal,
	}
}

func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
