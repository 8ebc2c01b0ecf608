// Package config loads tt settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"timetrack/internal/report"
	"timetrack/internal/timeutil"
	"timetrack/internal/util"
)

// Config holds every setting. Zero values are replaced by Default.
type Config struct {
	Database     string        `yaml:"database"`
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	Timezone     string        `yaml:"timezone"`
	WeekStart    string        `yaml:"week_start"`
	Threshold    time.Duration `yaml:"threshold"`
	BusinessDays bool          `yaml:"business_days"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:  filepath.Join(dataDir(), "tt", "tt.db"),
		Addr:      ":8080",
		LogLevel:  "warn",
		Timezone:  "Local",
		WeekStart: "monday",
		Threshold: report.DefaultThreshold,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/tt/config.yaml, or ~/.config/tt/config.yaml.
func DefaultPath() string {
	return filepath.Join(configDir(), "tt", "config.yaml")
}

// Load reads the file at path over the defaults, then applies TT_*
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Database = util.EnvOrDefault("TT_DB", c.Database)
	c.Addr = util.EnvOrDefault("TT_ADDR", c.Addr)
	c.LogLevel = util.EnvOrDefault("TT_LOG_LEVEL", c.LogLevel)
	c.Timezone = util.EnvOrDefault("TT_TIMEZONE", c.Timezone)
	c.WeekStart = util.EnvOrDefault("TT_WEEK_START", c.WeekStart)

	var err error
	if c.Threshold, err = util.EnvDuration("TT_THRESHOLD", c.Threshold); err != nil {
		return err
	}
	if c.BusinessDays, err = util.EnvBool("TT_BUSINESS_DAYS", c.BusinessDays); err != nil {
		return err
	}
	return nil
}

// Validate checks that every field can be interpreted.
func (c Config) Validate() error {
	if c.Database == "" {
		return errors.New("database path is empty")
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold %s is negative", c.Threshold)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. "Local" and "" select the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Weekday resolves WeekStart.
func (c Config) Weekday() (time.Weekday, error) {
	return timeutil.ParseWeekday(c.WeekStart)
}

// Level resolves LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Write stores c as YAML at path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}
