// Package config loads valweek settings from a TOML file, an optional .env
// file and VALWEEK_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/utils"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "VALWEEK_"

// Schedule controls when each themed day unlocks.
type Schedule struct {
	Year                 int    `toml:"year"`
	Timezone             string `toml:"timezone"`
	DemoCountdownSeconds int    `toml:"demo_countdown_seconds"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr         string `toml:"addr"`
	ShareBaseURL string `toml:"share_base_url"`
}

// Redis configures the shared preview-session store. An empty Addr keeps
// sessions in process memory.
type Redis struct {
	Addr       string `toml:"addr"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Logging mirrors logger.Config.
type Logging struct {
	Debug bool   `toml:"debug"`
	Level string `toml:"level"`
}

// Database selects the storage backend. A postgres:// URL selects PostgreSQL,
// anything else is treated as a SQLite file path.
type Database struct {
	Path string `toml:"path"`
}

// Config is the top-level configuration document.
type Config struct {
	Schedule Schedule `toml:"schedule"`
	Server   Server   `toml:"server"`
	Redis    Redis    `toml:"redis"`
	Logging  Logging  `toml:"logging"`
	Database Database `toml:"database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Schedule: Schedule{
			Year:                 constants.DefaultScheduleYear,
			Timezone:             "Local",
			DemoCountdownSeconds: int(constants.DefaultDemoCountdown / time.Second),
		},
		Server: Server{
			Addr:         constants.DefaultServerAddr,
			ShareBaseURL: constants.DefaultShareURL,
		},
		Redis: Redis{
			TTLSeconds: int((24 * time.Hour) / time.Second),
		},
		Database: Database{
			Path: constants.DefaultConfigPath,
		},
	}
}

// Load reads the file at path (or the default location when path is empty),
// applies .env and environment overrides and validates the result. A missing
// file is not an error; the returned bool reports whether one was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", false, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = constants.DefaultConfigFile
	}
	return ExpandPath(path)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("TIMEZONE", &c.Schedule.Timezone)
	str("SERVER_ADDR", &c.Server.Addr)
	str("SHARE_BASE_URL", &c.Server.ShareBaseURL)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("LOG_LEVEL", &c.Logging.Level)
	str("DATABASE", &c.Database.Path)

	for name, dst := range map[string]*int{
		"SCHEDULE_YEAR":  &c.Schedule.Year,
		"DEMO_COUNTDOWN": &c.Schedule.DemoCountdownSeconds,
		"REDIS_DB":       &c.Redis.DB,
		"REDIS_TTL":      &c.Redis.TTLSeconds,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvPrefix + "DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", EnvPrefix, err)
		}
		c.Logging.Debug = debug
	}
	return nil
}

func (c *Config) normalize() error {
	c.Server.ShareBaseURL = strings.TrimRight(strings.TrimSpace(c.Server.ShareBaseURL), "/")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Database.Path != "" && !IsPostgresURL(c.Database.Path) {
		expanded, err := ExpandPath(c.Database.Path)
		if err != nil {
			return err
		}
		c.Database.Path = expanded
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Schedule.Year < 2000 || c.Schedule.Year > 9999 {
		return fmt.Errorf("schedule.year must be a four-digit year, got %d", c.Schedule.Year)
	}
	if !utils.ValidateTimezone(c.Schedule.Timezone) {
		return fmt.Errorf("schedule.timezone %q is not a valid IANA timezone", c.Schedule.Timezone)
	}
	if c.Schedule.DemoCountdownSeconds <= 0 {
		return errors.New("schedule.demo_countdown_seconds must be positive")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if c.Redis.DB < 0 {
		return errors.New("redis.db must not be negative")
	}
	if c.Redis.TTLSeconds < 0 {
		return errors.New("redis.ttl_seconds must not be negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// Location returns the schedule's time zone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Schedule.Timezone)
}

// DemoCountdown is the preview-mode countdown as a duration.
func (c *Config) DemoCountdown() time.Duration {
	return time.Duration(c.Schedule.DemoCountdownSeconds) * time.Second
}

// RedisTTL is the preview-session expiry as a duration.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// IsPostgresURL reports whether s names a PostgreSQL connection.
func IsPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// ExpandPath resolves a leading "~" and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// WriteSample writes the default configuration as TOML to path, creating
// parent directories. An existing file is left untouched.
func WriteSample(path string) (bool, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(expanded); err == nil {
		return false, nil
	}

	cfg := Default()
	data, err := toml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encode sample config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o600); err != nil {
		return false, fmt.Errorf("write sample config: %w", err)
	}
	return true, nil
}
