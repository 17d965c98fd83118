package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/valweek/internal/constants"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Error("Load() reported an existing file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Schedule.Year != constants.DefaultScheduleYear {
		t.Errorf("Schedule.Year = %d, want %d", cfg.Schedule.Year, constants.DefaultScheduleYear)
	}
	if cfg.DemoCountdown() != constants.DefaultDemoCountdown {
		t.Errorf("DemoCountdown() = %v, want %v", cfg.DemoCountdown(), constants.DefaultDemoCountdown)
	}
	if cfg.Server.Addr != constants.DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, constants.DefaultServerAddr)
	}
	if !filepath.IsAbs(cfg.Database.Path) {
		t.Errorf("Database.Path = %q, want absolute path", cfg.Database.Path)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[schedule]
year = 2027
timezone = "Asia/Kolkata"
demo_countdown_seconds = 5

[server]
addr = "127.0.0.1:9090"
share_base_url = "https://love.example.com/"

[redis]
addr = "localhost:6379"
db = 2

[database]
path = "postgres://valweek@db/valweek"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists {
		t.Error("Load() did not report the file as existing")
	}
	if cfg.Schedule.Year != 2027 || cfg.Schedule.Timezone != "Asia/Kolkata" {
		t.Errorf("Schedule = %+v", cfg.Schedule)
	}
	if cfg.DemoCountdown() != 5*time.Second {
		t.Errorf("DemoCountdown() = %v, want 5s", cfg.DemoCountdown())
	}
	if cfg.Server.ShareBaseURL != "https://love.example.com" {
		t.Errorf("ShareBaseURL = %q, want trailing slash trimmed", cfg.Server.ShareBaseURL)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	// Unset keys keep their defaults.
	if cfg.RedisTTL() != 24*time.Hour {
		t.Errorf("RedisTTL() = %v, want 24h", cfg.RedisTTL())
	}
	if cfg.Database.Path != "postgres://valweek@db/valweek" {
		t.Errorf("Database.Path = %q, postgres URLs must not be expanded", cfg.Database.Path)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[schedule\nyear = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Error("Load() expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VALWEEK_SCHEDULE_YEAR", "2030")
	t.Setenv("VALWEEK_SERVER_ADDR", ":7000")
	t.Setenv("VALWEEK_DEBUG", "true")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Schedule.Year != 2030 {
		t.Errorf("Schedule.Year = %d, want 2030", cfg.Schedule.Year)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
	}
	if !cfg.Logging.Debug {
		t.Error("Logging.Debug = false, want true")
	}
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := Default()
	lookup := func(key string) (string, bool) {
		if key == "VALWEEK_REDIS_DB" {
			return "two", true
		}
		return "", false
	}
	if err := cfg.applyEnv(lookup); err == nil {
		t.Error("applyEnv() expected error for non-numeric value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad year", func(c *Config) { c.Schedule.Year = 26 }, true},
		{"bad timezone", func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }, true},
		{"zero countdown", func(c *Config) { c.Schedule.DemoCountdownSeconds = 0 }, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"negative redis db", func(c *Config) { c.Redis.DB = -1 }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"known log level", func(c *Config) { c.Logging.Level = "info" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/valweek/db.sqlite", filepath.Join(home, "valweek", "db.sqlite")},
		{"/tmp/../tmp/x.db", "/tmp/x.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	created, err := WriteSample(path)
	if err != nil || !created {
		t.Fatalf("WriteSample() = (%v, %v), want (true, nil)", created, err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load(sample) error = %v", err)
	}
	if !exists || cfg.Schedule.Year != constants.DefaultScheduleYear {
		t.Errorf("sample round trip: exists=%v year=%d", exists, cfg.Schedule.Year)
	}

	created, err = WriteSample(path)
	if err != nil || created {
		t.Errorf("second WriteSample() = (%v, %v), want (false, nil)", created, err)
	}
}

func TestIsPostgresURL(t *testing.T) {
	if !IsPostgresURL("postgresql://host/db") || !IsPostgresURL("postgres://host/db") {
		t.Error("IsPostgresURL() rejected a postgres URL")
	}
	if IsPostgresURL("/var/lib/valweek.db") {
		t.Error("IsPostgresURL() accepted a file path")
	}
}
