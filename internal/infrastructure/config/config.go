package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the variable pointing at an optional TOML config file
const FileEnv = "CONFIG_FILE"

// Storage backends accepted by StorageConfig.Backend
var backends = map[string]bool{"memory": true, "file": true, "sqlite": true, "redis": true}

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Storage   StorageConfig   `toml:"storage"`
	Session   SessionConfig   `toml:"session"`
	Shell     ShellConfig     `toml:"shell"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string   `envconfig:"PORT" toml:"port"`
	Host            string   `envconfig:"HOST" toml:"host"`
	AllowedOrigins  []string `envconfig:"CORS_ORIGINS" toml:"allowed_origins"`
	ShutdownTimeout Duration `envconfig:"SHUTDOWN_TIMEOUT" toml:"shutdown_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development"`
	File        string `envconfig:"LOG_FILE" toml:"file"`
	MaxSizeMB   int    `envconfig:"LOG_MAX_SIZE_MB" toml:"max_size_mb"`
	MaxBackups  int    `envconfig:"LOG_MAX_BACKUPS" toml:"max_backups"`
	MaxAgeDays  int    `envconfig:"LOG_MAX_AGE_DAYS" toml:"max_age_days"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" toml:"enabled"`
}

// StorageConfig selects and tunes the key-value backend.
type StorageConfig struct {
	Backend         string   `envconfig:"STORAGE_BACKEND" toml:"backend"`
	Path            string   `envconfig:"STORAGE_PATH" toml:"path"`
	Compress        bool     `envconfig:"STORAGE_COMPRESS" toml:"compress"`
	RedisAddr       string   `envconfig:"REDIS_ADDR" toml:"redis_addr"`
	RedisPassword   string   `envconfig:"REDIS_PASSWORD" toml:"redis_password"`
	RedisDB         int      `envconfig:"REDIS_DB" toml:"redis_db"`
	RedisPrefix     string   `envconfig:"REDIS_PREFIX" toml:"redis_prefix"`
	BreakerFailures uint32   `envconfig:"BREAKER_FAILURES" toml:"breaker_failures"`
	BreakerTimeout  Duration `envconfig:"BREAKER_TIMEOUT" toml:"breaker_timeout"`
}

// SessionConfig holds desktop session timing and limits.
type SessionConfig struct {
	DefaultName     string   `envconfig:"SESSION_DEFAULT" toml:"default_name"`
	AutoBoot        bool     `envconfig:"SESSION_AUTO_BOOT" toml:"auto_boot"`
	BootDelay       Duration `envconfig:"BOOT_DELAY" toml:"boot_delay"`
	RestartDelay    Duration `envconfig:"RESTART_DELAY" toml:"restart_delay"`
	PersistInterval Duration `envconfig:"PERSIST_INTERVAL" toml:"persist_interval"`
	MaxWindows      int      `envconfig:"MAX_WINDOWS" toml:"max_windows"`
}

// ShellConfig holds the environment reported by the simulated shell.
type ShellConfig struct {
	User     string `envconfig:"SHELL_USER" toml:"user"`
	Home     string `envconfig:"SHELL_HOME" toml:"home"`
	Hostname string `envconfig:"SHELL_HOSTNAME" toml:"hostname"`
}

// Load loads configuration from defaults, the CONFIG_FILE TOML file, a
// .env file in the working directory and the process environment, in that
// order of precedence (lowest first).
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with explicit dotenv files. Missing dotenv files are skipped.
func LoadFrom(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := Default()
	if file := os.Getenv(FileEnv); file != "" {
		if err := cfg.MergeFile(file); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// MergeFile overlays the values present in a TOML file
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch {
	case c.Server.Port == "":
		return errors.New("config: server port is empty")
	case !backends[c.Storage.Backend]:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	case c.Storage.Backend == "redis" && c.Storage.RedisAddr == "":
		return errors.New("config: redis backend needs REDIS_ADDR")
	case c.Session.MaxWindows <= 0:
		return fmt.Errorf("config: max windows must be positive, got %d", c.Session.MaxWindows)
	case c.Session.PersistInterval <= 0:
		return errors.New("config: persist interval must be positive")
	case c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0):
		return errors.New("config: rate limit needs positive rps and burst")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			MaxSizeMB:   100,
			MaxBackups:  3,
			MaxAgeDays:  28,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Storage: StorageConfig{
			Backend:         "file",
			Path:            "data",
			RedisPrefix:     "webos",
			BreakerFailures: 5,
			BreakerTimeout:  Duration(30 * time.Second),
		},
		Session: SessionConfig{
			DefaultName:     "default",
			AutoBoot:        true,
			BootDelay:       Duration(2 * time.Second),
			RestartDelay:    Duration(500 * time.Millisecond),
			PersistInterval: Duration(5 * time.Second),
			MaxWindows:      10,
		},
		Shell: ShellConfig{
			User:     "user",
			Home:     "/home/user",
			Hostname: "webos",
		},
	}
}
