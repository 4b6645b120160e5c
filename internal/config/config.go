package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	State   StateConfig   `toml:"state"`
	Log     LogConfig     `toml:"log"`
	Audit   AuditConfig   `toml:"audit"`
}

// StorageConfig selects the key-value backend.
// This uses a tagged union pattern - Backend determines which other fields are relevant.
type StorageConfig struct {
	Backend string      `toml:"backend"` // "file", "sqlite", "redis" or "memory"
	Path    string      `toml:"path"`    // directory for file, database path for sqlite
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr           string   `toml:"addr"`
	Username       string   `toml:"username,omitempty"`
	Password       string   `toml:"password,omitempty"`
	DB             int      `toml:"db"`
	Prefix         string   `toml:"prefix"`
	ConnectTimeout Duration `toml:"connect_timeout"`
	RetryInterval  Duration `toml:"retry_interval"`
	MaxWait        Duration `toml:"max_wait"`
	PingTimeout    Duration `toml:"ping_timeout"`
}

// StateConfig tunes the optimistic state manager.
type StateConfig struct {
	Latency         Duration `toml:"latency"`  // delay before a mutation is confirmed
	Debounce        Duration `toml:"debounce"` // search box idle window
	SimulateFailure bool     `toml:"simulate_failure"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
	File   string `toml:"file"`
}

// AuditConfig controls `vault audit`.
type AuditConfig struct {
	ExcludeDomains []string `toml:"exclude_domains"`
	Concurrency    int      `toml:"concurrency"`
	Timeout        Duration `toml:"timeout"`
}

// Duration wraps time.Duration so it reads and writes as "300ms" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// DefaultDir returns ~/.config/vault.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "vault"), nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/vault/config.toml
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultConfig returns the default configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(dir, "data"),
			Redis: RedisConfig{
				Addr:           "localhost:6379",
				Prefix:         "vault:",
				ConnectTimeout: Duration{10 * time.Second},
				RetryInterval:  Duration{500 * time.Millisecond},
				MaxWait:        Duration{5 * time.Second},
				PingTimeout:    Duration{2 * time.Second},
			},
		},
		State: StateConfig{
			Latency:  Duration{0},
			Debounce: Duration{300 * time.Millisecond},
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "vault.log"),
		},
		Audit: AuditConfig{
			ExcludeDomains: []string{"github.com", "gitlab.com"},
			Concurrency:    10,
			Timeout:        Duration{10 * time.Second},
		},
	}
}

// Read decodes a Config from r without applying defaults.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes cfg to w.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads config from path, creating the file with defaults if it doesn't
// exist. Missing fields fall back to defaults and VAULT_* environment
// variables override the file.
func Load(path string) (*Config, error) {
	defaults := DefaultConfig(filepath.Dir(path))

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		cfg := defaults
		// Non-fatal: defaults are usable even if the file can't be written
		_ = Save(path, &cfg)
		applyEnv(&cfg)
		return &cfg, nil
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	applyDefaults(cfg, defaults)
	applyEnv(cfg)
	return cfg, nil
}

// Save writes config to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	return Write(f, cfg)
}

// Init writes a fresh default config, refusing to overwrite an existing one.
func Init(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("config file already exists at %s", path)
	}
	cfg := DefaultConfig(filepath.Dir(path))
	if err := Save(path, &cfg); err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config, d Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = d.Storage.Backend
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = d.Storage.Path
	}
	r, dr := &cfg.Storage.Redis, d.Storage.Redis
	if r.Addr == "" {
		r.Addr = dr.Addr
	}
	if r.Prefix == "" {
		r.Prefix = dr.Prefix
	}
	if r.ConnectTimeout.Duration == 0 {
		r.ConnectTimeout = dr.ConnectTimeout
	}
	if r.RetryInterval.Duration == 0 {
		r.RetryInterval = dr.RetryInterval
	}
	if r.MaxWait.Duration == 0 {
		r.MaxWait = dr.MaxWait
	}
	if r.PingTimeout.Duration == 0 {
		r.PingTimeout = dr.PingTimeout
	}
	if cfg.State.Debounce.Duration == 0 {
		cfg.State.Debounce = d.State.Debounce
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = d.Log.File
	}
	if cfg.Audit.ExcludeDomains == nil {
		cfg.Audit.ExcludeDomains = d.Audit.ExcludeDomains
	}
	if cfg.Audit.Concurrency <= 0 {
		cfg.Audit.Concurrency = d.Audit.Concurrency
	}
	if cfg.Audit.Timeout.Duration == 0 {
		cfg.Audit.Timeout = d.Audit.Timeout
	}
}

func applyEnv(cfg *Config) {
	cfg.Storage.Backend = getenv("VAULT_STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Path = getenv("VAULT_STORAGE_PATH", cfg.Storage.Path)
	cfg.Storage.Redis.Addr = getenv("VAULT_REDIS_ADDR", cfg.Storage.Redis.Addr)
	cfg.Storage.Redis.Username = getenv("VAULT_REDIS_USERNAME", cfg.Storage.Redis.Username)
	cfg.Storage.Redis.Password = getenv("VAULT_REDIS_PASSWORD", cfg.Storage.Redis.Password)
	cfg.Storage.Redis.DB = getenvInt("VAULT_REDIS_DB", cfg.Storage.Redis.DB)
	cfg.State.Latency.Duration = mustDuration("VAULT_LATENCY", cfg.State.Latency.Duration)
	cfg.State.Debounce.Duration = mustDuration("VAULT_DEBOUNCE", cfg.State.Debounce.Duration)
	cfg.State.SimulateFailure = mustBool("VAULT_SIMULATE_FAILURE", cfg.State.SimulateFailure)
	cfg.Log.Level = getenv("VAULT_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getenv("VAULT_LOG_FILE", cfg.Log.File)
	if v := os.Getenv("VAULT_AUDIT_EXCLUDE"); v != "" {
		cfg.Audit.ExcludeDomains = splitAndTrim(v)
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
