package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for one forceops invocation.
//
// MaxRetries counts retries, not attempts: five retries means six total
// attempts. RetryDelayMs is applied between attempts, never before the
// first or after the last.
type Config struct {
	MaxRetries     uint `yaml:"max_retries" json:"max_retries"`
	RetryDelayMs   uint `yaml:"retry_delay_ms" json:"retry_delay_ms"`
	DisableElevate bool `yaml:"disable_elevate" json:"disable_elevate"`

	// HistoryDBPath enables the sqlite deletion-history log when set.
	HistoryDBPath string `yaml:"history_db_path" json:"history_db_path"`

	// MetricsTextfile enables writing prometheus counters to a
	// textfile-collector file at exit when set.
	MetricsTextfile string `yaml:"metrics_textfile" json:"metrics_textfile"`

	// ProtectedPaths are additional prefixes the safety validator
	// refuses to delete, on top of the built-in system paths.
	ProtectedPaths []string `yaml:"protected_paths" json:"protected_paths"`
}

// fileConfig mirrors Config with pointer fields so an omitted key can
// be told apart from an explicit zero (max_retries: 0 is meaningful).
type fileConfig struct {
	MaxRetries      *uint    `yaml:"max_retries"`
	RetryDelayMs    *uint    `yaml:"retry_delay_ms"`
	DisableElevate  *bool    `yaml:"disable_elevate"`
	HistoryDBPath   *string  `yaml:"history_db_path"`
	MetricsTextfile *string  `yaml:"metrics_textfile"`
	ProtectedPaths  []string `yaml:"protected_paths"`
}

var errInvalidProtected = errors.New("protected path must be absolute")

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		MaxRetries:   10,
		RetryDelayMs: 50,
	}
}

// Load reads a YAML config file and merges it over the defaults. A
// missing file is not an error: the defaults are returned so the tool
// works with zero setup.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return decode(f)
}

func decode(r io.Reader) (*Config, error) {
	fc := &fileConfig{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(fc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	cfg := Default()
	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.RetryDelayMs != nil {
		cfg.RetryDelayMs = *fc.RetryDelayMs
	}
	if fc.DisableElevate != nil {
		cfg.DisableElevate = *fc.DisableElevate
	}
	if fc.HistoryDBPath != nil {
		cfg.HistoryDBPath = *fc.HistoryDBPath
	}
	if fc.MetricsTextfile != nil {
		cfg.MetricsTextfile = *fc.MetricsTextfile
	}
	cfg.ProtectedPaths = fc.ProtectedPaths

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.ProtectedPaths) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(c.ProtectedPaths))
	for _, p := range c.ProtectedPaths {
		cp := filepath.Clean(p)
		if !filepath.IsAbs(cp) {
			return fmt.Errorf("%w: %s", errInvalidProtected, p)
		}
		cleaned = append(cleaned, cp)
	}
	c.ProtectedPaths = cleaned
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "forceops", "config.yaml")
}

// RetryDelay returns the inter-attempt delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}
