// Package config loads socialife settings.
//
// Precedence is defaults, then the YAML file, then a .env file, then the
// process environment.
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
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load returns.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Session SessionConfig `yaml:"session"`
	Report  ReportConfig  `yaml:"report"`
	Log     LogConfig     `yaml:"log"`
}

// DataConfig locates the client metrics tree.
type DataConfig struct {
	// Source is a directory or an http(s) base URL.
	Source           string   `yaml:"source"`
	Timeout          Duration `yaml:"timeout"`
	FetchConcurrency int      `yaml:"fetch_concurrency"`
}

// SessionConfig locates the persisted session edits.
type SessionConfig struct {
	Dir string `yaml:"dir"`
}

// ReportConfig contains report defaults.
type ReportConfig struct {
	Period string `yaml:"period"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Dir returns the configuration directory, overridable with
// SOCIALIFE_CONFIG_DIR.
func Dir() string {
	if dir := os.Getenv("SOCIALIFE_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "socialife")
}

// Path returns the config file location, overridable with
// SOCIALIFE_CONFIG_PATH.
func Path() string {
	return getEnv("SOCIALIFE_CONFIG_PATH", filepath.Join(Dir(), "config.yaml"))
}

// Load loads configuration with precedence: defaults → YAML file → .env → env vars.
func Load() (*Config, error) {
	cfg := newDefaults()

	if err := loadYAMLFile(cfg, Path()); err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific path, which must exist.
// The .env file and env vars still apply on top.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDefaults() *Config {
	return &Config{
		Data: DataConfig{
			Source:           "./data",
			Timeout:          Duration(10 * time.Second),
			FetchConcurrency: 4,
		},
		Session: SessionConfig{
			Dir: Dir(),
		},
		Report: ReportConfig{
			Period: "January 2026",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// loadDotEnv exports variables from a .env file without overriding the
// process environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SOCIALIFE_DATA"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("SOCIALIFE_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Data.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("SOCIALIFE_FETCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Data.FetchConcurrency = n
		}
	}

	if v := os.Getenv("SOCIALIFE_SESSION_DIR"); v != "" {
		cfg.Session.Dir = v
	}
	if v := os.Getenv("SOCIALIFE_REPORT_PERIOD"); v != "" {
		cfg.Report.Period = v
	}

	if v := os.Getenv("SOCIALIFE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SOCIALIFE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Data.Source) == "" {
		return errors.New("data.source is required")
	}
	if c.Data.Timeout <= 0 {
		return fmt.Errorf("data.timeout must be positive, got %s", time.Duration(c.Data.Timeout))
	}
	if c.Data.FetchConcurrency <= 0 {
		return fmt.Errorf("data.fetch_concurrency must be positive, got %d", c.Data.FetchConcurrency)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	c.Session.Dir = expandHome(c.Session.Dir)
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
