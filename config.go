package forge

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/forge/schema/field"
)

// Config holds build settings that may be loaded from a YAML file.
//
//	key_attempts: 1000
//	log_level: debug
//	profiles:
//	  - testdata/profile.yaml
type Config struct {
	// KeyAttempts bounds the retries of Key providers.
	KeyAttempts int `yaml:"key_attempts,omitempty"`
	// LogLevel enables engine logging to stderr: debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`
	// Profiles lists YAML files of per-type attribute values.
	Profiles []string `yaml:"profiles,omitempty"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{KeyAttempts: field.KeyAttempts}
}

// LoadConfig reads a YAML config file. Missing values take their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("forge: reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("forge: parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.KeyAttempts < 0 {
		return NewConfigError("key_attempts", c.KeyAttempts, "must not be negative")
	}
	if c.LogLevel != "" {
		if _, err := c.Level(); err != nil {
			return err
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, NewConfigError("log_level", c.LogLevel, "unknown level")
	}
	return l, nil
}

// Logger returns a text logger writing to stderr at LogLevel,
// or nil when no level is configured.
func (c *Config) Logger() *slog.Logger {
	if c.LogLevel == "" {
		return nil
	}
	l, err := c.Level()
	if err != nil {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
