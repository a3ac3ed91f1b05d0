// Package config loads the optional stac.yaml project configuration used by
// the CLI.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is the file looked up in the working directory.
const ConfigFileName = "stac.yaml"

// Config configures schema retrieval for the CLI.
type Config struct {
	// SchemaBase overrides the base URL for core schemas.
	SchemaBase string `yaml:"schema_base,omitempty"`
	// Schemas maps schema URLs to local file paths, serving them without any
	// network access. Overrides win over the core schemas bundled with the
	// binary.
	Schemas map[string]string `yaml:"schemas,omitempty"`
	// Timeout bounds a whole validate call, schema fetches included. Go
	// duration syntax, e.g. "30s".
	Timeout string `yaml:"timeout,omitempty"`
}

// TimeoutDuration parses the configured timeout; zero when unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

// Load reads the config file from dir.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault reads the config file from dir, falling back to an empty
// config when none exists.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Is(err, ErrConfigNotFound) {
		return &Config{}, nil
	}
	return cfg, err
}
