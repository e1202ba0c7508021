// Package config handles the .xmlbind.yaml command line configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"xmlbind/diagnostic"
	"xmlbind/internal/logging"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// DefaultFilename is looked up in the working directory when no config path
// is given.
const DefaultFilename = ".xmlbind.yaml"

// Config represents the .xmlbind.yaml file. Command line flags override it.
type Config struct {
	Version int `yaml:"version"`
	// Schema is the path of the YAML schema file.
	Schema string `yaml:"schema,omitempty"`
	// Mode is the anomaly mode, "collect" or "fail-fast".
	Mode string `yaml:"mode,omitempty"`
	// Indent is the per-level indentation of written documents.
	Indent string `yaml:"indent,omitempty"`
	// Prefixes maps namespace URIs to the prefixes written documents use.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
	Log      Log               `yaml:"log,omitempty"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Mode:    diagnostic.ModeCollect.String(),
		Log: Log{
			Level:  "warn",
			Format: logging.FormatConsole,
		},
	}
}

// Load reads a Config from a file path. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return enc.Close()
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != CurrentConfigVersion {
		errs = append(errs, fmt.Errorf("unsupported config version %d", c.Version))
	}

	if _, err := diagnostic.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}

	for uri, prefix := range c.Prefixes {
		if uri == "" || prefix == "" {
			errs = append(errs, errors.New("prefixes need a namespace and a prefix"))
			break
		}
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("invalid log level: %w", err))
		}
	}

	switch c.Log.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// AnomalyMode returns the parsed anomaly mode. Call Validate first.
func (c *Config) AnomalyMode() diagnostic.Mode {
	m, _ := diagnostic.ParseMode(c.Mode)
	return m
}
