package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/muurk/bluetui/internal/logging"
)

// Config is the contents of config.yaml.
type Config struct {
	// Adapter names the controller to use ("hci0"). Empty means the first
	// adapter BlueZ reports.
	Adapter string `yaml:"adapter,omitempty"`

	// LogFile is where logs are appended.
	LogFile string `yaml:"log_file,omitempty"`

	// LogLevel is debug, info, warn or error. Empty defers to
	// BLUETUI_LOG_LEVEL.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LogFile: logging.DefaultFile,
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Adapter != "" && strings.ContainsAny(c.Adapter, "/ ") {
		return fmt.Errorf("adapter %q: want a controller name like hci0", c.Adapter)
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path. A missing file yields Default().
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = logging.DefaultFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}
