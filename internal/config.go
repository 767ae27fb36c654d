package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultTimeout   = 2 * time.Minute
	DefaultExportDir = "./exports"
)

// Config holds client settings read from the YAML config file
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	ExportDir string        `yaml:"export_dir"`
	Markdown  bool          `yaml:"markdown"`
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		ExportDir: DefaultExportDir,
		Markdown:  true,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/ragchat/config.yaml (or the platform equivalent)
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ragchat", "config.yaml"), nil
}

// LoadConfig reads the config file at path. An empty path means the default
// location, which is allowed to be missing; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			LogDebug("No user config dir: %v", err)
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			LogDebug("No config file at %s, using defaults", path)
			return cfg, nil
		}
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	LogDebug("Loaded config from %s", path)
	return cfg, nil
}

// Validate checks that the settings are usable
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.ExportDir == "" {
		c.ExportDir = DefaultExportDir
	}
	return nil
}
