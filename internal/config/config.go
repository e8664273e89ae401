package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all blogfeed configuration.
type Config struct {
	// Posts service
	API APIConfig `yaml:"api"`

	// Interactive browser
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the posts service client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // empty or "0s" = no timeout
}

// UIConfig configures the interactive browser.
type UIConfig struct {
	Theme    string `yaml:"theme"`     // auto, light, dark
	WordWrap int    `yaml:"word_wrap"` // post body wrap width
}

// DefaultConfigPath returns the config location for a workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, ".feed", "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},
		UI: UIConfig{
			Theme:    "auto",
			WordWrap: 80,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; env overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FEED_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FEED_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("FEED_THEME"); v != "" {
		c.UI.Theme = v
	}
	switch strings.ToLower(os.Getenv("FEED_DEBUG")) {
	case "1", "true", "yes":
		c.Logging.DebugMode = true
	case "0", "false", "no":
		c.Logging.DebugMode = false
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("api.timeout must not be negative")
		}
	}
	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("ui.theme %q must be auto, light or dark", c.UI.Theme)
	}
	if c.UI.WordWrap < 0 {
		return fmt.Errorf("ui.word_wrap must not be negative")
	}
	return nil
}

// GetTimeout returns the request timeout; zero means unbounded.
func (c APIConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
