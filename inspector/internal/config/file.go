// Package config handles inspector configuration from YAML files or SQLite.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level inspector configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Format  FormatConfig  `yaml:"format"`
	// FrameworkLabels enables React component labels. Default: true.
	FrameworkLabels *bool `yaml:"framework_labels"`
	// NotifyDuration is how long page toasts stay up. Default: 2s.
	NotifyDuration time.Duration `yaml:"notify_duration"`
	// NotifyJSON also writes notifications to stderr as JSON lines.
	NotifyJSON bool     `yaml:"notify_json"`
	Targets    []Target `yaml:"targets"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote           string        `yaml:"remote"`
	Headless         bool          `yaml:"headless"`
	MemoryLimit      int64         `yaml:"memory_limit"`
	RecycleInterval  time.Duration `yaml:"recycle_interval"`
	ResourceBlocking []string      `yaml:"resource_blocking"`
	XvfbDisplay      string        `yaml:"xvfb_display"` // non-empty = headful under Xvfb
}

// FormatConfig selects the output layout.
type FormatConfig struct {
	Kind     string `yaml:"kind"` // compact | verbose | keyvalue
	Synopsis bool   `yaml:"synopsis"`
	Markdown bool   `yaml:"markdown"`
}

// Target is a page to inspect.
type Target struct {
	ID     string `yaml:"id"`
	URL    string `yaml:"url"`
	Format string `yaml:"format"` // overrides Format.Kind
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Labels reports whether framework labels are enabled.
func (c *Config) Labels() bool {
	return c.FrameworkLabels == nil || *c.FrameworkLabels
}

func (c *Config) applyDefaults() {
	if c.Browser.MemoryLimit <= 0 {
		c.Browser.MemoryLimit = 1 << 30
	}
	if c.Browser.RecycleInterval <= 0 {
		c.Browser.RecycleInterval = 4 * time.Hour
	}
	if c.Format.Kind == "" {
		c.Format.Kind = "compact"
	}
	if c.NotifyDuration <= 0 {
		c.NotifyDuration = 2 * time.Second
	}
	for i := range c.Targets {
		if c.Targets[i].ID == "" {
			c.Targets[i].ID = fmt.Sprintf("target-%d", i+1)
		}
	}
}
