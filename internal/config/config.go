// Package config loads mandibot configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"mandibot/internal/scraper"
)

// Config holds all mandibot configuration.
type Config struct {
	// Workspace is the data directory for logs and the local database.
	Workspace string `yaml:"workspace"`

	Vocab      VocabConfig      `yaml:"vocab"`
	Scraper    scraper.Config   `yaml:"scraper"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// VocabConfig points at the commodity and district tables.
type VocabConfig struct {
	CommodityFile string `yaml:"commodity_file"`
	DistrictFile  string `yaml:"district_file"`
	// Watch reloads the tables when the CSV files change on disk.
	Watch bool `yaml:"watch"`
}

// ClassifierConfig configures the remote intent classifier. When disabled,
// the built-in keyword classifier labels turns on its own.
type ClassifierConfig struct {
	Enabled   bool    `yaml:"enabled"`
	BaseURL   string  `yaml:"base_url"`
	Timeout   string  `yaml:"timeout"`
	Threshold float64 `yaml:"threshold"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Workspace: defaultWorkspace(),
		Vocab: VocabConfig{
			CommodityFile: "data/commodities.csv",
			DistrictFile:  "data/districts.csv",
		},
		Scraper: scraper.DefaultConfig(),
		Classifier: ClassifierConfig{
			Enabled:   false,
			BaseURL:   "http://localhost:8001",
			Timeout:   "5s",
			Threshold: 0.5,
		},
		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

func defaultWorkspace() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".mandibot")
}

// Load reads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if ws := os.Getenv("MANDIBOT_WORKSPACE"); ws != "" {
		c.Workspace = ws
	}
	if url := os.Getenv("MANDIBOT_CLASSIFIER_URL"); url != "" {
		c.Classifier.BaseURL = url
		c.Classifier.Enabled = true
	}
	if endpoint := os.Getenv("MANDIBOT_PORTAL_URL"); endpoint != "" {
		c.Scraper.Endpoint = endpoint
	}
}

// ClassifierTimeout parses the classifier timeout, defaulting to 5s.
func (c *Config) ClassifierTimeout() time.Duration {
	d, err := time.ParseDuration(c.Classifier.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
