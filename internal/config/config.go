package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	DefaultChunkSize = 1024
)

type Config struct {
	// Exclude holds gitignore-style patterns matched against paths relative
	// to each scanned root.
	Exclude   []string `yaml:"exclude"`
	ChunkSize int      `yaml:"chunk_size"`
	Format    string   `yaml:"format"`
	LogLevel  string   `yaml:"log_level"`
	Progress  bool     `yaml:"progress"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:   []string{},
		ChunkSize: DefaultChunkSize,
		Format:    FormatText,
		LogLevel:  "warn",
	}
}

// LoadConfig reads path over the defaults. An empty path or a missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (for explicit `exclude:` with no items)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	return cfg, nil
}

// Validate rejects settings the scanner cannot run with.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	return nil
}
