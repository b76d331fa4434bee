// Package config loads reasoner settings from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-reasoner/pkg/validation"
)

// Config represents the complete reasoner configuration
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
	Export ExportConfig `yaml:"export"`
	Batch  BatchConfig  `yaml:"batch"`
}

// EngineConfig configures the completion fixpoint
type EngineConfig struct {
	// Mode is "concurrent" (two queue workers) or "sequential"
	Mode string `yaml:"mode" validate:"oneof=concurrent sequential"`
	// CheckpointInterval is the number of processed entries between cancellation checks
	CheckpointInterval int `yaml:"checkpoint_interval" validate:"gte=1"`
	// Timeout bounds a single run; zero means no limit
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// CacheConfig configures the classification result cache
type CacheConfig struct {
	// Size is the number of results kept; zero disables the cache
	Size int `yaml:"size" validate:"gte=0,lte=100000"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// ExportConfig configures hierarchy snapshots
type ExportConfig struct {
	// Compress wraps snapshots in snappy framing
	Compress bool `yaml:"compress"`
	// Indent pretty-prints uncompressed snapshots
	Indent bool `yaml:"indent"`
}

// BatchConfig configures batch classification
type BatchConfig struct {
	Workers int `yaml:"workers" validate:"gte=1,lte=1024"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Mode:               "concurrent",
			CheckpointInterval: 1024,
		},
		Cache: CacheConfig{
			Size: 16,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Indent: true,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults and validates it
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load returns the defaults when path is empty, otherwise the file's configuration
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFromFile(path)
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
