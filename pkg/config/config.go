// Package config provides configuration loading and management for ccfatlas.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ccfatlas/internal/models"
)

// DatasetConfig locates the raw annotation arrays and declares their extents
type DatasetConfig struct {
	// Name identifies the dataset in logs
	Name string `yaml:"name"`

	// IndexMapFile holds one byte per voxel, zero outside the annotated volume
	IndexMapFile string `yaml:"indexMapFile"`

	// CodesFile holds one little-endian uint16 code per voxel
	CodesFile string `yaml:"codesFile"`

	// IDMapFile holds one little-endian uint32 region id per code
	IDMapFile string `yaml:"idMapFile"`

	// Size is the extent of the volume in voxels
	Size models.Size `yaml:"size"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`

	// Coordinate space parameters
	Space struct {
		// Resolution is the world length of one voxel, in mm
		Resolution float32 `yaml:"resolution"`

		// Origin is the voxel position of the world origin; empty means the
		// centre of the volume
		Origin []float32 `yaml:"origin"`
	} `yaml:"space"`

	// Query parameters
	Query struct {
		// SearchDistance bounds the ray used for surface queries
		SearchDistance float32 `yaml:"searchDistance"`

		// NearestRadius bounds nearest-border lookups, in voxels
		NearestRadius float64 `yaml:"nearestRadius"`
	} `yaml:"query"`

	// Output parameters
	Output struct {
		// SlicesDir is where rendered outline slices are written
		SlicesDir string `yaml:"slicesDir"`

		// SliceScale is the number of pixels per voxel in rendered slices
		SliceScale int `yaml:"sliceScale"`

		// LogLevel is a logrus level name
		LogLevel string `yaml:"logLevel"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Default dataset: the 25 um CCF annotation volume
	cfg.Dataset.Name = "annotation"
	cfg.Dataset.IndexMapFile = "data/data_indexes"
	cfg.Dataset.CodesFile = "data/ann/indexes"
	cfg.Dataset.IDMapFile = "data/ann/indexes_map"
	cfg.Dataset.Size = models.Size{AP: 528, DV: 320, LR: 456}

	cfg.Space.Resolution = 0.025

	cfg.Query.SearchDistance = 400
	cfg.Query.NearestRadius = 10

	cfg.Output.SlicesDir = "border_slices"
	cfg.Output.SliceScale = 2
	cfg.Output.LogLevel = "info"

	return cfg
}

// Validate reports configuration values that cannot be used
func (c *Config) Validate() error {
	if c.Space.Resolution <= 0 {
		return fmt.Errorf("space resolution must be positive, got %v", c.Space.Resolution)
	}
	if len(c.Space.Origin) != 0 && len(c.Space.Origin) != 3 {
		return fmt.Errorf("space origin must have 3 components, got %d", len(c.Space.Origin))
	}
	if c.Query.SearchDistance <= 0 {
		return fmt.Errorf("search distance must be positive, got %v", c.Query.SearchDistance)
	}
	if c.Output.SliceScale < 1 {
		return fmt.Errorf("slice scale must be at least 1, got %d", c.Output.SliceScale)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Relative data paths are resolved against the config file location
	base := filepath.Dir(configPath)
	for _, path := range []*string{&cfg.Dataset.IndexMapFile, &cfg.Dataset.CodesFile, &cfg.Dataset.IDMapFile} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(base, *path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
