// Package config provides configuration loading and management for tucker3d.
// It handles loading configuration from YAML files and provides default
// values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Ranks holds the per-axis rank of the decomposition
	Ranks struct {
		// J1 is the reduced extent of the first axis
		J1 int `yaml:"j1"`

		// J2 is the reduced extent of the second axis
		J2 int `yaml:"j2"`

		// J3 is the reduced extent of the third axis
		J3 int `yaml:"j3"`
	} `yaml:"ranks"`

	// HOOI holds the stopping rule of the refinement loop
	HOOI struct {
		// MaxIterations caps the number of alternating-least-squares passes
		MaxIterations int `yaml:"maxIterations"`

		// MinImprovement is the Frobenius-norm gain below which the loop stops
		MinImprovement float64 `yaml:"minImprovement"`
	} `yaml:"hooi"`

	// Denoise holds the optional FFT low-pass preprocessing parameters
	Denoise struct {
		// Enabled turns the low-pass filter on
		Enabled bool `yaml:"enabled"`

		// Cutoff is the kept fraction of the spectrum, in (0, 1]
		Cutoff float64 `yaml:"cutoff"`
	} `yaml:"denoise"`

	// Output parameters
	Output struct {
		// SaveSlices determines whether reconstructed slice images are written
		SaveSlices bool `yaml:"saveSlices"`

		// SlicesDir is the directory for reconstructed slice images
		SlicesDir string `yaml:"slicesDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Ranks default to zero and are normally set per run; the CLI treats
	// zero as "full rank along that axis".
	cfg.HOOI.MaxIterations = 3
	cfg.HOOI.MinImprovement = 0.1

	cfg.Denoise.Enabled = false
	cfg.Denoise.Cutoff = 0.5

	cfg.Output.SaveSlices = false
	cfg.Output.SlicesDir = "reconstructed_slices"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
