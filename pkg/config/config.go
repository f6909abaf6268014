// Package config provides configuration loading and management for hyperspec.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Analysis parameters forwarded to the routine registry
	Analysis struct {
		// NumComponents is the default component count for
		// decomposition operations
		NumComponents int `yaml:"numComponents"`

		// NumClusters is the default cluster/mixture component count
		NumClusters int `yaml:"numClusters"`

		// MaxIterations bounds iterative routines
		MaxIterations int `yaml:"maxIterations"`

		// Tolerance is the convergence threshold for iterative routines
		Tolerance float64 `yaml:"tolerance"`

		// Seed initialises pseudo-random starting points
		Seed int64 `yaml:"seed"`
	} `yaml:"analysis"`

	// Preprocess parameters applied before analysis
	Preprocess struct {
		// SavGolWindow is the Savitzky-Golay window length (odd)
		SavGolWindow int `yaml:"savGolWindow"`

		// SavGolOrder is the Savitzky-Golay polynomial order
		SavGolOrder int `yaml:"savGolOrder"`

		// GaussianSigma is the gaussian smoothing width in spectral points
		GaussianSigma float64 `yaml:"gaussianSigma"`
	} `yaml:"preprocess"`

	// Output parameters
	Output struct {
		// Dir is the directory where results are written
		Dir string `yaml:"dir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default analysis parameters
	cfg.Analysis.NumComponents = 4
	cfg.Analysis.NumClusters = 4
	cfg.Analysis.MaxIterations = 100
	cfg.Analysis.Tolerance = 1e-4
	cfg.Analysis.Seed = 1

	// Set default preprocessing parameters
	cfg.Preprocess.SavGolWindow = 5
	cfg.Preprocess.SavGolOrder = 3
	cfg.Preprocess.GaussianSigma = 0.5

	// Set default output parameters
	cfg.Output.Dir = "results"
	cfg.Output.Verbose = true

	return cfg
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
