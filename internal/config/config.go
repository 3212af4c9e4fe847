// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/7mit3/BidFix-sub000/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Estimating contains estimating defaults
	Estimating EstimatingConfig `json:"estimating"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Export contains export configuration
	Export ExportConfig `json:"export"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EstimatingConfig contains estimating defaults
type EstimatingConfig struct {
	// DefaultSystem is the roofing system assumed when a job does not name one
	DefaultSystem string `json:"default_system"`

	// TaxPercent is the default sales tax applied to each section
	TaxPercent float64 `json:"tax_percent"`

	// ProfitPercent is the default profit margin applied to each section
	ProfitPercent float64 `json:"profit_percent"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// DatabasePath is the path to the price override database
	DatabasePath string `json:"database_path"`

	// Currency is the currency code reported on estimates
	Currency string `json:"currency"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address for the API server
	Addr string `json:"addr"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds"`
}

// ExportConfig contains export-related settings
type ExportConfig struct {
	// Directory is where exported estimate files are written
	Directory string `json:"directory"`

	// DefaultFormat is the export format when none is requested
	DefaultFormat string `json:"default_format"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	appDir := filepath.Join(homeDir, ".bidfix")

	return &Config{
		Version: "1.0",
		Estimating: EstimatingConfig{
			DefaultSystem: "tpo",
			TaxPercent:    0,
			ProfitPercent: 0,
		},
		Pricing: PricingConfig{
			DatabasePath: filepath.Join(appDir, "bidfix.db"),
			Currency:     "USD",
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 10,
		},
		Export: ExportConfig{
			Directory:     filepath.Join(appDir, "exports"),
			DefaultFormat: "csv",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
