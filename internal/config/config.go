// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"rf-compliance/core/stage"
	"rf-compliance/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Storage contains result/criteria storage configuration
	Storage StorageConfig `json:"storage"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Evaluation contains compliance evaluation defaults
	Evaluation EvaluationConfig `json:"evaluation"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// StorageConfig contains storage-related settings
type StorageConfig struct {
	// DatabasePath is the path to the sqlite database file
	DatabasePath string `json:"database_path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// ReadTimeoutSeconds bounds request reads
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds response writes
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// EvaluationConfig contains compliance evaluation defaults
type EvaluationConfig struct {
	// DefaultStage is the test stage used when none is given
	DefaultStage string `json:"default_stage"`

	// Parallelism caps concurrent measurement evaluations in batch runs.
	// 0 means one worker per CPU.
	Parallelism int `json:"parallelism"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default report format (table, json)
	DefaultFormat string `json:"default_format"`

	// ValueDecimals is the precision for rendered measured values
	ValueDecimals int32 `json:"value_decimals"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".rf-compliance", "results.db")

	return &Config{
		Version: "1.0",
		Storage: StorageConfig{
			DatabasePath: dbPath,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
		},
		Evaluation: EvaluationConfig{
			DefaultStage: stage.SIT,
			Parallelism:  0,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			ValueDecimals: 2,
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
