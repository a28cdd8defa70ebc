// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jkaplan/jobtrail/internal/parsing"
	"github.com/jkaplan/jobtrail/internal/selection"
)

// Config is the application configuration, loadable from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Parsing
	LowQualityItemFloor int      `json:"low_quality_item_floor,omitempty"` // Minimum structured items before a parse is flagged low-quality
	StrategyPriority    []string `json:"strategy_priority,omitempty"`      // Tie-break order of segmentation strategies, most preferred first

	// Ledger
	AutoApproveConfidence float64 `json:"auto_approve_confidence,omitempty"` // Confidence floor for auto-approving incoming claims (0.0-1.0)

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty runs in-memory

	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed diagnostics
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		LowQualityItemFloor:   20,
		StrategyPriority:      []string{"default", "headings", "bullets", "newlines"},
		AutoApproveConfidence: 0.9,
		Port:                  8080,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.LowQualityItemFloor < 0 {
		return fmt.Errorf("config error: 'low_quality_item_floor' must be non-negative")
	}
	if c.AutoApproveConfidence < 0 || c.AutoApproveConfidence > 1 {
		return fmt.Errorf("config error: 'auto_approve_confidence' must be between 0.0 and 1.0")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	for _, mode := range c.StrategyPriority {
		if _, err := parsing.ParseMode(mode); err != nil {
			return fmt.Errorf("config error: 'strategy_priority' entry %q: %w", mode, err)
		}
	}
	return nil
}

// Tuning converts the parsing-related fields into scorer tuning. Zero-valued
// fields fall back to the scorer's own defaults.
func (c *Config) Tuning() selection.Tuning {
	return selection.Tuning{
		LowQualityItemFloor: c.LowQualityItemFloor,
		Priority:            c.StrategyPriority,
	}
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Config file values act as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.LowQualityItemFloor == 0 {
		result.LowQualityItemFloor = defaults.LowQualityItemFloor
	}
	if len(result.StrategyPriority) == 0 {
		result.StrategyPriority = defaults.StrategyPriority
	}
	if result.AutoApproveConfidence == 0 {
		result.AutoApproveConfidence = defaults.AutoApproveConfidence
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
