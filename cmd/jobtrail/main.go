// Package main provides the entry point for the jobtrail CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jkaplan/jobtrail/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "jobtrail",
	Short: "Job search tracker with a resume evidence ledger",
	Long:  "jobtrail imports resumes into a reviewable draft, commits the reviewed evidence to a deduplicating claim ledger, and tracks the openings you are pursuing.",
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed diagnostics")
}

// loadCLIConfig resolves the effective configuration: file values when
// --config is given, defaults otherwise, with DATABASE_URL from the
// environment winning over both.
func loadCLIConfig() (config.Config, error) {
	cfg := config.DefaultConfig()

	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded.MergeWithDefaults(config.DefaultConfig())
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
