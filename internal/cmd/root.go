// Package cmd contains all CLI commands for fcx.
package cmd

import (
	"fmt"
	"os"

	"github.com/compasshq/fcx/internal/config"
	"github.com/compasshq/fcx/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Version is the current version of fcx.
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	dbPath       string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fcx",
	Short: "Feature context explorer for polyglot codebases",
	Long: `fcx discovers the set of code symbols belonging to a feature.

It traverses the code graph an external parser has written to a relational
database — symbols, typed dependency edges, and the HTTP calls linking a Vue
frontend to a Laravel backend — starting from one entry-point symbol, and
returns a relevance-scored symbol map covering the stores, components,
composables, controllers, services, models and requests of the feature.

Examples:
  fcx discover 1043 --feature "user billing"   # Discover from symbol 1043
  fcx discover 1043 --max-depth 3 --min-score 0.4
  fcx show 1043                                # Inspect one symbol
  fcx serve --mcp                              # Expose discovery over MCP

See 'fcx <command> --help' for command-specific options.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .fcx/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Graph database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "Output format (yaml|json)")
}

// loadConfig reads the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}

// openStore opens the graph database per config and flags.
func openStore() (*store.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.DB.Path
	if dbPath != "" {
		path = dbPath
	}

	st, err := store.Open(cfg.DB.Driver, path)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}
