package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/observability"
)

var (
	flagConfig      string
	flagEnvironment string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "dataloader",
	Short: "Load system files into a knowledge graph",
	Long: `dataloader reads raw system files (logs, configs, package lists),
cleans and chunks them, extracts a typed knowledge graph through an LLM
endpoint, and persists the result to Neo4j.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal-driven cancellation.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&flagEnvironment, "environment", "e", "", "environment to resolve (development|production)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(systemsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveEnvironment picks the environment from the flag, the ENVIRONMENT
// variable, or the default, in that order.
func resolveEnvironment() string {
	if flagEnvironment != "" {
		return flagEnvironment
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return config.DefaultEnvironment
}

// resolveConfigPath picks the config file from the flag or the default
// location.
func resolveConfigPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigPath()
}

// loadConfig resolves the full configuration for the selected environment.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader(config.NewValidator())
	return loader.LoadWithDefaults(resolveConfigPath(), resolveEnvironment())
}

// newLogger builds the pipeline logger from resolved logging config, with
// --verbose forcing debug level.
func newLogger(cfg *config.Config) *observability.PipelineLogger {
	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug"
	}
	handler := observability.NewHandler(os.Stderr, cfg.Logging.Format, level)
	return observability.NewPipelineLogger(handler, cfg.Environment)
}
