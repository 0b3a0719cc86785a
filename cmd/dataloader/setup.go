package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/graph"
	"github.com/rrbanda/dataloader/internal/llm"
)

var flagSetupWriteConfig bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Verify configuration and connectivity to the LLM endpoint and graph database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSetupWriteConfig {
			return writeStarterConfig(cmd)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		ctx := cmd.Context()

		cmd.Printf("Configuration resolved for environment %q\n", cfg.Environment)
		cmd.Printf("  data sources: %d\n", len(cfg.DataSources))
		cmd.Printf("  llm endpoint: %s (model %s)\n", cfg.LLM.BaseURL, cfg.LLM.Model)
		cmd.Printf("  graph database: %s/%s\n", cfg.Neo4j.URI, cfg.Neo4j.Database)

		provider, err := llm.NewOpenAIProvider(llm.ProviderConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return err
		}
		llmHealth := provider.Health(ctx)
		cmd.Printf("  llm health: %s (%s)\n", llmHealth.State, llmHealth.Message)

		graphClient, err := graph.NewNeo4jClient(graph.Config{
			URI:            cfg.Neo4j.URI,
			Username:       cfg.Neo4j.Username,
			Password:       cfg.Neo4j.Password,
			Database:       cfg.Neo4j.Database,
			MaxConnections: cfg.Neo4j.Management.MaxConnections,
		}, logger)
		if err != nil {
			return err
		}
		if err := graphClient.Connect(ctx); err != nil {
			return err
		}
		defer graphClient.Close(ctx)

		graphHealth := graphClient.Health(ctx)
		cmd.Printf("  graph health: %s (%s)\n", graphHealth.State, graphHealth.Message)

		if err := graphClient.EnsureSchema(ctx); err != nil {
			return err
		}
		cmd.Println("Schema constraints and indexes ensured")
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&flagSetupWriteConfig, "write-config", false, "write a starter config file and exit")
}

// writeStarterConfig writes the default configuration to the resolved
// config path so operators have a file to edit.
func writeStarterConfig(cmd *cobra.Command) error {
	path := resolveConfigPath()
	if _, err := os.Stat(path); err == nil {
		cmd.Printf("Config already exists at %s, leaving it untouched\n", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	cmd.Printf("Wrote starter config to %s\n", path)
	return nil
}
