package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/extract"
	"github.com/rrbanda/dataloader/internal/graph"
	"github.com/rrbanda/dataloader/internal/history"
	"github.com/rrbanda/dataloader/internal/llm"
	"github.com/rrbanda/dataloader/internal/loader"
	"github.com/rrbanda/dataloader/internal/observability"
	"github.com/rrbanda/dataloader/internal/source"
	"github.com/rrbanda/dataloader/internal/textproc"
	"github.com/rrbanda/dataloader/internal/types"
)

var flagSource string

var loadCmd = &cobra.Command{
	Use:   "load [system-id]",
	Short: "Run the ingestion pipeline for all systems or one system",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		ctx := cmd.Context()

		ldr, err := buildLoader(cfg, logger)
		if err != nil {
			return err
		}
		defer ldr.Close(ctx)

		if err := ldr.Setup(ctx); err != nil {
			return err
		}

		var result *loader.Result
		if len(args) == 1 {
			result, err = ldr.LoadSystem(ctx, args[0])
		} else {
			result, err = ldr.LoadAllSystems(ctx)
		}
		if err != nil {
			return err
		}

		cmd.Printf("Loaded %d systems, %d events\n", len(result.Systems), len(result.Events))
		if len(result.FailedSystems) > 0 {
			cmd.Printf("Failed systems (%d): %s\n",
				len(result.FailedSystems), strings.Join(result.FailedSystems, ", "))
			return fmt.Errorf("%d of %d systems failed to load",
				len(result.FailedSystems), len(result.Systems)+len(result.FailedSystems))
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&flagSource, "source", "systems", "named data source to load from")
}

// buildLoader wires the pipeline components from resolved configuration.
func buildLoader(cfg *config.Config, logger *observability.PipelineLogger) (*loader.Loader, error) {
	sourceCfg, ok := cfg.DataSources[flagSource]
	if !ok {
		return nil, types.NewError(types.CONFIG_MISSING_KEY,
			fmt.Sprintf("data source %q is not configured", flagSource))
	}
	adapter := source.NewFilesystemAdapter(flagSource, sourceCfg, logger)

	provider, err := llm.NewOpenAIProvider(llm.ProviderConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}

	graphClient, err := graph.NewNeo4jClient(graph.Config{
		URI:               cfg.Neo4j.URI,
		Username:          cfg.Neo4j.Username,
		Password:          cfg.Neo4j.Password,
		Database:          cfg.Neo4j.Database,
		MaxConnections:    cfg.Neo4j.Management.MaxConnections,
		ConnectionTimeout: 30 * time.Second,
	}, logger)
	if err != nil {
		return nil, err
	}

	var historyStore *history.Store
	if cfg.History.Enabled {
		historyStore, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
	}

	return loader.New(
		cfg,
		adapter,
		textproc.NewProcessor(cfg.TextProcessing, logger),
		extract.NewExtractor(provider, logger),
		graphClient,
		historyStore,
		logger,
	), nil
}
