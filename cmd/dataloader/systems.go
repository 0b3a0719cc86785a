package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rrbanda/dataloader/internal/source"
	"github.com/rrbanda/dataloader/internal/types"
)

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List the systems available in the configured data source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		sourceCfg, ok := cfg.DataSources[flagSource]
		if !ok {
			return types.NewError(types.CONFIG_MISSING_KEY,
				fmt.Sprintf("data source %q is not configured", flagSource))
		}

		adapter := source.NewFilesystemAdapter(flagSource, sourceCfg, logger)
		systems, err := adapter.ListAvailableSystems(cmd.Context())
		if err != nil {
			return err
		}

		if len(systems) == 0 {
			cmd.Printf("No systems found under %s\n", sourceCfg.BasePath)
			return nil
		}
		for _, id := range systems {
			cmd.Println(id)
		}
		return nil
	},
}

func init() {
	systemsCmd.Flags().StringVar(&flagSource, "source", "systems", "named data source to inspect")
}
