package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rrbanda/dataloader/internal/simulate"
)

var (
	flagGenerateOut  string
	flagGenerateSeed int64
)

var generateCmd = &cobra.Command{
	Use:   "generate [count]",
	Short: "Generate simulated RHEL system directories for demos and tests",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count := 5
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 1 {
				return cmd.Help()
			}
			count = parsed
		}

		basePath := flagGenerateOut
		if basePath == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if sourceCfg, ok := cfg.DataSources["systems"]; ok {
				basePath = sourceCfg.BasePath
			} else {
				basePath = "simulated_systems"
			}
		}

		seed := flagGenerateSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		gen := simulate.NewGenerator(basePath, seed)
		ids, err := gen.GenerateAllSystems(count)
		if err != nil {
			return err
		}

		cmd.Printf("Generated %d systems under %s:\n", len(ids), basePath)
		for _, id := range ids {
			cmd.Printf("  %s\n", id)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&flagGenerateOut, "out", "o", "", "output directory (default: configured data source base path)")
	generateCmd.Flags().Int64Var(&flagGenerateSeed, "seed", 0, "random seed (0 uses the current time)")
}
