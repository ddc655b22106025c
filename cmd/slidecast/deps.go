package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidecast/internal/deps"
)

func newDepsCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries the pipeline uses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			for _, status := range deps.CheckBinaries(deps.ForConfig(cfg.FFmpeg.Binary, cfg.FFmpeg.ProbeBinary)) {
				mark := "ok"
				if !status.Available {
					mark = "missing"
				}
				fmt.Printf("%-8s %-8s %s\n", status.Name, mark, status.Description)
				if !status.Available && status.Detail != "" {
					fmt.Printf("         %s\n", status.Detail)
				}
			}
			return nil
		},
	}
}
