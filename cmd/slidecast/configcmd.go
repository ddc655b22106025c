package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slidecast/internal/config"
)

func newConfigCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the slidecast configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented sample config",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the effective config path",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, _, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, _, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Printf("%s is valid\n", path)
			return nil
		},
	})

	return cmd
}
