package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDownloadCommand(opts *cliOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <job-id>",
		Short: "Download a completed job's video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			daemonAPI, err := opts.newClient()
			if err != nil {
				return err
			}

			dest := output
			if dest == "" {
				job, err := daemonAPI.GetJob(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				dest = filepath.Base(job.FinalFile)
				if dest == "" || dest == "." {
					dest = shortID(args[0]) + ".mp4"
				}
			}

			if err := daemonAPI.Download(cmd.Context(), args[0], dest); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file path")
	return cmd
}
