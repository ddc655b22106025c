package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job and its video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			daemonAPI, err := opts.newClient()
			if err != nil {
				return err
			}
			if err := daemonAPI.DeleteJob(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted job %s\n", args[0])
			return nil
		},
	}
}
