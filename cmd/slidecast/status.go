package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"slidecast/internal/client"
)

func newStatusCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			daemonAPI, err := opts.newClient()
			if err != nil {
				return err
			}
			status, err := daemonAPI.Status(cmd.Context())
			if err != nil {
				if errors.Is(err, client.ErrDaemonUnreachable) {
					return fmt.Errorf("daemon is not running (%v); start it with slidecastd", err)
				}
				return err
			}

			running := "stopped"
			if status.Running {
				running = fmt.Sprintf("running with %d workers", status.Workers)
			}
			fmt.Printf("Daemon: %s\n", running)
			fmt.Printf("Queue:  %d pending, %d processing, %d completed, %d failed\n",
				status.Queue.Pending, status.Queue.Processing,
				status.Queue.Completed, status.Queue.Failed)
			if len(status.ActiveJobs) > 0 {
				fmt.Printf("Active: %v\n", status.ActiveJobs)
			}
			if status.StagingFreeBytes > 0 {
				fmt.Printf("Disk:   %.1f GiB free in staging\n",
					float64(status.StagingFreeBytes)/(1<<30))
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			if stdoutIsTerminal() {
				t.SetStyle(table.StyleRounded)
			} else {
				t.SetStyle(table.StyleLight)
			}
			t.AppendHeader(table.Row{"Stage", "Ready", "Detail"})
			for _, stage := range status.Stages {
				ready := "yes"
				if !stage.Ready {
					ready = "degraded"
				}
				t.AppendRow(table.Row{stage.Name, ready, stage.Detail})
			}
			t.Render()
			return nil
		},
	}
}
