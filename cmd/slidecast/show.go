package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newShowCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			daemonAPI, err := opts.newClient()
			if err != nil {
				return err
			}
			job, err := daemonAPI.GetJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:       %s\n", job.ID)
			fmt.Printf("Title:    %s\n", job.Title)
			fmt.Printf("Status:   %s\n", job.Status)
			fmt.Printf("Progress: %.0f%% %s\n", job.Progress, job.ProgressMessage)
			fmt.Printf("Created:  %s\n", job.CreatedAt.Local().Format(time.DateTime))
			if job.ErrorMessage != "" {
				fmt.Printf("Error:    %s\n", job.ErrorMessage)
			}
			if job.FinalFile != "" {
				fmt.Printf("Video:    %s\n", job.FinalFile)
			}
			if job.QualityScore != nil {
				fmt.Printf("Quality:  %.3f\n", *job.QualityScore)
			}
			if job.Simulated != nil && *job.Simulated {
				fmt.Println("Note:     built with fallback providers")
			}
			if job.Metrics != nil {
				m := job.Metrics
				fmt.Printf("Metrics:  %.1fs video, %d bytes, %dx%d, processed in %.1fs\n",
					m.DurationSeconds, m.FileSizeBytes, m.Width, m.Height, m.ProcessingSeconds)
			}
			return nil
		},
	}
}
