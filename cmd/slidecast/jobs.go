package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"slidecast/internal/api"
	"slidecast/internal/queue"
)

func newJobsCommand(opts *cliOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List generation jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				if _, ok := queue.ParseStatus(status); !ok {
					return fmt.Errorf("unknown status %q, valid values: %s", status, statusValues())
				}
			}

			daemonAPI, err := opts.newClient()
			if err != nil {
				return err
			}
			list, err := daemonAPI.ListJobs(cmd.Context(), status)
			if err != nil {
				return err
			}
			if list.Total == 0 {
				fmt.Println("No jobs.")
				return nil
			}
			renderJobsTable(list.Jobs)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: "+statusValues())
	return cmd
}

func statusValues() string {
	known := queue.AllStatuses()
	values := make([]string, 0, len(known))
	for _, s := range known {
		values = append(values, string(s))
	}
	return strings.Join(values, ", ")
}

func renderJobsTable(jobs []api.JobResponse) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	if stdoutIsTerminal() {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Progress", "Quality", "Created"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 32},
		{Name: "Progress", Align: text.AlignRight},
		{Name: "Quality", Align: text.AlignRight},
	})

	for _, job := range jobs {
		quality := "-"
		if job.QualityScore != nil {
			quality = fmt.Sprintf("%.3f", *job.QualityScore)
			if job.Simulated != nil && *job.Simulated {
				quality += " (sim)"
			}
		}
		t.AppendRow(table.Row{
			shortID(job.ID),
			job.Title,
			job.Status,
			fmt.Sprintf("%.0f%%", job.Progress),
			quality,
			job.CreatedAt.Local().Format(time.DateTime),
		})
	}
	t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
