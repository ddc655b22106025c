package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"slidecast/internal/api"
	"slidecast/internal/deck"
	"slidecast/internal/queue"
)

func newGenerateCommand(opts *cliOptions) *cobra.Command {
	var (
		deckPath  string
		title     string
		items     []string
		narration string
		style     string
		quality   string
		wait      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a video generation job",
		Long: `Submit a video generation job to the daemon.

The deck comes either from a JSON file (--deck) or from flags:
each --item is "Title: body text" and becomes one slide.`,
		Example: `  slidecast generate --deck lesson.json --wait
  slidecast generate --title "Intro to Go" \
      --item "Hello: Go is a compiled language" \
      --item "Tools: The go command builds and tests" \
      --style teacher --quality fullhd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := buildDeck(deckPath, title, items, narration, style, quality)
			if err != nil {
				return err
			}

			daemonAPI, err := opts.newClient()
			if err != nil {
				return err
			}

			job, err := daemonAPI.CreateJob(cmd.Context(), request)
			if err != nil {
				return err
			}
			fmt.Printf("Queued job %s (%s)\n", job.ID, job.Title)

			if !wait {
				return nil
			}
			return waitForJob(cmd, daemonAPI, job.ID)
		},
	}

	cmd.Flags().StringVar(&deckPath, "deck", "", "path to a deck JSON file")
	cmd.Flags().StringVar(&title, "title", "", "video title")
	cmd.Flags().StringArrayVar(&items, "item", nil, `content item as "Title: body text" (repeatable)`)
	cmd.Flags().StringVar(&narration, "narration", "", "narration script overriding per-item text")
	cmd.Flags().StringVar(&style, "style", "", "presenter style: professional, friendly or teacher")
	cmd.Flags().StringVar(&quality, "quality", "", "output quality: sd, hd or fullhd")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the job finishes")
	return cmd
}

// buildDeck assembles the request from a file or from flags. Flags override
// the file's style, quality and narration when both are given.
func buildDeck(deckPath, title string, items []string, narration, style, quality string) (*deck.Deck, error) {
	request := &deck.Deck{}

	if deckPath != "" {
		payload, err := os.ReadFile(deckPath)
		if err != nil {
			return nil, fmt.Errorf("read deck file: %w", err)
		}
		if err := json.Unmarshal(payload, request); err != nil {
			return nil, fmt.Errorf("parse deck file: %w", err)
		}
	}

	if title != "" {
		request.Title = title
	}
	for _, raw := range items {
		itemTitle, body, found := strings.Cut(raw, ":")
		if !found {
			return nil, fmt.Errorf("item %q must be \"Title: body text\"", raw)
		}
		request.Items = append(request.Items, deck.Item{
			Title: strings.TrimSpace(itemTitle),
			Body:  strings.TrimSpace(body),
		})
	}
	if narration != "" {
		request.NarrationText = narration
	}
	if style != "" {
		parsed, ok := deck.ParseStyle(style)
		if !ok {
			return nil, fmt.Errorf("unknown style %q", style)
		}
		request.Style = parsed
	}
	if quality != "" {
		parsed, ok := deck.ParseQuality(quality)
		if !ok {
			return nil, fmt.Errorf("unknown quality %q", quality)
		}
		request.Quality = parsed
	}
	return request, nil
}

// jobWatcher is the slice of the daemon client the wait loop needs.
type jobWatcher interface {
	GetJob(ctx context.Context, id string) (api.JobResponse, error)
}

// waitForJob polls the job until it reaches a terminal state, redrawing
// progress on terminals.
func waitForJob(cmd *cobra.Command, watcher jobWatcher, id string) error {
	interactive := stdoutIsTerminal()
	var lastLine string

	for {
		job, err := watcher.GetJob(cmd.Context(), id)
		if err != nil {
			return err
		}

		line := fmt.Sprintf("[%s] %.0f%% %s", job.Status, job.Progress, job.ProgressMessage)
		if interactive {
			fmt.Printf("\r\033[K%s", line)
		} else if line != lastLine {
			fmt.Println(line)
		}
		lastLine = line

		switch queue.Status(job.Status) {
		case queue.StatusCompleted:
			if interactive {
				fmt.Println()
			}
			if job.QualityScore != nil {
				fmt.Printf("Completed: %s (quality %.3f)\n", job.FinalFile, *job.QualityScore)
			} else {
				fmt.Printf("Completed: %s\n", job.FinalFile)
			}
			return nil
		case queue.StatusFailed:
			if interactive {
				fmt.Println()
			}
			return fmt.Errorf("job failed: %s", job.ErrorMessage)
		}

		select {
		case <-cmd.Context().Done():
			if interactive {
				fmt.Println()
			}
			return cmd.Context().Err()
		case <-time.After(time.Second):
		}
	}
}
