package pipeline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slidecast/internal/config"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/pipeline"
	"slidecast/internal/queue"
	"slidecast/internal/staging"
	"slidecast/internal/testsupport"
)

func testDeck() *deck.Deck {
	d := &deck.Deck{
		Title: "Garden Basics",
		Items: []deck.Item{
			{Title: "Soil", Body: "The soil is the foundation of the garden and it feeds everything in it."},
			{Title: "Light", Body: "Most vegetables want six hours of direct light to grow well."},
			{Title: "Water", Body: "Water the beds deeply in the morning and let the surface dry out."},
		},
		Style:   deck.StyleFriendly,
		Quality: deck.QualitySD,
	}
	d.Normalize()
	return d
}

func newOrchestrator(t *testing.T, cfg *config.Config) (*pipeline.Orchestrator, *queue.Store, *staging.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	artifacts, err := staging.NewStore(cfg)
	if err != nil {
		t.Fatalf("staging store: %v", err)
	}
	return pipeline.NewOrchestrator(cfg, store, artifacts, logging.NewNop()), store, artifacts
}

func TestRunCompletesWithFallbackProviders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	orchestrator, store, _ := newOrchestrator(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, testDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	job.MarkProcessing("Starting")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := orchestrator.Run(ctx, job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	persisted, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if persisted.Status != queue.StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", persisted.Status, persisted.ErrorMessage)
	}
	if persisted.Progress != 100 {
		t.Fatalf("completed progress = %v, want 100", persisted.Progress)
	}

	result, err := persisted.Result()
	if err != nil {
		t.Fatalf("Result decode failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result payload")
	}
	if !result.Simulated {
		t.Fatal("fallback providers must mark the result simulated")
	}
	if result.Score > 0.8 {
		t.Fatalf("simulated result score = %v, want <= 0.8", result.Score)
	}
	if result.Score < 0 || result.Score > 1 {
		t.Fatalf("score %v out of range", result.Score)
	}
	if result.Metrics.Width != 854 || result.Metrics.Height != 480 {
		t.Fatalf("unexpected metrics resolution %dx%d", result.Metrics.Width, result.Metrics.Height)
	}
	if result.Metrics.FileSizeBytes <= 0 {
		t.Fatal("expected a non-empty final artifact")
	}

	if filepath.Dir(persisted.FinalFile) != cfg.Paths.OutputDir {
		t.Fatalf("final file %q not in output dir", persisted.FinalFile)
	}
	if !strings.HasPrefix(filepath.Base(persisted.FinalFile), "garden-basics-") {
		t.Fatalf("unexpected final file name %q", filepath.Base(persisted.FinalFile))
	}
	if _, err := os.Stat(persisted.FinalFile); err != nil {
		t.Fatalf("final file missing: %v", err)
	}

	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging not cleaned, %d entries remain", len(entries))
	}
}

func TestRunUsesRealNarrationWhenProviderHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFsynthesized-speech-bytes"))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Speech.Enabled = true
	cfg.Speech.Endpoint = server.URL

	orchestrator, store, _ := newOrchestrator(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, testDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	job.MarkProcessing("Starting")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := orchestrator.Run(ctx, job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	result, err := job.Result()
	if err != nil || result == nil {
		t.Fatalf("Result decode failed: %v", err)
	}
	// ffmpeg is still missing in tests, so the video itself stays simulated.
	if !result.Simulated {
		t.Fatal("placeholder video must stay simulated")
	}
}

func TestRunCompletesWhenItemHasNoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFsynthesized-speech-bytes"))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Speech.Enabled = true
	cfg.Speech.Endpoint = server.URL

	orchestrator, store, _ := newOrchestrator(t, cfg)

	d := &deck.Deck{
		Title: "Garden Basics",
		Items: []deck.Item{
			{Title: "Soil", Body: "The soil is the foundation of the garden and it feeds everything in it."},
			{Title: "Questions"},
		},
		Style:   deck.StyleFriendly,
		Quality: deck.QualitySD,
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		t.Fatalf("deck should be valid: %v", err)
	}

	ctx := context.Background()
	job, err := store.NewJob(ctx, d)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	job.MarkProcessing("Starting")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := orchestrator.Run(ctx, job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if job.Status != queue.StatusCompleted {
		t.Fatalf("status %q, want completed", job.Status)
	}
}

func TestRunFailsOnCorruptRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	orchestrator, store, _ := newOrchestrator(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, testDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	job.RequestJSON = "{not json"

	if err := orchestrator.Run(ctx, job); err == nil {
		t.Fatal("expected error for corrupt request payload")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	orchestrator, store, _ := newOrchestrator(t, cfg)

	job, err := store.NewJob(context.Background(), testDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := orchestrator.Run(ctx, job); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging not cleaned after cancellation, %d entries remain", len(entries))
	}
}
