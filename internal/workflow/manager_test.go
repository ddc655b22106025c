package workflow_test

import (
	"context"
	"testing"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/notifications"
	"slidecast/internal/pipeline"
	"slidecast/internal/queue"
	"slidecast/internal/staging"
	"slidecast/internal/testsupport"
	"slidecast/internal/workflow"
)

func newManager(t *testing.T, cfg *config.Config) (*workflow.Manager, *queue.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	artifacts, err := staging.NewStore(cfg)
	if err != nil {
		t.Fatalf("staging store: %v", err)
	}
	orchestrator := pipeline.NewOrchestrator(cfg, store, artifacts, logging.NewNop())
	notifier := notifications.NewService(cfg.Notifications, logging.NewNop())
	return workflow.NewManager(cfg, store, artifacts, orchestrator, notifier, logging.NewNop()), store
}

func workflowDeck() *deck.Deck {
	d := &deck.Deck{
		Title:   "Workflow Test",
		Items:   []deck.Item{{Title: "Only", Body: "A single slide to process quickly."}},
		Quality: deck.QualitySD,
	}
	d.Normalize()
	return d
}

func waitForStatus(t *testing.T, store *queue.Store, id string, want queue.Status) *queue.Job {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if job != nil && job.Status == want {
			return job
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %s", id, want)
	return nil
}

func TestManagerProcessesQueuedJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	manager, store := newManager(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, workflowDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	done := waitForStatus(t, store, job.ID, queue.StatusCompleted)
	if done.Progress != 100 {
		t.Fatalf("completed progress = %v", done.Progress)
	}
	if done.FinalFile == "" {
		t.Fatal("expected final file to be recorded")
	}
}

func TestManagerRecoversInterruptedJobsOnStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	manager, store := newManager(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, workflowDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	job.MarkProcessing("Pretend a previous daemon died here")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	recovered := waitForStatus(t, store, job.ID, queue.StatusFailed)
	if recovered.ErrorMessage == "" {
		t.Fatal("expected recovery to record an error message")
	}
}

func TestManagerStartStopIdempotence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	manager, _ := newManager(t, cfg)

	ctx := context.Background()
	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := manager.Start(ctx); err == nil {
		t.Fatal("expected error on double start")
	}
	if !manager.Running() {
		t.Fatal("expected manager to report running")
	}

	manager.Stop()
	if manager.Running() {
		t.Fatal("expected manager to report stopped")
	}
	manager.Stop()
}
