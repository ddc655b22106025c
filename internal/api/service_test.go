package api_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slidecast/internal/api"
	"slidecast/internal/config"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/notifications"
	"slidecast/internal/queue"
	"slidecast/internal/services"
	"slidecast/internal/staging"
	"slidecast/internal/testsupport"
)

func newService(t *testing.T, cfg *config.Config) (*api.JobService, *queue.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	artifacts, err := staging.NewStore(cfg)
	if err != nil {
		t.Fatalf("staging store: %v", err)
	}
	notifier := notifications.NewService(cfg.Notifications, logging.NewNop())
	service := api.NewJobService(cfg, store, artifacts, nil, nil, notifier, logging.NewNop())
	return service, store
}

func requestDeck() *deck.Deck {
	return &deck.Deck{
		Title: "API Test Video",
		Items: []deck.Item{{Title: "One", Body: "Body text for slide one."}},
	}
}

func TestCreateValidatesAndQueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service, store := newService(t, cfg)

	ctx := context.Background()
	job, err := service.Create(ctx, requestDeck())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("expected pending, got %s", job.Status)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil || fetched == nil {
		t.Fatalf("queued job not persisted: %v", err)
	}

	if _, err := service.Create(ctx, &deck.Deck{Title: "No Items"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := service.Create(ctx, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for nil request, got %v", err)
	}
}

func TestCreateEnforcesAdmissionLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.MaxActiveJobs = 1
	service, _ := newService(t, cfg)

	ctx := context.Background()
	if _, err := service.Create(ctx, requestDeck()); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := service.Create(ctx, requestDeck())
	if !errors.Is(err, api.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestGetMissingJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service, _ := newService(t, cfg)

	_, err := service.Get(context.Background(), "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDownloadPathStates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service, store := newService(t, cfg)

	ctx := context.Background()
	job, err := service.Create(ctx, requestDeck())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := service.DownloadPath(ctx, job.ID); !errors.Is(err, api.ErrNotReady) {
		t.Fatalf("expected ErrNotReady for pending job, got %v", err)
	}

	finalFile := filepath.Join(cfg.Paths.OutputDir, "done.mp4")
	if err := os.WriteFile(finalFile, []byte("video"), 0o644); err != nil {
		t.Fatalf("write final file: %v", err)
	}
	job.MarkCompleted(finalFile, "{}")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	path, err := service.DownloadPath(ctx, job.ID)
	if err != nil {
		t.Fatalf("DownloadPath failed: %v", err)
	}
	if path != finalFile {
		t.Fatalf("unexpected path %q", path)
	}

	if err := os.Remove(finalFile); err != nil {
		t.Fatalf("remove final file: %v", err)
	}
	if _, err := service.DownloadPath(ctx, job.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found after artifact loss, got %v", err)
	}
}

func TestDeleteRemovesRecordAndArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service, store := newService(t, cfg)

	ctx := context.Background()
	job, err := service.Create(ctx, requestDeck())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	finalFile := filepath.Join(cfg.Paths.OutputDir, "to-delete.mp4")
	if err := os.WriteFile(finalFile, []byte("video"), 0o644); err != nil {
		t.Fatalf("write final file: %v", err)
	}
	job.MarkCompleted(finalFile, "{}")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := service.Delete(ctx, job.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(finalFile); !os.IsNotExist(err) {
		t.Fatalf("expected artifact removal, stat err = %v", err)
	}
	if _, err := service.Get(ctx, job.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected record removal, got %v", err)
	}

	if err := service.Delete(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for missing job, got %v", err)
	}
}

func TestStatusCountsQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service, _ := newService(t, cfg)

	ctx := context.Background()
	if _, err := service.Create(ctx, requestDeck()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status, err := service.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Queue.Pending != 1 || status.Queue.Total != 1 {
		t.Fatalf("unexpected queue counts: %#v", status.Queue)
	}
	if status.Running {
		t.Fatal("no workflow attached, expected not running")
	}
	if status.StagingFreeBytes == 0 {
		t.Fatal("expected staging free space to be reported")
	}
}
