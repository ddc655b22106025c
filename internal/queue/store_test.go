package queue_test

import (
	"context"
	"testing"

	"slidecast/internal/deck"
	"slidecast/internal/queue"
	"slidecast/internal/testsupport"
)

func sampleDeck() *deck.Deck {
	d := &deck.Deck{
		Title: "Sample Video",
		Items: []deck.Item{
			{Title: "One", Body: "First item body."},
			{Title: "Two", Body: "Second item body."},
		},
	}
	d.Normalize()
	return d
}

func TestNewJobPersistsRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected job ID to be assigned")
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", job.Status)
	}
	if job.Fingerprint == "" {
		t.Fatal("expected fingerprint to be recorded")
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Sample Video" {
		t.Fatalf("unexpected fetched job: %#v", fetched)
	}

	request, err := fetched.Request()
	if err != nil {
		t.Fatalf("Request decode failed: %v", err)
	}
	if len(request.Items) != 2 || request.Items[0].Title != "One" {
		t.Fatalf("unexpected decoded request: %#v", request)
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job, err := store.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil for missing job, got %#v", job)
	}
}

func TestClaimNextPendingIsOrderedAndExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if _, err := store.NewJob(ctx, sampleDeck()); err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	claimed, err := store.ClaimNextPending(ctx)
	if err != nil {
		t.Fatalf("ClaimNextPending failed: %v", err)
	}
	if claimed == nil || claimed.ID != first.ID {
		t.Fatalf("expected oldest job %s, got %#v", first.ID, claimed)
	}
	if claimed.Status != queue.StatusProcessing {
		t.Fatalf("expected processing after claim, got %s", claimed.Status)
	}

	second, err := store.ClaimNextPending(ctx)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if second == nil || second.ID == first.ID {
		t.Fatalf("expected a different job on second claim, got %#v", second)
	}

	third, err := store.ClaimNextPending(ctx)
	if err != nil {
		t.Fatalf("third claim failed: %v", err)
	}
	if third != nil {
		t.Fatalf("expected empty queue, got %#v", third)
	}
}

func TestProgressIsMonotonicAndBelowHundredUntilCompletion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	job.MarkProcessing("Starting")
	job.SetProgress(40, "Rendering")
	job.SetProgress(20, "Should not regress")
	if job.Progress != 40 {
		t.Fatalf("progress regressed to %v", job.Progress)
	}

	job.SetProgress(150, "Overshoot")
	if job.Progress >= 100 {
		t.Fatalf("in-flight progress reached %v", job.Progress)
	}
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	job.MarkCompleted("/tmp/out.mp4", `{"quality_score":0.9}`)
	if job.Progress != 100 {
		t.Fatalf("completed job progress = %v, want 100", job.Progress)
	}
	if job.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusCompleted || fetched.Progress != 100 {
		t.Fatalf("unexpected persisted state: %s %v", fetched.Status, fetched.Progress)
	}
	if fetched.FinalFile != "/tmp/out.mp4" {
		t.Fatalf("unexpected final file %q", fetched.FinalFile)
	}
}

func TestFailStuckProcessingSparesTerminalStates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stuck, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	stuck.MarkProcessing("Working")
	if err := store.Update(ctx, stuck); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	done, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	done.MarkCompleted("/tmp/done.mp4", "{}")
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.FailStuckProcessing(ctx, "Interrupted by daemon restart")
	if err != nil {
		t.Fatalf("FailStuckProcessing failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 recovered job, got %d", count)
	}

	recovered, err := store.GetByID(ctx, stuck.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if recovered.Status != queue.StatusFailed {
		t.Fatalf("expected failed after recovery, got %s", recovered.Status)
	}

	untouched, err := store.GetByID(ctx, done.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != queue.StatusCompleted {
		t.Fatalf("terminal state rolled back to %s", untouched.Status)
	}
}

func TestListFiltersAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	pending, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	failed, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	failed.MarkFailed("boom")
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(all))
	}

	onlyPending, err := store.List(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("List filtered failed: %v", err)
	}
	if len(onlyPending) != 1 || onlyPending[0].ID != pending.ID {
		t.Fatalf("unexpected filtered list: %#v", onlyPending)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[queue.StatusPending] != 1 || stats[queue.StatusFailed] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 2 || health.Pending != 1 || health.Failed != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestRemoveAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	removed, err := store.Remove(ctx, job.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected job to be removed")
	}

	removed, err = store.Remove(ctx, job.ID)
	if err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if removed {
		t.Fatal("expected second removal to be a no-op")
	}

	done, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	done.MarkCompleted("/tmp/x.mp4", "{}")
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	cleared, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared job, got %d", cleared)
	}

	broken, err := store.NewJob(ctx, sampleDeck())
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	broken.MarkFailed("render error")
	if err := store.Update(ctx, broken); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	cleared, err = store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed failed: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared failed job, got %d", cleared)
	}
	if remaining, err := store.GetByID(ctx, broken.ID); err != nil || remaining != nil {
		t.Fatalf("expected failed job gone, got %v (err %v)", remaining, err)
	}
}
