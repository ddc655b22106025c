// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"slidecast/internal/config"
	"slidecast/internal/queue"
)

// NewConfig returns a validated config rooted in a per-test temp directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(root, "staging")
	cfg.Paths.OutputDir = filepath.Join(root, "output")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Speech.Enabled = false
	cfg.FFmpeg.Binary = filepath.Join(root, "missing-ffmpeg")
	cfg.FFmpeg.ProbeBinary = filepath.Join(root, "missing-ffprobe")
	cfg.Workflow.MaxWorkers = 1
	cfg.Workflow.QueuePollInterval = 1

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	return &cfg
}

// MustOpenStore opens a job store against a test config and closes it when
// the test finishes.
func MustOpenStore(t *testing.T, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}
