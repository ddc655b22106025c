package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slidecast/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Paths.APIBind == "" {
		t.Fatal("default api bind missing")
	}
	if cfg.Workflow.MaxWorkers <= 0 {
		t.Fatal("default worker count must be positive")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Workflow.MaxWorkers != config.Default().Workflow.MaxWorkers {
		t.Fatal("expected default values")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	payload := `
[paths]
staging_dir = "` + filepath.Join(dir, "work") + `"
output_dir = "` + filepath.Join(dir, "videos") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
api_bind = "127.0.0.1:9999"

[workflow]
max_workers = 3
max_active_jobs = 7
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected file to be found")
	}
	if cfg.Paths.APIBind != "127.0.0.1:9999" {
		t.Fatalf("unexpected bind %q", cfg.Paths.APIBind)
	}
	if cfg.Workflow.MaxWorkers != 3 || cfg.Workflow.MaxActiveJobs != 7 {
		t.Fatalf("unexpected workflow values: %#v", cfg.Workflow)
	}
	// Untouched sections keep defaults.
	if cfg.Render.PresenterSeconds != config.Default().Render.PresenterSeconds {
		t.Fatal("unset sections should keep defaults")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	payload := `
[workflow]
max_workers = -2
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation failure for negative workers")
	}
}

func TestWriteSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config must load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(root, "a", "staging")
	cfg.Paths.OutputDir = filepath.Join(root, "b", "output")
	cfg.Paths.LogDir = filepath.Join(root, "c", "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestExpandTildeInPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	payload := `
[paths]
staging_dir = "~/slidecast-staging"
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.HasPrefix(cfg.Paths.StagingDir, home) {
		t.Fatalf("tilde not expanded: %q", cfg.Paths.StagingDir)
	}
}
