package staging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"slidecast/internal/config"
	"slidecast/internal/logging"
)

// Store allocates per-job staging directories and promotes final artifacts
// into the output library. Every temp artifact a job creates lives under its
// staging directory, so a single CleanupJob covers all exit paths.
type Store struct {
	stagingDir string
	outputDir  string
}

// NewStore constructs the artifact store, creating both directories.
func NewStore(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return &Store{stagingDir: cfg.Paths.StagingDir, outputDir: cfg.Paths.OutputDir}, nil
}

// StagingDir returns the staging root.
func (s *Store) StagingDir() string { return s.stagingDir }

// OutputDir returns the durable output root.
func (s *Store) OutputDir() string { return s.outputDir }

// JobDir creates and returns the staging directory for one job.
func (s *Store) JobDir(jobID, fingerprint string) (string, error) {
	name := "job-" + shortID(jobID)
	if fp := strings.TrimSpace(fingerprint); fp != "" {
		name += "-" + fp
	}
	dir := filepath.Join(s.stagingDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	return dir, nil
}

// CleanupJob removes a job's staging directory tree. Errors are logged, not
// returned: cleanup runs on every exit path and must never mask the
// pipeline's own outcome.
func (s *Store) CleanupJob(jobDir string, logger *slog.Logger) {
	jobDir = strings.TrimSpace(jobDir)
	if jobDir == "" || !strings.HasPrefix(jobDir, s.stagingDir) {
		return
	}
	if err := os.RemoveAll(jobDir); err != nil {
		if logger != nil {
			logger.Warn("failed to remove staging directory",
				logging.String("path", jobDir),
				logging.Error(err),
				logging.String(logging.FieldEventType, "staging_cleanup_failed"),
				logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
			)
		}
	}
}

// Promote moves a finished artifact from staging into the output directory
// under finalName, returning the durable path. The move is a rename where
// possible, with a copy+remove fallback for cross-device staging setups.
func (s *Store) Promote(logger *slog.Logger, sourcePath, finalName string) (string, error) {
	finalName = strings.TrimSpace(finalName)
	if finalName == "" {
		finalName = filepath.Base(sourcePath)
	}
	target := filepath.Join(s.outputDir, finalName)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("ensure output dir: %w", err)
	}
	if err := moveFile(logger, sourcePath, target); err != nil {
		return "", err
	}
	return target, nil
}

// RemoveArtifact deletes a promoted artifact. Missing files are not an error.
func (s *Store) RemoveArtifact(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// FreeBytes reports the free space on the staging filesystem.
func (s *Store) FreeBytes() (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.stagingDir, &stat); err != nil {
		return 0, fmt.Errorf("statfs staging dir: %w", err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// moveFile attempts a rename, falling back to copy+delete for cross-device moves.
func moveFile(logger *slog.Logger, source, target string) error {
	renameErr := os.Rename(source, target)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := copyFile(source, target); copyErr != nil {
			return fmt.Errorf("copy artifact to output: %w", copyErr)
		}
		if err := os.Remove(source); err != nil && logger != nil {
			logger.Warn("failed to remove staging copy after promote",
				logging.Error(err),
				logging.String("path", source),
				logging.String(logging.FieldEventType, "staging_cleanup_failed"),
			)
		}
		return nil
	}

	return fmt.Errorf("move artifact to output: %w", renameErr)
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return err
	}
	return out.Close()
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
