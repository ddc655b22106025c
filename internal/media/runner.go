package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/deck"
)

// Runner executes ffmpeg and ffprobe for clip creation and assembly.
type Runner struct {
	binary      string
	probeBinary string
	timeout     time.Duration
}

// NewRunner constructs a Runner from encoder configuration.
func NewRunner(cfg config.FFmpeg) *Runner {
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	probe := strings.TrimSpace(cfg.ProbeBinary)
	if probe == "" {
		probe = "ffprobe"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Runner{binary: binary, probeBinary: probe, timeout: timeout}
}

// Binary returns the configured ffmpeg command.
func (r *Runner) Binary() string { return r.binary }

// ProbeBinary returns the configured ffprobe command.
func (r *Runner) ProbeBinary() string { return r.probeBinary }

// Available reports whether both ffmpeg and ffprobe resolve on PATH. Stages
// switch to their simulated output path when this returns false.
func (r *Runner) Available() bool {
	if _, err := exec.LookPath(r.binary); err != nil {
		return false
	}
	if _, err := exec.LookPath(r.probeBinary); err != nil {
		return false
	}
	return true
}

func (r *Runner) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// ClipFromImage combines a still frame with optional narration audio into a
// timed clip. With audio present the clip ends with the audio; without audio
// the clip lasts exactly duration seconds.
func (r *Runner) ClipFromImage(ctx context.Context, imagePath, audioPath string, duration float64, res deck.Resolution, outPath string) error {
	if duration <= 0 {
		duration = 1
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-loop", "1", "-i", imagePath}
	if audioPath != "" {
		args = append(args, "-i", audioPath)
	}
	args = append(args,
		"-t", formatSeconds(duration),
		"-vf", scaleFilter(res),
		"-r", "30",
		"-pix_fmt", "yuv420p",
		"-c:v", "libx264",
	)
	if audioPath != "" {
		args = append(args, "-c:a", "aac", "-shortest")
	} else {
		args = append(args, "-an")
	}
	args = append(args, outPath)

	return r.run(ctx, args)
}

// Concat joins clips in the given order into one continuous artifact, scaling
// every input to the shared target resolution first.
func (r *Runner) Concat(ctx context.Context, clipPaths []string, res deck.Resolution, outPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("concat: no input clips")
	}

	listPath := filepath.Join(filepath.Dir(outPath), "concat.txt")
	var list strings.Builder
	for _, clip := range clipPaths {
		fmt.Fprintf(&list, "file '%s'\n", escapeConcatPath(clip))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-vf", scaleFilter(res),
		"-pix_fmt", "yuv420p",
		"-c:v", "libx264",
		"-c:a", "aac",
		outPath,
	}
	return r.run(ctx, args)
}

func (r *Runner) run(ctx context.Context, args []string) error {
	ctx, cancel := r.commandContext(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func scaleFilter(res deck.Resolution) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		res.Width, res.Height, res.Width, res.Height)
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
