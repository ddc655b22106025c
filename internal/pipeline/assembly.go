package pipeline

import (
	"context"
	"path/filepath"

	"slidecast/internal/deck"
	"slidecast/internal/media"
	"slidecast/internal/services"
)

// AssemblyStage prepends the presenter intro and concatenates the item clips
// into the final video.
type AssemblyStage struct {
	media            *media.Runner
	presenterSeconds float64
}

// NewAssemblyStage wires the encoder runner into the stage. presenterSeconds
// is how long the presenter frame is shown before the first item.
func NewAssemblyStage(runner *media.Runner, presenterSeconds float64) *AssemblyStage {
	return &AssemblyStage{media: runner, presenterSeconds: presenterSeconds}
}

func (s *AssemblyStage) Name() string { return "assembly" }

// Produce builds the final video from the presenter frame and ordered clips.
func (s *AssemblyStage) Produce(ctx context.Context, presenter PresenterArtifact, clips []ClipArtifact, res deck.Resolution, dir string) (FinalArtifact, error) {
	if err := ctx.Err(); err != nil {
		return FinalArtifact{}, err
	}
	outPath := filepath.Join(dir, "final.mp4")

	duration := s.presenterSeconds
	simulated := false
	for _, clip := range clips {
		duration += clip.Duration
		simulated = simulated || clip.Simulated
	}

	if s.media == nil || !s.media.Available() {
		sources := make([]string, 0, len(clips)+1)
		sources = append(sources, presenter.Path)
		for _, clip := range clips {
			sources = append(sources, clip.Path)
		}
		if err := writeSimulatedClip(outPath, sources...); err != nil {
			return FinalArtifact{}, services.Wrap(services.ErrTransient, s.Name(), "write placeholder",
				"failed to write placeholder final video", err)
		}
		return FinalArtifact{Path: outPath, Duration: duration, Simulated: true}, nil
	}

	introPath := filepath.Join(dir, "intro.mp4")
	if err := s.media.ClipFromImage(ctx, presenter.Path, "", s.presenterSeconds, res, introPath); err != nil {
		return FinalArtifact{}, services.Wrap(services.ErrExternalTool, s.Name(), "encode intro",
			"failed to encode presenter intro", err)
	}

	paths := make([]string, 0, len(clips)+1)
	paths = append(paths, introPath)
	for _, clip := range clips {
		paths = append(paths, clip.Path)
	}
	if err := s.media.Concat(ctx, paths, res, outPath); err != nil {
		return FinalArtifact{}, services.Wrap(services.ErrExternalTool, s.Name(), "concatenate clips",
			"failed to concatenate clips", err)
	}
	return FinalArtifact{Path: outPath, Duration: duration, Simulated: simulated}, nil
}

// HealthCheck reports degraded when ffmpeg is missing.
func (s *AssemblyStage) HealthCheck(ctx context.Context) Health {
	if s.media == nil || !s.media.Available() {
		return Degraded(s.Name(), "ffmpeg not found, final video will be a placeholder")
	}
	return Healthy(s.Name())
}
