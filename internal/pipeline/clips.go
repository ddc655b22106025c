package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"slidecast/internal/deck"
	"slidecast/internal/media"
	"slidecast/internal/services"
)

// ClipStage pairs a slide frame with its narration track and encodes the
// per-item video segment. Without ffmpeg it writes a simulated container so
// the job can still complete end to end.
type ClipStage struct {
	media          *media.Runner
	defaultSeconds float64
}

// NewClipStage wires the encoder runner into the stage. defaultSeconds is
// the clip length used when an item has no narration at all.
func NewClipStage(runner *media.Runner, defaultSeconds float64) *ClipStage {
	return &ClipStage{media: runner, defaultSeconds: defaultSeconds}
}

func (s *ClipStage) Name() string { return "clips" }

// Produce encodes one clip from a slide and its narration.
func (s *ClipStage) Produce(ctx context.Context, slide SlideArtifact, narration NarrationArtifact, res deck.Resolution, dir string) (ClipArtifact, error) {
	if err := ctx.Err(); err != nil {
		return ClipArtifact{}, err
	}
	duration := narration.Duration
	if duration <= 0 {
		duration = s.defaultSeconds
	}
	outPath := filepath.Join(dir, fmt.Sprintf("clip-%03d.mp4", slide.Index))

	if s.media == nil || !s.media.Available() {
		if err := writeSimulatedClip(outPath, slide.Path, narration.Path); err != nil {
			return ClipArtifact{}, services.Wrap(services.ErrTransient, s.Name(), "write placeholder",
				fmt.Sprintf("failed to write placeholder clip %d", slide.Index), err)
		}
		return ClipArtifact{Index: slide.Index, Path: outPath, Duration: duration, Simulated: true}, nil
	}

	if err := s.media.ClipFromImage(ctx, slide.Path, narration.Path, duration, res, outPath); err != nil {
		return ClipArtifact{}, services.Wrap(services.ErrExternalTool, s.Name(), "encode clip",
			fmt.Sprintf("failed to encode clip %d", slide.Index), err)
	}
	return ClipArtifact{Index: slide.Index, Path: outPath, Duration: duration, Simulated: narration.Simulated}, nil
}

// HealthCheck reports degraded when ffmpeg is missing; clips fall back to
// placeholder containers in that case.
func (s *ClipStage) HealthCheck(ctx context.Context) Health {
	if s.media == nil || !s.media.Available() {
		return Degraded(s.Name(), "ffmpeg not found, clips will be placeholders")
	}
	return Healthy(s.Name())
}

// writeSimulatedClip concatenates the frame and audio bytes into the output
// file. The result is not playable but exercises the same artifact paths.
func writeSimulatedClip(outPath string, sources ...string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	for _, src := range sources {
		if src == "" {
			continue
		}
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, in)
		in.Close()
		if err != nil {
			return err
		}
	}
	return out.Sync()
}
