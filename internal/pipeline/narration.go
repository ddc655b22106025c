package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"slidecast/internal/language"
	"slidecast/internal/logging"
	"slidecast/internal/media"
	"slidecast/internal/services/speech"
)

// NarrationStage turns narration text into an audio track. When the speech
// provider is unavailable the stage falls back to timed silence so that the
// rest of the pipeline can proceed; the artifact is marked simulated.
type NarrationStage struct {
	client         speech.Client
	media          *media.Runner
	voice          string
	wordsPerSecond float64
	logger         *slog.Logger
}

// NewNarrationStage wires the speech client and probe runner into the stage.
// client may be nil when synthesis is disabled by configuration.
func NewNarrationStage(client speech.Client, runner *media.Runner, voice string, wordsPerSecond float64, logger *slog.Logger) *NarrationStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NarrationStage{
		client:         client,
		media:          runner,
		voice:          voice,
		wordsPerSecond: wordsPerSecond,
		logger:         logger,
	}
}

func (s *NarrationStage) Name() string { return "narration" }

// Produce synthesizes the narration for one item. The detected language is
// passed through to the provider and recorded on the artifact.
func (s *NarrationStage) Produce(ctx context.Context, index int, text, dir string) (NarrationArtifact, error) {
	if err := ctx.Err(); err != nil {
		return NarrationArtifact{}, err
	}
	lang := language.Detect(text)

	// An item with no narration text yields no audio track; the clip stage
	// picks its default duration for pathless artifacts.
	if strings.TrimSpace(text) == "" {
		return NarrationArtifact{Index: index, Language: lang}, nil
	}

	if s.client != nil {
		audio, err := s.client.Synthesize(ctx, speech.Request{Text: text, Voice: s.voice, Language: lang})
		if err == nil {
			path := filepath.Join(dir, fmt.Sprintf("narration-%03d.audio", index))
			writeErr := os.WriteFile(path, audio, 0o644)
			if writeErr == nil {
				return NarrationArtifact{
					Index:    index,
					Path:     path,
					Duration: s.audioDuration(ctx, path, text),
					Language: lang,
				}, nil
			}
			s.logger.Warn("failed to persist synthesized narration, falling back to silence",
				logging.Int("item", index),
				logging.Error(writeErr))
		} else if speech.IsUnavailable(err) {
			s.logger.Warn("speech provider unavailable, falling back to silence",
				logging.String(logging.FieldStage, s.Name()),
				logging.Error(err))
		} else {
			return NarrationArtifact{}, err
		}
	}

	return s.silence(index, text, lang, dir)
}

// silence writes a WAV of zeros sized to the estimated spoken duration.
func (s *NarrationStage) silence(index int, text, lang, dir string) (NarrationArtifact, error) {
	duration := speech.EstimateSpokenSeconds(text, s.wordsPerSecond)
	path := filepath.Join(dir, fmt.Sprintf("narration-%03d.wav", index))
	if err := speech.WriteSilenceWAV(path, duration); err != nil {
		return NarrationArtifact{}, err
	}
	return NarrationArtifact{
		Index:     index,
		Path:      path,
		Duration:  duration,
		Language:  lang,
		Simulated: true,
	}, nil
}

// audioDuration probes the synthesized track when ffprobe is present and
// falls back to the speaking-rate estimate otherwise.
func (s *NarrationStage) audioDuration(ctx context.Context, path, text string) float64 {
	if s.media != nil && s.media.Available() {
		if probe, err := s.media.Probe(ctx, path); err == nil {
			if d := probe.DurationSeconds(); d > 0 {
				return d
			}
		}
	}
	return speech.EstimateSpokenSeconds(text, s.wordsPerSecond)
}

// HealthCheck reports degraded when the provider cannot be reached; the
// stage still works through the silence fallback.
func (s *NarrationStage) HealthCheck(ctx context.Context) Health {
	if s.client == nil {
		return Degraded(s.Name(), "speech synthesis disabled, narration will be silence")
	}
	if !s.client.Available(ctx) {
		return Degraded(s.Name(), "speech provider unreachable, narration will be silence")
	}
	return Healthy(s.Name())
}
