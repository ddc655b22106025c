package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/media"
	"slidecast/internal/quality"
	"slidecast/internal/queue"
	"slidecast/internal/render"
	"slidecast/internal/services"
	"slidecast/internal/services/speech"
	"slidecast/internal/staging"
)

// simulatedScoreCap bounds the quality score whenever any fallback artifact
// went into the final video.
const simulatedScoreCap = 0.8

// Orchestrator runs the generation pipeline for one claimed job: presenter
// frame, then per-item narration, slide and clip, then final assembly,
// scoring and promotion into the output library.
type Orchestrator struct {
	cfg     *config.Config
	store   *queue.Store
	staging *staging.Store
	media   *media.Runner
	logger  *slog.Logger

	presenter *PresenterStage
	slides    *SlideStage
	narration *NarrationStage
	clips     *ClipStage
	assembly  *AssemblyStage
}

// NewOrchestrator wires the stages from configuration. The speech client and
// ffmpeg runner degrade to fallbacks when their backends are unavailable.
func NewOrchestrator(cfg *config.Config, store *queue.Store, artifacts *staging.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := media.NewRunner(cfg.FFmpeg)
	client := speech.NewClient(cfg.Speech)
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		staging:   artifacts,
		media:     runner,
		logger:    logger,
		presenter: &PresenterStage{},
		slides:    &SlideStage{},
		narration: NewNarrationStage(client, runner, cfg.Speech.Voice, cfg.Speech.WordsPerSecond, logger),
		clips:     NewClipStage(runner, cfg.Render.DefaultClipSeconds),
		assembly:  NewAssemblyStage(runner, cfg.Render.PresenterSeconds),
	}
}

// HealthChecks reports readiness of every stage in pipeline order.
func (o *Orchestrator) HealthChecks(ctx context.Context) []Health {
	return []Health{
		o.presenter.HealthCheck(ctx),
		o.narration.HealthCheck(ctx),
		o.slides.HealthCheck(ctx),
		o.clips.HealthCheck(ctx),
		o.assembly.HealthCheck(ctx),
	}
}

// Run executes the full pipeline for a claimed job. On success the job is
// marked completed and persisted; on error the caller owns the failure
// transition. The staging directory is removed on every exit path.
func (o *Orchestrator) Run(ctx context.Context, job *queue.Job) error {
	start := time.Now()
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, o.logger)

	request, err := job.Request()
	if err != nil {
		return services.Wrap(services.ErrValidation, "pipeline", "decode request",
			"stored request is not a valid deck", err)
	}
	resolution := request.Resolution()
	renderer := render.New(resolution, o.cfg.Render.TitleOffset)

	jobDir, err := o.staging.JobDir(job.ID, job.Fingerprint)
	if err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "allocate workspace",
			"failed to create staging directory", err)
	}
	defer o.staging.CleanupJob(jobDir, logger)

	logger.Info("starting generation",
		logging.String("title", request.Title),
		logging.Int("items", len(request.Items)),
		logging.String("style", string(request.Style)),
		logging.String("quality", string(request.Quality)))

	o.progress(ctx, job, 5, "Preparing workspace")

	renderStart := time.Now()
	presenterArt, err := o.presenter.Produce(services.WithStage(ctx, o.presenter.Name()), renderer, request.Style, jobDir)
	if err != nil {
		return err
	}
	renderSeconds := time.Since(renderStart).Seconds()
	o.progress(ctx, job, 10, "Rendered presenter frame")

	total := len(request.Items)
	clipArts := make([]ClipArtifact, 0, total)
	var encodeSeconds float64
	narrationSimulated := false

	for i, item := range request.Items {
		narrArt, err := o.narration.Produce(services.WithStage(ctx, o.narration.Name()), i, request.Narration(i), jobDir)
		if err != nil {
			return err
		}
		narrationSimulated = narrationSimulated || narrArt.Simulated

		slideStart := time.Now()
		slideArt, err := o.slides.Produce(services.WithStage(ctx, o.slides.Name()), renderer, i, item, jobDir)
		if err != nil {
			return err
		}
		renderSeconds += time.Since(slideStart).Seconds()

		encodeStart := time.Now()
		clipArt, err := o.clips.Produce(services.WithStage(ctx, o.clips.Name()), slideArt, narrArt, resolution, jobDir)
		if err != nil {
			return err
		}
		encodeSeconds += time.Since(encodeStart).Seconds()
		clipArts = append(clipArts, clipArt)

		percent := 10 + 70*float64(i+1)/float64(total)
		o.progress(ctx, job, percent, fmt.Sprintf("Processed item %d of %d", i+1, total))
	}

	assemblyStart := time.Now()
	finalArt, err := o.assembly.Produce(services.WithStage(ctx, o.assembly.Name()), presenterArt, clipArts, resolution, jobDir)
	if err != nil {
		return err
	}
	encodeSeconds += time.Since(assemblyStart).Seconds()
	o.progress(ctx, job, 90, "Assembled video")

	metrics := o.measure(ctx, finalArt, resolution, metricTimings{
		queued:  start.Sub(job.CreatedAt).Seconds(),
		started: start,
		render:  renderSeconds,
		encode:  encodeSeconds,
	})

	simulated := finalArt.Simulated || narrationSimulated
	score := quality.Score(metrics)
	if simulated && score > simulatedScoreCap {
		score = simulatedScoreCap
	}

	o.progress(ctx, job, 95, "Publishing video")
	finalName := fmt.Sprintf("%s-%s.mp4", slugify(request.Title), shortJobID(job.ID))
	finalPath, err := o.staging.Promote(logger, finalArt.Path, finalName)
	if err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "promote artifact",
			"failed to move final video into output directory", err)
	}

	result := queue.Result{
		FinalFile: finalPath,
		Score:     score,
		Simulated: simulated,
		Metrics:   metrics,
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	job.MarkCompleted(finalPath, string(resultJSON))
	if err := o.store.Update(context.WithoutCancel(ctx), job); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}

	logger.Info("generation completed",
		logging.String("final_file", finalPath),
		logging.Float64("quality_score", score),
		logging.Bool("simulated", simulated),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

type metricTimings struct {
	queued  float64
	started time.Time
	render  float64
	encode  float64
}

// measure collects quality metrics for the final artifact. Real videos are
// probed; placeholder artifacts use the tracked durations and the requested
// resolution.
func (o *Orchestrator) measure(ctx context.Context, final FinalArtifact, res deck.Resolution, timings metricTimings) quality.Metrics {
	metrics := quality.Metrics{
		DurationSeconds:   final.Duration,
		Width:             res.Width,
		Height:            res.Height,
		ProcessingSeconds: time.Since(timings.started).Seconds(),
		QueuedSeconds:     timings.queued,
		RenderSeconds:     timings.render,
		EncodeSeconds:     timings.encode,
	}
	if info, err := os.Stat(final.Path); err == nil {
		metrics.FileSizeBytes = info.Size()
	}
	if !final.Simulated && o.media.Available() {
		if probe, err := o.media.Probe(ctx, final.Path); err == nil {
			if d := probe.DurationSeconds(); d > 0 {
				metrics.DurationSeconds = d
			}
			if w, h := probe.VideoResolution(); w > 0 && h > 0 {
				metrics.Width = w
				metrics.Height = h
			}
		} else {
			o.logger.Warn("failed to probe final video, using tracked metrics", logging.Error(err))
		}
	}
	return metrics
}

// progress persists a monotonic progress update. Persistence errors are
// logged and swallowed so a flaky write never fails the whole job.
func (o *Orchestrator) progress(ctx context.Context, job *queue.Job, percent float64, message string) {
	job.SetProgress(percent, message)
	if err := o.store.Update(ctx, job); err != nil {
		o.logger.Warn("failed to persist progress",
			logging.String(logging.FieldJobID, job.ID),
			logging.Float64("progress", percent),
			logging.Error(err))
	}
}

// slugify derives a filesystem-safe name fragment from the deck title.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
		if b.Len() >= 40 {
			break
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "video"
	}
	return slug
}

func shortJobID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
