package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"slidecast/internal/config"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/notifications"
	"slidecast/internal/pipeline"
	"slidecast/internal/queue"
	"slidecast/internal/services"
	"slidecast/internal/staging"
)

// ErrQueueFull rejects new submissions while the active job limit is reached.
var ErrQueueFull = errors.New("queue full")

// ErrNotReady marks download requests for jobs that have not completed.
var ErrNotReady = errors.New("job not completed")

// Workflow is the slice of the worker pool the API reports on.
type Workflow interface {
	Running() bool
	ActiveJobs() []string
}

// JobService implements the operations behind the HTTP API and the CLI.
type JobService struct {
	cfg          *config.Config
	store        *queue.Store
	artifacts    *staging.Store
	orchestrator *pipeline.Orchestrator
	workflow     Workflow
	notifier     notifications.Notifier
	logger       *slog.Logger
}

// NewJobService wires the service. workflow may be nil for CLI contexts that
// only inspect the store.
func NewJobService(cfg *config.Config, store *queue.Store, artifacts *staging.Store, orchestrator *pipeline.Orchestrator, workflow Workflow, notifier notifications.Notifier, logger *slog.Logger) *JobService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &JobService{
		cfg:          cfg,
		store:        store,
		artifacts:    artifacts,
		orchestrator: orchestrator,
		workflow:     workflow,
		notifier:     notifier,
		logger:       logger,
	}
}

// Create validates and enqueues a generation request. Admission control
// rejects the request with ErrQueueFull when too many jobs are in flight.
func (s *JobService) Create(ctx context.Context, request *deck.Deck) (*queue.Job, error) {
	if request == nil {
		return nil, services.Wrap(services.ErrValidation, "api", "create job", "request body is required", nil)
	}
	request.Normalize()
	if err := request.Validate(); err != nil {
		return nil, err
	}

	if limit := s.cfg.Workflow.MaxActiveJobs; limit > 0 {
		active, err := s.store.CountActive(ctx)
		if err != nil {
			return nil, err
		}
		if active >= limit {
			return nil, fmt.Errorf("%w: %d jobs already active", ErrQueueFull, active)
		}
	}

	job, err := s.store.NewJob(ctx, request)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job queued",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("title", job.Title))
	if s.notifier != nil {
		s.notifier.JobQueued(ctx, job.Title)
	}
	return job, nil
}

// Get returns one job by id, or services.ErrNotFound.
func (s *JobService) Get(ctx context.Context, id string) (*queue.Job, error) {
	job, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "get job",
			fmt.Sprintf("no job with id %q", id), nil)
	}
	return job, nil
}

// List returns jobs, optionally filtered to the given statuses.
func (s *JobService) List(ctx context.Context, statuses ...queue.Status) ([]*queue.Job, error) {
	return s.store.List(ctx, statuses...)
}

// Delete removes a job record and, for completed jobs, its promoted video.
func (s *JobService) Delete(ctx context.Context, id string) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.FinalFile != "" {
		if err := s.artifacts.RemoveArtifact(job.FinalFile); err != nil {
			s.logger.Warn("failed to remove final artifact",
				logging.String(logging.FieldJobID, id),
				logging.String("path", job.FinalFile),
				logging.Error(err))
		}
	}
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "api", "delete job",
			fmt.Sprintf("no job with id %q", id), nil)
	}
	s.logger.Info("job deleted", logging.String(logging.FieldJobID, id))
	return nil
}

// DownloadPath resolves the final video for a completed job. Incomplete jobs
// return ErrNotReady; a completed job whose file vanished is ErrNotFound.
func (s *JobService) DownloadPath(ctx context.Context, id string) (string, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Status != queue.StatusCompleted || job.FinalFile == "" {
		return "", fmt.Errorf("%w: job %s is %s", ErrNotReady, id, job.Status)
	}
	if _, err := os.Stat(job.FinalFile); err != nil {
		return "", services.Wrap(services.ErrNotFound, "api", "download",
			"final video is missing from the output directory", err)
	}
	return job.FinalFile, nil
}

// Status aggregates queue counts, worker state and stage health.
func (s *JobService) Status(ctx context.Context) (StatusResponse, error) {
	summary, err := s.store.Health(ctx)
	if err != nil {
		return StatusResponse{}, err
	}

	resp := StatusResponse{
		Workers: s.cfg.Workflow.MaxWorkers,
		Queue: QueueCounts{
			Total:      summary.Total,
			Pending:    summary.Pending,
			Processing: summary.Processing,
			Completed:  summary.Completed,
			Failed:     summary.Failed,
		},
		ActiveJobs: []string{},
	}
	if s.workflow != nil {
		resp.Running = s.workflow.Running()
		resp.ActiveJobs = s.workflow.ActiveJobs()
	}
	if s.artifacts != nil {
		if free, err := s.artifacts.FreeBytes(); err == nil {
			resp.StagingFreeBytes = free
		} else {
			s.logger.Warn("failed to read staging free space", logging.Error(err))
		}
	}
	if s.orchestrator != nil {
		for _, health := range s.orchestrator.HealthChecks(ctx) {
			resp.Stages = append(resp.Stages, StageStatus{
				Name:   health.Name,
				Ready:  health.Ready,
				Detail: health.Detail,
			})
		}
	}
	return resp, nil
}
