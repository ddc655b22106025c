package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/logging"
	"slidecast/internal/notifications"
	"slidecast/internal/pipeline"
	"slidecast/internal/queue"
	"slidecast/internal/services"
	"slidecast/internal/staging"
)

// Manager drives the worker pool: it claims pending jobs from the store,
// runs them through the pipeline with a per-job deadline, and converts
// pipeline errors into failed job records.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	artifacts    *staging.Store
	orchestrator *pipeline.Orchestrator
	notifier     notifications.Notifier
	logger       *slog.Logger

	pollInterval  time.Duration
	retryInterval time.Duration
	jobTimeout    time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	activeMu sync.Mutex
	active   map[string]struct{}
}

// NewManager wires the workflow from its collaborators. notifier may be a
// disabled service but must not be nil.
func NewManager(cfg *config.Config, store *queue.Store, artifacts *staging.Store, orchestrator *pipeline.Orchestrator, notifier notifications.Notifier, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:           cfg,
		store:         store,
		artifacts:     artifacts,
		orchestrator:  orchestrator,
		notifier:      notifier,
		logger:        logger,
		pollInterval:  secondsOrDefault(cfg.Workflow.QueuePollInterval, 2*time.Second),
		retryInterval: secondsOrDefault(cfg.Workflow.ErrorRetryInterval, 5*time.Second),
		jobTimeout:    secondsOrDefault(cfg.Workflow.JobTimeoutSeconds, 30*time.Minute),
		active:        make(map[string]struct{}),
	}
}

// Start recovers interrupted jobs, then launches the worker pool and the
// stale staging sweeper. It returns immediately; workers run until Stop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return fmt.Errorf("workflow manager already started")
	}

	recovered, err := m.store.FailStuckProcessing(ctx, "Interrupted by daemon restart")
	if err != nil {
		return fmt.Errorf("recover interrupted jobs: %w", err)
	}
	if recovered > 0 {
		m.logger.Info("failed interrupted jobs from previous run", logging.Int("count", int(recovered)))
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.running = true

	workers := m.cfg.Workflow.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.workerLoop(runCtx, i)
	}

	m.wg.Add(1)
	go m.janitorLoop(runCtx)

	m.logger.Info("workflow started",
		logging.Int("workers", workers),
		logging.Duration("poll_interval", m.pollInterval))
	return nil
}

// Stop cancels the workers and waits for in-flight jobs to settle.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("workflow stopped")
}

// Running reports whether the worker pool is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// ActiveJobs returns the ids of jobs currently being processed.
func (m *Manager) ActiveJobs() []string {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	return ids
}

// workerLoop claims and processes jobs until the run context is cancelled.
func (m *Manager) workerLoop(ctx context.Context, worker int) {
	defer m.wg.Done()
	logger := m.logger.With(logging.Int("worker", worker))

	for {
		if ctx.Err() != nil {
			return
		}
		job, err := m.store.ClaimNextPending(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("failed to claim pending job", logging.Error(err))
			if !sleepCtx(ctx, m.retryInterval) {
				return
			}
			continue
		}
		if job == nil {
			if !sleepCtx(ctx, m.pollInterval) {
				return
			}
			continue
		}
		m.processJob(ctx, logger, job)
	}
}

// processJob runs one claimed job with the configured deadline and owns the
// failure transition when the pipeline errors out.
func (m *Manager) processJob(ctx context.Context, logger *slog.Logger, job *queue.Job) {
	m.trackActive(job.ID, true)
	defer m.trackActive(job.ID, false)

	jobCtx, cancel := context.WithTimeout(ctx, m.jobTimeout)
	defer cancel()

	logger.Info("processing job",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("title", job.Title))

	err := m.orchestrator.Run(jobCtx, job)
	if err == nil {
		if result, resultErr := job.Result(); resultErr == nil && result != nil {
			m.notifier.JobCompleted(context.WithoutCancel(ctx), job.Title, result.Score)
		}
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		err = services.Wrap(services.ErrTimeout, "pipeline", "run",
			fmt.Sprintf("job exceeded the %s deadline", m.jobTimeout), err)
	}
	m.failJob(context.WithoutCancel(ctx), logger, job, err)
}

// failJob persists the failed state and announces it. Daemon shutdown is
// recorded with its own reason so restarts can tell the cases apart.
func (m *Manager) failJob(ctx context.Context, logger *slog.Logger, job *queue.Job, cause error) {
	details := services.Details(cause)
	message := details.Message
	if message == "" {
		message = cause.Error()
	}
	if errors.Is(cause, context.Canceled) {
		message = queue.DaemonStopReason
	}

	job.MarkFailed(message)
	if err := m.store.Update(ctx, job); err != nil {
		logger.Error("failed to persist job failure",
			logging.String(logging.FieldJobID, job.ID),
			logging.Error(err))
		return
	}

	logger.Error("job failed",
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldErrorKind, details.Kind),
		logging.String(logging.FieldStage, details.Stage),
		logging.Error(cause))
	m.notifier.JobFailed(ctx, job.Title, message)
}

// janitorLoop periodically sweeps stale staging directories left behind by
// crashed runs.
func (m *Manager) janitorLoop(ctx context.Context) {
	defer m.wg.Done()

	maxAge := time.Duration(m.cfg.Workflow.StagingMaxAgeHours) * time.Hour
	if maxAge <= 0 {
		return
	}
	interval := maxAge / 4
	if interval > time.Hour {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.sweep(maxAge)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(maxAge)
		}
	}
}

func (m *Manager) sweep(maxAge time.Duration) {
	result := staging.CleanStale(m.artifacts.StagingDir(), maxAge, m.logger)
	if len(result.Removed) > 0 {
		m.logger.Info("swept stale staging directories", logging.Int("removed", len(result.Removed)))
	}
}

func (m *Manager) trackActive(id string, add bool) {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()
	if add {
		m.active[id] = struct{}{}
	} else {
		delete(m.active, id)
	}
}

// sleepCtx waits for the duration or cancellation, reporting false when the
// context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func secondsOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
