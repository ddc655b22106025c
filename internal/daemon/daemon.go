package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"slidecast/internal/api"
	"slidecast/internal/config"
	"slidecast/internal/deps"
	"slidecast/internal/logging"
	"slidecast/internal/notifications"
	"slidecast/internal/pipeline"
	"slidecast/internal/queue"
	"slidecast/internal/staging"
	"slidecast/internal/workflow"
)

// Daemon owns the long-running process: the single-instance lock, the job
// store, the worker pool and the HTTP API.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	lock      *flock.Flock
	store     *queue.Store
	artifacts *staging.Store
	manager   *workflow.Manager
	service   *api.JobService
	server    *APIServer
}

// New wires the daemon from configuration. Nothing starts until Run.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}

	artifacts, err := staging.NewStore(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	notifier := notifications.NewService(cfg.Notifications, logger)
	orchestrator := pipeline.NewOrchestrator(cfg, store, artifacts, logger)
	manager := workflow.NewManager(cfg, store, artifacts, orchestrator, notifier, logger)
	service := api.NewJobService(cfg, store, artifacts, orchestrator, manager, notifier, logger)
	server := NewAPIServer(cfg.Paths.APIBind, cfg.Paths.APIToken, service, logger)

	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		lock:      flock.New(filepath.Join(cfg.Paths.LogDir, "slidecastd.lock")),
		store:     store,
		artifacts: artifacts,
		manager:   manager,
		service:   service,
		server:    server,
	}, nil
}

// Run starts the daemon and blocks until the context is cancelled, then
// shuts everything down in reverse order.
func (d *Daemon) Run(ctx context.Context) error {
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another slidecastd instance holds %s", d.lock.Path())
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()
	defer d.store.Close()

	for _, status := range deps.CheckBinaries(deps.ForConfig(d.cfg.FFmpeg.Binary, d.cfg.FFmpeg.ProbeBinary)) {
		if !status.Available {
			d.logger.Warn("external dependency missing",
				logging.String("name", status.Name),
				logging.String("detail", status.Detail))
		}
	}

	if err := d.manager.Start(ctx); err != nil {
		return err
	}
	defer d.manager.Stop()

	if _, err := d.server.Start(); err != nil {
		d.manager.Stop()
		return fmt.Errorf("start api server: %w", err)
	}

	d.logger.Info("daemon started",
		logging.String("bind", d.cfg.Paths.APIBind),
		logging.String("db", d.store.Path()))

	<-ctx.Done()
	d.logger.Info("daemon stopping")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
	return nil
}

// Service exposes the job service for in-process callers.
func (d *Daemon) Service() *api.JobService { return d.service }

// Store exposes the job store for in-process callers.
func (d *Daemon) Store() *queue.Store { return d.store }
