// Package notifications sends job lifecycle push notifications through ntfy.
// An unconfigured topic yields a no-op service so callers never nil-check.
package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/logging"
)

// Notifier is the interface the workflow uses to announce job events.
type Notifier interface {
	JobQueued(ctx context.Context, title string)
	JobCompleted(ctx context.Context, title string, score float64)
	JobFailed(ctx context.Context, title, reason string)
	Test(ctx context.Context) error
}

// Service delivers notifications to an ntfy topic.
type Service struct {
	topic   string
	client  *http.Client
	logger  *slog.Logger
	onQueue bool
	onDone  bool
	onFail  bool
}

// NewService builds a notifier from configuration. When no topic is set the
// returned service silently drops every event.
func NewService(cfg config.Notifications, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		topic:   strings.TrimSpace(cfg.NtfyTopic),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		onQueue: cfg.JobQueued,
		onDone:  cfg.JobCompleted,
		onFail:  cfg.JobFailed,
	}
}

// Enabled reports whether a topic is configured.
func (s *Service) Enabled() bool { return s.topic != "" }

// JobQueued announces a newly accepted job.
func (s *Service) JobQueued(ctx context.Context, title string) {
	if !s.onQueue {
		return
	}
	s.publish(ctx, "Job queued", fmt.Sprintf("%s is waiting for a worker", title), "hourglass_flowing_sand")
}

// JobCompleted announces a finished video with its quality score.
func (s *Service) JobCompleted(ctx context.Context, title string, score float64) {
	if !s.onDone {
		return
	}
	s.publish(ctx, "Video ready", fmt.Sprintf("%s finished with quality %.3f", title, score), "white_check_mark")
}

// JobFailed announces a failed job with the failure reason.
func (s *Service) JobFailed(ctx context.Context, title, reason string) {
	if !s.onFail {
		return
	}
	s.publish(ctx, "Job failed", fmt.Sprintf("%s failed: %s", title, reason), "x")
}

// Test sends a test notification and returns delivery errors to the caller.
func (s *Service) Test(ctx context.Context) error {
	if !s.Enabled() {
		return fmt.Errorf("no ntfy topic configured")
	}
	return s.send(ctx, "Slidecast test", "Notifications are working", "tada")
}

// publish delivers an event, logging delivery failures instead of returning
// them. Notifications are advisory and never affect job outcomes.
func (s *Service) publish(ctx context.Context, title, message, tags string) {
	if !s.Enabled() {
		return
	}
	if err := s.send(ctx, title, message, tags); err != nil {
		s.logger.Warn("failed to send notification",
			logging.String("title", title),
			logging.Error(err))
	}
}

func (s *Service) send(ctx context.Context, title, message, tags string) error {
	url := "https://ntfy.sh/" + s.topic
	if strings.Contains(s.topic, "://") {
		url = s.topic
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Tags", tags)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}
	return nil
}
