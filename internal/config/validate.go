package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.PresenterSeconds <= 0 {
		return errors.New("render.presenter_seconds must be positive")
	}
	if c.Render.DefaultClipSeconds <= 0 {
		return errors.New("render.default_clip_seconds must be positive")
	}
	if c.Render.TitleOffset <= 0 || c.Render.TitleOffset >= 1 {
		return errors.New("render.title_offset must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.TimeoutSeconds <= 0 {
		return errors.New("speech.timeout_seconds must be positive")
	}
	if c.Speech.WordsPerSecond <= 0 {
		return errors.New("speech.words_per_second must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.MaxWorkers <= 0 {
		return errors.New("workflow.max_workers must be positive")
	}
	if c.Workflow.MaxActiveJobs < c.Workflow.MaxWorkers {
		return fmt.Errorf("workflow.max_active_jobs must be at least max_workers (%d)", c.Workflow.MaxWorkers)
	}
	if c.Workflow.JobTimeoutSeconds <= 0 {
		return errors.New("workflow.job_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
