package queue

import (
	"strings"
	"time"

	"slidecast/internal/quality"
)

// Status represents the lifecycle of a generation job. Transitions only move
// forward: pending -> processing -> completed|failed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// DaemonStopReason is the error message set when jobs are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return normalized, true
	}
	return "", false
}

// IsTerminal reports whether a status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Result captures the final artifact of a completed job.
type Result struct {
	FinalFile string          `json:"final_file"`
	Score     float64         `json:"quality_score"`
	Simulated bool            `json:"simulated"`
	Metrics   quality.Metrics `json:"metrics"`
}

// Job represents a generation job persisted in SQLite.
type Job struct {
	ID              string
	Title           string
	Status          Status
	Progress        float64
	ProgressMessage string
	ErrorMessage    string
	RequestJSON     string
	ResultJSON      string
	FinalFile       string
	Fingerprint     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

// progressCeiling keeps in-flight progress strictly below 100 so that
// progress == 100 holds exactly when the job is completed.
const progressCeiling = 99.9

// SetProgress updates progress and message. Progress never decreases while a
// job is processing and is capped below 100 until completion.
func (j *Job) SetProgress(percent float64, message string) {
	if percent < j.Progress {
		percent = j.Progress
	}
	if percent > progressCeiling {
		percent = progressCeiling
	}
	j.Progress = percent
	if message = strings.TrimSpace(message); message != "" {
		j.ProgressMessage = message
	}
}

// MarkProcessing transitions the job into the processing state.
func (j *Job) MarkProcessing(message string) {
	j.Status = StatusProcessing
	j.Progress = 0
	j.ProgressMessage = strings.TrimSpace(message)
	j.ErrorMessage = ""
}

// MarkCompleted transitions the job to the completed terminal state.
func (j *Job) MarkCompleted(finalFile, resultJSON string) {
	now := time.Now().UTC()
	j.Status = StatusCompleted
	j.Progress = 100
	j.ProgressMessage = "Completed"
	j.ErrorMessage = ""
	j.FinalFile = finalFile
	j.ResultJSON = resultJSON
	j.CompletedAt = &now
}

// MarkFailed transitions the job to the failed terminal state.
func (j *Job) MarkFailed(message string) {
	now := time.Now().UTC()
	j.Status = StatusFailed
	j.ErrorMessage = strings.TrimSpace(message)
	j.ProgressMessage = j.ErrorMessage
	j.CompletedAt = &now
}

// IsProcessing returns true when the job reflects an in-flight pipeline run.
func (j *Job) IsProcessing() bool {
	return j.Status == StatusProcessing
}

// HealthSummary describes aggregated job counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
}
