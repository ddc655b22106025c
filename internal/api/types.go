package api

import (
	"time"

	"slidecast/internal/quality"
	"slidecast/internal/queue"
)

// JobResponse is the wire representation of a job record.
type JobResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Status          string           `json:"status"`
	Progress        float64          `json:"progress"`
	ProgressMessage string           `json:"progress_message,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	FinalFile       string           `json:"final_file,omitempty"`
	QualityScore    *float64         `json:"quality_score,omitempty"`
	Simulated       *bool            `json:"simulated,omitempty"`
	Metrics         *quality.Metrics `json:"metrics,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

// JobListResponse wraps a job listing with its total count.
type JobListResponse struct {
	Total int           `json:"total"`
	Jobs  []JobResponse `json:"jobs"`
}

// StageStatus describes the readiness of one pipeline stage.
type StageStatus struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// StatusResponse summarizes the daemon for the status endpoint.
type StatusResponse struct {
	Running          bool          `json:"running"`
	Workers          int           `json:"workers"`
	ActiveJobs       []string      `json:"active_jobs"`
	Queue            QueueCounts   `json:"queue"`
	Stages           []StageStatus `json:"stages"`
	StagingFreeBytes uint64        `json:"staging_free_bytes,omitempty"`
}

// QueueCounts reports job totals per lifecycle state.
type QueueCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// ErrorResponse is the body of every non-2xx API reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToJobResponse converts a stored job into its wire form. Completed jobs
// carry their result payload inline.
func ToJobResponse(job *queue.Job) JobResponse {
	resp := JobResponse{
		ID:              job.ID,
		Title:           job.Title,
		Status:          string(job.Status),
		Progress:        job.Progress,
		ProgressMessage: job.ProgressMessage,
		ErrorMessage:    job.ErrorMessage,
		FinalFile:       job.FinalFile,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
		CompletedAt:     job.CompletedAt,
	}
	if result, err := job.Result(); err == nil && result != nil {
		score := result.Score
		simulated := result.Simulated
		metrics := result.Metrics
		resp.QualityScore = &score
		resp.Simulated = &simulated
		resp.Metrics = &metrics
	}
	return resp
}

func ToJobListResponse(jobs []*queue.Job) JobListResponse {
	out := JobListResponse{Total: len(jobs), Jobs: make([]JobResponse, 0, len(jobs))}
	for _, job := range jobs {
		out.Jobs = append(out.Jobs, ToJobResponse(job))
	}
	return out
}
