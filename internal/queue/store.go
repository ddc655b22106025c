package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"slidecast/internal/config"
	"slidecast/internal/deck"
)

// Store manages job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the job database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "jobs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the job database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// NewJob inserts a pending job for a validated generation request.
func (s *Store) NewJob(ctx context.Context, request *deck.Deck) (*Job, error) {
	if request == nil {
		return nil, errors.New("request is nil")
	}
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	id := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO jobs (
            id, title, status, progress, progress_message,
            request_json, fingerprint, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		nullableString(request.Title),
		StatusPending,
		0.0,
		"Queued",
		string(requestJSON),
		nullableString(request.Fingerprint()),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a job by identifier. Returns nil when the job is unknown.
func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update persists changes to an existing job.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET title = ?, status = ?, progress = ?, progress_message = ?,
             error_message = ?, request_json = ?, result_json = ?, final_file = ?,
             fingerprint = ?, updated_at = ?, completed_at = ?
         WHERE id = ?`,
		nullableString(job.Title),
		job.Status,
		job.Progress,
		nullableString(job.ProgressMessage),
		nullableString(job.ErrorMessage),
		job.RequestJSON,
		nullableString(job.ResultJSON),
		nullableString(job.FinalFile),
		nullableString(job.Fingerprint),
		job.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(job.CompletedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// List returns jobs filtered by status set (or all jobs when no status is
// provided) in insertion order.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + jobColumns + ` FROM jobs`
	orderClause := ` ORDER BY rowid`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ClaimNextPending atomically moves the oldest pending job to processing and
// returns it. Returns nil when no pending job exists. The atomic claim keeps
// pool workers from double-claiming a job; rowid order gives strict FIFO.
func (s *Store) ClaimNextPending(ctx context.Context) (*Job, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	row := s.db.QueryRowContext(
		ctx,
		`UPDATE jobs
         SET status = ?, progress = 0, progress_message = 'Starting', updated_at = ?
         WHERE id = (SELECT id FROM jobs WHERE status = ? ORDER BY rowid LIMIT 1)
         RETURNING `+jobColumns,
		StatusProcessing,
		timestamp,
		StatusPending,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim pending job: %w", err)
	}
	return job, nil
}

// CountActive returns the number of jobs that are pending or processing.
func (s *Store) CountActive(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM jobs WHERE status IN (?, ?)`,
		StatusPending, StatusProcessing,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count active jobs: %w", err)
	}
	return count, nil
}

// FailStuckProcessing marks jobs left in processing as failed. Called during
// startup recovery: a pipeline interrupted mid-run cannot be resumed, and
// terminal states never roll back.
func (s *Store) FailStuckProcessing(ctx context.Context, message string) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET status = ?, error_message = ?, progress_message = ?, completed_at = ?, updated_at = ?
         WHERE status = ?`,
		StatusFailed,
		message,
		message,
		timestamp,
		timestamp,
		StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("fail stuck jobs: %w", err)
	}
	return res.RowsAffected()
}

// Remove deletes a job by identifier.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCompleted removes only completed jobs.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM jobs WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed jobs.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM jobs WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of jobs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates job state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusProcessing:
			health.Processing += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		}
	}
	return health, nil
}

// Request decodes the stored generation request for a job.
func (j *Job) Request() (*deck.Deck, error) {
	var d deck.Deck
	if err := json.Unmarshal([]byte(j.RequestJSON), &d); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &d, nil
}

// Result decodes the stored result for a completed job. Returns nil when no
// result has been recorded.
func (j *Job) Result() (*Result, error) {
	if strings.TrimSpace(j.ResultJSON) == "" {
		return nil, nil
	}
	var r Result
	if err := json.Unmarshal([]byte(j.ResultJSON), &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &r, nil
}

const jobColumns = "id, title, status, progress, progress_message, error_message, request_json, result_json, final_file, fingerprint, created_at, updated_at, completed_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id              string
		title           sql.NullString
		statusStr       string
		progress        sql.NullFloat64
		progressMessage sql.NullString
		errorMessage    sql.NullString
		requestJSON     string
		resultJSON      sql.NullString
		finalFile       sql.NullString
		fingerprint     sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
		completedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&statusStr,
		&progress,
		&progressMessage,
		&errorMessage,
		&requestJSON,
		&resultJSON,
		&finalFile,
		&fingerprint,
		&createdRaw,
		&updatedRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:              id,
		Title:           title.String,
		Status:          Status(statusStr),
		Progress:        progress.Float64,
		ProgressMessage: progressMessage.String,
		ErrorMessage:    errorMessage.String,
		RequestJSON:     requestJSON,
		ResultJSON:      resultJSON.String,
		FinalFile:       finalFile.String,
		Fingerprint:     fingerprint.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			job.CompletedAt = &completed
		}
	}
	return job, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
