// Package client talks to a running slidecastd over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"slidecast/internal/api"
	"slidecast/internal/deck"
)

// ErrDaemonUnreachable wraps connection failures so callers can suggest
// starting the daemon.
var ErrDaemonUnreachable = errors.New("daemon unreachable")

// Client is an HTTP client for the daemon API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for the given bind address. bind may be a bare
// host:port or a full URL.
func New(bind, token string) *Client {
	base := strings.TrimSpace(bind)
	if base == "" {
		base = "127.0.0.1:7319"
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateJob submits a generation request and returns the accepted job.
func (c *Client) CreateJob(ctx context.Context, request *deck.Deck) (api.JobResponse, error) {
	var out api.JobResponse
	err := c.do(ctx, http.MethodPost, "/api/jobs", request, &out)
	return out, err
}

// GetJob fetches one job by id.
func (c *Client) GetJob(ctx context.Context, id string) (api.JobResponse, error) {
	var out api.JobResponse
	err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, &out)
	return out, err
}

// ListJobs fetches jobs, optionally filtered by status.
func (c *Client) ListJobs(ctx context.Context, status string) (api.JobListResponse, error) {
	path := "/api/jobs"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out api.JobListResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// DeleteJob removes a job and its artifact.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/jobs/"+url.PathEscape(id), nil, nil)
}

// Status fetches the daemon status summary.
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &out)
	return out, err
}

// Download streams a completed job's video into destPath.
func (c *Client) Download(ctx context.Context, id, destPath string) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id)+"/download", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("download video: %w", err)
	}
	return out.Close()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr api.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("daemon returned %d", resp.StatusCode)
}
