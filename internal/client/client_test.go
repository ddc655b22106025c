package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"slidecast/internal/api"
	"slidecast/internal/client"
	"slidecast/internal/deck"
)

func TestCreateJobSendsTokenAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tkn" {
			t.Errorf("missing bearer token, got %q", got)
		}
		var request deck.Deck
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(api.JobResponse{ID: "job-1", Title: request.Title, Status: "pending"})
	}))
	defer server.Close()

	c := client.New(server.URL, "tkn")
	job, err := c.CreateJob(context.Background(), &deck.Deck{
		Title: "From Client",
		Items: []deck.Item{{Title: "A", Body: "B"}},
	})
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if job.ID != "job-1" || job.Title != "From Client" {
		t.Fatalf("unexpected job %#v", job)
	}
}

func TestErrorBodiesSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "job not completed"})
	}))
	defer server.Close()

	c := client.New(server.URL, "")
	err := c.Download(context.Background(), "job-1", filepath.Join(t.TempDir(), "x.mp4"))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "daemon returned 409: job not completed" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestUnreachableDaemonIsClassified(t *testing.T) {
	c := client.New("127.0.0.1:1", "")
	_, err := c.Status(context.Background())
	if !errors.Is(err, client.ErrDaemonUnreachable) {
		t.Fatalf("expected ErrDaemonUnreachable, got %v", err)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("video-payload"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.mp4")
	c := client.New(server.URL, "")
	if err := c.Download(context.Background(), "job-1", dest); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	payload, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(payload) != "video-payload" {
		t.Fatalf("unexpected payload %q", payload)
	}
}

func TestBareHostPortGetsScheme(t *testing.T) {
	c := client.New("127.0.0.1:1", "")
	// The request must fail with a connection error, not a URL parse error.
	_, err := c.ListJobs(context.Background(), "")
	if !errors.Is(err, client.ErrDaemonUnreachable) {
		t.Fatalf("expected connection failure, got %v", err)
	}
}
