package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"slidecast/internal/api"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/queue"
	"slidecast/internal/services"
)

const maxRequestBody = 1 << 20

// APIServer exposes the job service over HTTP on the configured bind address.
type APIServer struct {
	service *api.JobService
	logger  *slog.Logger
	server  *http.Server
}

// NewAPIServer builds the server and its route table. token guards every
// route when non-empty.
func NewAPIServer(bind, token string, service *api.JobService, logger *slog.Logger) *APIServer {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &APIServer{service: service, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/jobs", s.handleCreate)
	mux.HandleFunc("GET /api/jobs", s.handleList)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGet)
	mux.HandleFunc("GET /api/jobs/{id}/download", s.handleDownload)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	s.server = &http.Server{
		Addr:              bind,
		Handler:           requireToken(token, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving in a goroutine. Listen errors after startup are
// logged through the returned channel consumer in Daemon.Run.
func (s *APIServer) Start() (net.Addr, error) {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", logging.Error(err))
		}
	}()
	s.logger.Info("api server listening", logging.String("addr", listener.Addr().String()))
	return listener.Addr(), nil
}

// Shutdown drains in-flight requests.
func (s *APIServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the route table for tests.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *APIServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	var request deck.Deck
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	job, err := s.service.Create(r.Context(), &request)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, api.ToJobResponse(job))
}

func (s *APIServer) handleList(w http.ResponseWriter, r *http.Request) {
	var statuses []queue.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := queue.ParseStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown status filter: "+raw)
			return
		}
		statuses = append(statuses, status)
	}

	jobs, err := s.service.List(r.Context(), statuses...)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ToJobListResponse(jobs))
}

func (s *APIServer) handleGet(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ToJobResponse(job))
}

func (s *APIServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, err := s.service.DownloadPath(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, path)
}

func (s *APIServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Status(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// writeServiceError maps service errors onto HTTP statuses.
func (s *APIServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, api.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, api.ErrNotReady):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("api request failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: message})
}
