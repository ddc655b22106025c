package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/services"
)

// Request describes one narration synthesis call.
type Request struct {
	Text     string `json:"text"`
	Voice    string `json:"voice,omitempty"`
	Language string `json:"language,omitempty"`
}

// Client converts narration text into speech audio.
type Client interface {
	// Synthesize returns encoded audio for the request.
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	// Available reports whether the provider can currently serve requests.
	Available(ctx context.Context) bool
}

// NewClient builds a speech client from configuration. Returns nil when the
// provider is disabled or no endpoint is configured; callers treat a nil
// client as permanently unavailable and use the fallback path.
func NewClient(cfg config.Speech) Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if !cfg.Enabled || endpoint == "" {
		return nil
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &httpClient{
		endpoint: endpoint,
		voice:    strings.TrimSpace(cfg.Voice),
		client:   &http.Client{Timeout: timeout},
	}
}

type httpClient struct {
	endpoint string
	voice    string
	client   *http.Client
}

// maxAudioBytes bounds a single synthesis response.
const maxAudioBytes = 64 << 20

func (c *httpClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrValidation, "narration", "synthesize", "empty narration text", nil)
	}
	if req.Voice == "" {
		req.Voice = c.voice
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/wav, audio/*")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderUnavailable, "narration", "synthesize", "speech provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		return nil, services.Wrap(services.ErrProviderUnavailable, "narration", "synthesize",
			fmt.Sprintf("speech provider returned %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalTool, "narration", "synthesize",
			fmt.Sprintf("speech provider returned %d", resp.StatusCode), nil)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "narration", "read audio", "failed to read synthesis response", err)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrProviderUnavailable, "narration", "read audio", "speech provider returned empty audio", nil)
	}
	return audio, nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// IsUnavailable reports whether an error marks the provider as degraded
// rather than the request as invalid.
func IsUnavailable(err error) bool {
	return errors.Is(err, services.ErrProviderUnavailable)
}
