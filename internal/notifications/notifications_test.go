package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"slidecast/internal/config"
	"slidecast/internal/logging"
	"slidecast/internal/notifications"
)

type captured struct {
	title string
	body  string
}

func newCapturingServer(t *testing.T, sink *[]captured) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read notification body: %v", err)
		}
		*sink = append(*sink, captured{title: r.Header.Get("Title"), body: string(body)})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDisabledServiceDropsEvents(t *testing.T) {
	service := notifications.NewService(config.Notifications{}, logging.NewNop())
	if service.Enabled() {
		t.Fatal("empty topic should disable the service")
	}

	ctx := context.Background()
	service.JobQueued(ctx, "Title")
	service.JobCompleted(ctx, "Title", 0.9)
	service.JobFailed(ctx, "Title", "reason")

	if err := service.Test(ctx); err == nil {
		t.Fatal("Test should fail without a topic")
	}
}

func TestEventsDeliverToTopicURL(t *testing.T) {
	var got []captured
	server := newCapturingServer(t, &got)

	service := notifications.NewService(config.Notifications{
		NtfyTopic:    server.URL,
		JobQueued:    true,
		JobCompleted: true,
		JobFailed:    true,
	}, logging.NewNop())

	ctx := context.Background()
	service.JobQueued(ctx, "My Video")
	service.JobCompleted(ctx, "My Video", 0.875)
	service.JobFailed(ctx, "My Video", "encoder exploded")

	if len(got) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(got))
	}
	if got[0].title != "Job queued" {
		t.Fatalf("unexpected first title %q", got[0].title)
	}
	if !strings.Contains(got[1].body, "0.875") {
		t.Fatalf("completed body missing score: %q", got[1].body)
	}
	if !strings.Contains(got[2].body, "encoder exploded") {
		t.Fatalf("failed body missing reason: %q", got[2].body)
	}
}

func TestEventTogglesAreHonored(t *testing.T) {
	var got []captured
	server := newCapturingServer(t, &got)

	service := notifications.NewService(config.Notifications{
		NtfyTopic:    server.URL,
		JobQueued:    false,
		JobCompleted: true,
		JobFailed:    false,
	}, logging.NewNop())

	ctx := context.Background()
	service.JobQueued(ctx, "Video")
	service.JobCompleted(ctx, "Video", 0.5)
	service.JobFailed(ctx, "Video", "nope")

	if len(got) != 1 || got[0].title != "Video ready" {
		t.Fatalf("expected only the completion event, got %#v", got)
	}
}

func TestTestReturnsDeliveryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	service := notifications.NewService(config.Notifications{NtfyTopic: server.URL}, logging.NewNop())
	if err := service.Test(context.Background()); err == nil {
		t.Fatal("expected delivery error for 403")
	}
}
