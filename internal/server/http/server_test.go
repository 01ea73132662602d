package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/silvanei/simple-log-viewer/internal/broadcast"
	cfgpkg "github.com/silvanei/simple-log-viewer/internal/config"
	"github.com/silvanei/simple-log-viewer/internal/eventbus"
	"github.com/silvanei/simple-log-viewer/internal/runtime"
	logsvc "github.com/silvanei/simple-log-viewer/internal/services/logs"
	pebblestore "github.com/silvanei/simple-log-viewer/internal/storage/pebble"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

func newTestServer(t *testing.T) (*Server, *broadcast.Channel) {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeAlways,
		Config:  cfgpkg.Default(),
	})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text"})
	bus := eventbus.New(eventbus.WithLogger(logger))
	channel := broadcast.New(rt.Config().ReplayBuffer, logger)
	if err := logsvc.NewStreamChannelHandler(channel, logger).Register(bus); err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	svc := logsvc.New(rt.Store(), bus, logger)
	return New(rt, svc, logger), channel
}

func postLog(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

const validLogJSON = `{
	"datetime": "2025-04-28T10:00:00+00:00",
	"channel": "app",
	"level": "ERROR",
	"message": "payment failed",
	"context": {"order": 42},
	"extra": []
}`

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestReceiveLogHandler(t *testing.T) {
	s, _ := newTestServer(t)
	w := postLog(t, s, validLogJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: %d, body: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "Received log" {
		t.Fatalf("body: %q", w.Body.String())
	}
}

func TestReceiveLogRejectsWrongContentType(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(validLogJSON))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestReceiveLogValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)
	w := postLog(t, s, `{"datetime":"2025-04-28 10:00:00","channel":"app","level":"LOUD","message":"x embedded in a longer message","context":{}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Errors["datetime"] != "Invalid or missing datetime" {
		t.Fatalf("datetime error: %q", resp.Errors["datetime"])
	}
	if resp.Errors["level"] != "Invalid or missing level" {
		t.Fatalf("level error: %q", resp.Errors["level"])
	}
}

func TestReceiveLogMalformedJSON(t *testing.T) {
	s, _ := newTestServer(t)
	w := postLog(t, s, `{"datetime": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestSearchHandler(t *testing.T) {
	s, _ := newTestServer(t)
	if w := postLog(t, s, validLogJSON); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/search?search=payment", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
	var resp struct {
		Entries      []map[string]any `json:"entries"`
		TotalResults int              `json:"totalResults"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalResults != 1 || len(resp.Entries) != 1 {
		t.Fatalf("results: %+v", resp)
	}
	msg, _ := resp.Entries[0]["message"].(string)
	if !strings.Contains(msg, "⟦payment⟧") {
		t.Fatalf("highlight missing: %q", msg)
	}
}

func TestSearchHandlerEmptyStore(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	var resp struct {
		Entries      []map[string]any `json:"entries"`
		TotalResults int              `json:"totalResults"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Entries == nil || resp.TotalResults != 0 {
		t.Fatalf("expected empty entries array, got %s", w.Body.String())
	}
}

func TestClearHandler(t *testing.T) {
	s, _ := newTestServer(t)
	if w := postLog(t, s, validLogJSON); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/logs/clear", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/search", nil)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"totalResults":0`) {
		t.Fatalf("store not cleared: %s", w.Body.String())
	}
}

func TestLogsStreamReplaysWithLastEventID(t *testing.T) {
	s, _ := newTestServer(t)
	for i := 0; i < 2; i++ {
		if w := postLog(t, s, validLogJSON); w.Code != http.StatusCreated {
			t.Fatalf("seed %d: %d", i, w.Code)
		}
	}

	// A request whose context is already done gets the replay and returns
	// immediately instead of blocking on the live stream.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/logs-stream", nil).WithContext(ctx)
	req.Header.Set("Last-Event-ID", "1")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "id: 2\ndata: Received new log\n\n") {
		t.Fatalf("missing replayed event: %q", body)
	}
	if strings.Contains(body, "id: 1\n") {
		t.Fatalf("replayed already-seen event: %q", body)
	}
}

func TestLogsStreamLiveDelivery(t *testing.T) {
	s, channel := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/logs-stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		s.Handler().ServeHTTP(w, req)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for channel.Subscribers() == 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber never attached")
		case <-time.After(5 * time.Millisecond):
		}
	}

	channel.Publish("Received new log")
	cancel()
	<-done

	if !strings.Contains(w.Body.String(), "id: 1\ndata: Received new log\n\n") {
		t.Fatalf("live event not delivered: %q", w.Body.String())
	}
}
