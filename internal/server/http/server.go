package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/silvanei/simple-log-viewer/internal/logstore"
	"github.com/silvanei/simple-log-viewer/internal/runtime"
	logsvc "github.com/silvanei/simple-log-viewer/internal/services/logs"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

const maxBodyBytes = 1 << 20

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logs   *logsvc.Service
	logger logpkg.Logger
}

func New(rt *runtime.Runtime, logs *logsvc.Service, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	mux := http.NewServeMux()
	s := &Server{
		rt:     rt,
		logs:   logs,
		srv:    &http.Server{Handler: cors(mux)},
		logger: logger.With(logpkg.Component("http")),
	}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/api/logs", s.handleReceiveLog)
	mux.HandleFunc("/api/logs/clear", s.handleClearLogs)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/logs-stream", s.handleLogsStreamSSE)
	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http server listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Last-Event-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_serving"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReceiveLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	entry, err := logstore.ParseEntry(body)
	if err != nil {
		var verr *logstore.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Fields})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.logs.Add(entry); err != nil {
		s.logger.Error("store log entry", logpkg.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("Received log"))
}

func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.logs.Clear(); err != nil {
		s.logger.Error("clear log entries", logpkg.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	views := s.logs.Search(r.URL.Query().Get("search"))
	if views == nil {
		views = []logstore.EntryView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":      views,
		"totalResults": len(views),
	})
}

func (s *Server) handleLogsStreamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	s.logs.CreateChannelStream(sseSink{w: w, r: r}, r.Header.Get("Last-Event-ID"))
	<-r.Context().Done()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
