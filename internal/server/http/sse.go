package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/silvanei/simple-log-viewer/internal/broadcast"
)

// sseSink writes broadcast messages to an SSE response. The message ID
// becomes the SSE event id so clients can resume with Last-Event-ID.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

func (s sseSink) Send(msg broadcast.Message) error {
	_, err := fmt.Fprintf(s.w, "id: %d\ndata: %s\n\n", msg.ID, msg.Data)
	return err
}

func (s sseSink) Context() context.Context { return s.r.Context() }

func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
