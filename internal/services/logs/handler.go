package logs

import (
	"github.com/silvanei/simple-log-viewer/internal/broadcast"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

// Registrar accepts typed event handlers.
type Registrar interface {
	Register(handler any) error
}

// StreamChannelHandler bridges domain events onto a broadcast channel.
// StreamCreated subscribes the client's sink; LogReceived and LogCleared
// publish the corresponding notification to everyone subscribed.
type StreamChannelHandler struct {
	channel *broadcast.Channel
	logger  logpkg.Logger
}

func NewStreamChannelHandler(channel *broadcast.Channel, logger logpkg.Logger) *StreamChannelHandler {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	return &StreamChannelHandler{
		channel: channel,
		logger:  logger.With(logpkg.Component("stream")),
	}
}

// Register wires the handler's methods onto bus.
func (h *StreamChannelHandler) Register(bus Registrar) error {
	if err := bus.Register(h.HandleStreamCreated); err != nil {
		return err
	}
	if err := bus.Register(h.HandleLogReceived); err != nil {
		return err
	}
	return bus.Register(h.HandleLogCleared)
}

// HandleStreamCreated subscribes the sink and detaches it again when the
// client goes away.
func (h *StreamChannelHandler) HandleStreamCreated(e StreamCreated) {
	if err := h.channel.Subscribe(e.Sink, e.LastEventID); err != nil {
		h.logger.Warn("subscribe failed", logpkg.Err(err))
		return
	}
	go func() {
		<-e.Sink.Context().Done()
		h.channel.Unsubscribe(e.Sink)
	}()
}

func (h *StreamChannelHandler) HandleLogReceived(e LogReceived) {
	h.channel.Publish(e.Message)
}

func (h *StreamChannelHandler) HandleLogCleared(e LogCleared) {
	h.channel.Publish(e.Message)
}
