package broadcast

import (
	"context"
	"strconv"
	"sync"

	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

// DefaultReplayCapacity bounds how many recent messages a channel keeps
// for late joiners resuming with Last-Event-ID.
const DefaultReplayCapacity = 256

// Message is one broadcast payload. ID is a per-channel sequence number
// starting at 1 and never reused, including across clears.
type Message struct {
	ID   uint64
	Data string
}

// Sink receives broadcast messages for a single subscriber. Send errors
// remove the sink from the channel. Context reports subscriber liveness;
// the channel stops delivering once it is done.
type Sink interface {
	Send(msg Message) error
	Context() context.Context
	Flush() error
}

// Channel fans out published messages to the current subscriber set and
// keeps a bounded ring of recent messages so a reconnecting subscriber
// can resume from the last ID it saw.
type Channel struct {
	mu     sync.Mutex
	seq    uint64
	sinks  map[Sink]struct{}
	replay []Message
	cap    int
	logger logpkg.Logger
}

func New(capacity int, logger logpkg.Logger) *Channel {
	if capacity <= 0 {
		capacity = DefaultReplayCapacity
	}
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	return &Channel{
		sinks:  make(map[Sink]struct{}),
		replay: make([]Message, 0, capacity),
		cap:    capacity,
		logger: logger.With(logpkg.Component("broadcast")),
	}
}

// Subscribe adds sink to the channel. When lastEventID parses as an ID
// the ring can still resume from, every buffered message with a strictly
// greater ID is replayed to the sink before it goes live; otherwise the
// sink receives only messages published after this call. An ID that aged
// out of the ring or was never issued gets no retroactive delivery.
// Replay and the liveness transition happen atomically with respect to
// Publish, so no message is delivered twice or skipped.
func (c *Channel) Subscribe(sink Sink, lastEventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if after, ok := parseEventID(lastEventID); ok && c.resumable(after) {
		for _, msg := range c.replay {
			if msg.ID <= after {
				continue
			}
			if err := sink.Send(msg); err != nil {
				return err
			}
		}
		if err := sink.Flush(); err != nil {
			return err
		}
	}

	c.sinks[sink] = struct{}{}
	c.logger.Debug("subscriber added", logpkg.Int("subscribers", len(c.sinks)))
	return nil
}

// Unsubscribe removes sink. Removing a sink that is not subscribed is a
// no-op.
func (c *Channel) Unsubscribe(sink Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sinks[sink]; !ok {
		return
	}
	delete(c.sinks, sink)
	c.logger.Debug("subscriber removed", logpkg.Int("subscribers", len(c.sinks)))
}

// Publish assigns the next sequence ID to data, records it in the replay
// ring, and delivers it to every live subscriber. Sinks whose context is
// done or whose Send fails are dropped; one bad subscriber never blocks
// the rest.
func (c *Channel) Publish(data string) Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	msg := Message{ID: c.seq, Data: data}
	c.replay = append(c.replay, msg)
	if len(c.replay) > c.cap {
		c.replay = c.replay[len(c.replay)-c.cap:]
	}

	for sink := range c.sinks {
		if sink.Context().Err() != nil {
			delete(c.sinks, sink)
			continue
		}
		if err := sink.Send(msg); err != nil {
			delete(c.sinks, sink)
			c.logger.Warn("dropping subscriber after send failure", logpkg.Err(err))
			continue
		}
		if err := sink.Flush(); err != nil {
			delete(c.sinks, sink)
			c.logger.Warn("dropping subscriber after flush failure", logpkg.Err(err))
		}
	}
	return msg
}

// Subscribers reports the current subscriber count.
func (c *Channel) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sinks)
}

// resumable reports whether every message published after the given ID
// is still buffered. The oldest buffered ID minus one is still valid:
// that client saw exactly the last evicted message and missed nothing
// the ring no longer holds.
func (c *Channel) resumable(after uint64) bool {
	if len(c.replay) == 0 || after > c.seq {
		return false
	}
	return after+1 >= c.replay[0].ID
}

func parseEventID(raw string) (uint64, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
