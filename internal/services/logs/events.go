package logs

import "github.com/silvanei/simple-log-viewer/internal/broadcast"

// Notification payloads pushed to stream subscribers.
const (
	NotifyLogReceived = "Received new log"
	NotifyLogsCleared = "Logs cleared"
)

// LogReceived fires after an entry has been durably stored.
type LogReceived struct {
	Message string
}

// LogCleared fires after all entries have been removed.
type LogCleared struct {
	Message string
}

// StreamCreated fires when a client opens the live stream. Sink is the
// client's delivery endpoint and LastEventID carries its resume position,
// empty for a fresh connection.
type StreamCreated struct {
	Sink        broadcast.Sink
	LastEventID string
}
