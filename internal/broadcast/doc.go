// Package broadcast implements per-channel fan-out with bounded replay.
//
// A Channel holds the live subscriber set and a fixed-capacity ring of
// the most recent messages. Publish assigns a monotonically increasing
// ID to each message; a subscriber that reconnects presents the last ID
// it saw and the channel replays everything newer before resuming live
// delivery. Subscribers are Sinks, typically backed by an SSE response
// writer, and are dropped on send failure or context cancellation.
package broadcast
