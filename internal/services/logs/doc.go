// Package logs is the application service for log entries. It owns the
// write path (store, then announce), the read path (search), and the
// event handlers that translate domain events into stream notifications.
//
// The pieces connect through the event bus rather than direct calls:
// Service dispatches LogReceived, LogCleared and StreamCreated, and
// StreamChannelHandler turns those into broadcast channel operations.
// That keeps the service free of any streaming concern and lets the
// stream layer be tested against the bus alone.
package logs
