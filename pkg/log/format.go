package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// TextFormatter renders entries as a single human-readable line.
type TextFormatter struct{}

// Format implements Formatter.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(entry.Timestamp.Format(time.RFC3339))
	buf.WriteByte(' ')
	buf.WriteString(entry.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	// Stable field order keeps the output diff-friendly.
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// JSONFormatter renders entries as one JSON object per line.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	payload := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		payload[k] = v
	}
	payload["ts"] = entry.Timestamp.Format(time.RFC3339)
	payload["level"] = entry.Level.String()
	payload["msg"] = entry.Message
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// ConsoleOutput writes formatted entries to a writer, stderr by default.
type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleOutput creates a ConsoleOutput writing to stderr.
func NewConsoleOutput() *ConsoleOutput { return &ConsoleOutput{w: os.Stderr} }

// NewWriterOutput creates an output writing to w.
func NewWriterOutput(w io.Writer) *ConsoleOutput { return &ConsoleOutput{w: w} }

// Write implements Output.
func (o *ConsoleOutput) Write(_ *Entry, formattedEntry []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(formattedEntry)
	return err
}

// Close implements Output.
func (o *ConsoleOutput) Close() error { return nil }

// RedirectStdLog routes standard library log output (used by Pebble) through
// the given logger at info level.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdLogWriter{logger: logger})
}

type stdLogWriter struct{ logger Logger }

func (w stdLogWriter) Write(p []byte) (int, error) {
	w.logger.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
