package logstore

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Entry is an immutable, validated log entry submitted for storage.
type Entry struct {
	Datetime string
	Channel  string
	Level    string
	Message  string
	Context  Value
	Extra    Value
}

// EntryView is a search result. String leaves inside Context/Extra may carry
// highlight markers when returned from a filtered search.
type EntryView struct {
	Datetime string `json:"datetime"`
	Channel  string `json:"channel"`
	Level    string `json:"level"`
	Message  string `json:"message"`
	Context  Value  `json:"context"`
	Extra    Value  `json:"extra"`
}

// ValidationError reports every failing field of an ingested entry, not just
// the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("invalid log entry data: %s", strings.Join(keys, ", "))
}

var levels = map[string]struct{}{
	"DEBUG":     {},
	"INFO":      {},
	"NOTICE":    {},
	"WARNING":   {},
	"ERROR":     {},
	"CRITICAL":  {},
	"ALERT":     {},
	"EMERGENCY": {},
}

// Accepted datetime grammar: an explicit UTC offset (never "Z") and at most
// millisecond precision.
var datetimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{3})?[+-]\d{2}:\d{2}$`)

func validDatetime(s string) bool {
	m := datetimePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	layout := "2006-01-02T15:04:05-07:00"
	if m[1] != "" {
		layout = "2006-01-02T15:04:05.000-07:00"
	}
	_, err := time.Parse(layout, s)
	return err == nil
}

func validLength(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 3 && n <= 255
}

// ParseEntry validates a JSON-encoded log entry. All field failures are
// collected into a single *ValidationError.
func ParseEntry(data []byte) (Entry, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Entry{}, fmt.Errorf("parse log entry: %w", err)
	}

	errs := map[string]string{}

	datetime, ok := stringField(obj, "datetime")
	if !ok || !validDatetime(datetime) {
		errs["datetime"] = "Invalid or missing datetime"
	}

	channel, ok := stringField(obj, "channel")
	if !ok || !validLength(channel) {
		errs["channel"] = "Invalid or missing channel"
	}

	level, ok := stringField(obj, "level")
	level = strings.ToUpper(level)
	if !ok {
		errs["level"] = "Invalid or missing level"
	} else if _, known := levels[level]; !known {
		errs["level"] = "Invalid or missing level"
	}

	message, ok := stringField(obj, "message")
	if !ok || !validLength(message) {
		errs["message"] = "Invalid or missing message"
	}

	var context Value
	if raw, present := obj["context"]; !present {
		errs["context"] = "Invalid or missing context"
	} else if v, err := ParseValue(raw); err != nil || !v.isContainer() {
		errs["context"] = "Invalid or missing context"
	} else {
		context = v
	}

	extra := EmptyArray()
	if raw, present := obj["extra"]; present {
		if v, err := ParseValue(raw); err != nil || !v.isContainer() {
			errs["extra"] = "Invalid extra field"
		} else {
			extra = v
		}
	}

	if len(errs) > 0 {
		return Entry{}, &ValidationError{Fields: errs}
	}

	return Entry{
		Datetime: datetime,
		Channel:  channel,
		Level:    level,
		Message:  message,
		Context:  context,
		Extra:    extra,
	}, nil
}

func stringField(obj map[string]json.RawMessage, name string) (string, bool) {
	raw, present := obj[name]
	if !present {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
