package logs

import (
	"context"
	"errors"
	"testing"

	"github.com/silvanei/simple-log-viewer/internal/broadcast"
	"github.com/silvanei/simple-log-viewer/internal/eventbus"
	"github.com/silvanei/simple-log-viewer/internal/logstore"
)

type stubStore struct {
	added    []logstore.Entry
	addErr   error
	clearErr error
	cleared  int
	views    []logstore.EntryView
	filter   string
}

func (s *stubStore) Add(entry logstore.Entry) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, entry)
	return nil
}

func (s *stubStore) Search(filter string) []logstore.EntryView {
	s.filter = filter
	return s.views
}

func (s *stubStore) Clear() error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared++
	return nil
}

type recordingBus struct {
	events []any
}

func (b *recordingBus) Dispatch(event any) { b.events = append(b.events, event) }

func validEntry() logstore.Entry {
	return logstore.Entry{
		Datetime: "2025-04-28T10:00:00+00:00",
		Channel:  "app",
		Level:    "INFO",
		Message:  "hello",
		Context:  logstore.EmptyArray(),
		Extra:    logstore.EmptyArray(),
	}
}

func TestAddStoresThenDispatchesLogReceived(t *testing.T) {
	store := &stubStore{}
	bus := &recordingBus{}
	svc := New(store, bus, nil)

	if err := svc.Add(validEntry()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(store.added) != 1 {
		t.Fatalf("entry not stored")
	}
	if len(bus.events) != 1 {
		t.Fatalf("want 1 event, got %d", len(bus.events))
	}
	ev, ok := bus.events[0].(LogReceived)
	if !ok || ev.Message != NotifyLogReceived {
		t.Fatalf("unexpected event %+v", bus.events[0])
	}
}

func TestAddStoreFailurePropagatesWithoutDispatch(t *testing.T) {
	store := &stubStore{addErr: errors.New("disk full")}
	bus := &recordingBus{}
	svc := New(store, bus, nil)

	if err := svc.Add(validEntry()); err == nil {
		t.Fatal("want error")
	}
	if len(bus.events) != 0 {
		t.Fatalf("event dispatched despite store failure: %+v", bus.events)
	}
}

func TestClearDispatchesLogCleared(t *testing.T) {
	store := &stubStore{}
	bus := &recordingBus{}
	svc := New(store, bus, nil)

	if err := svc.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.cleared != 1 {
		t.Fatalf("store not cleared")
	}
	ev, ok := bus.events[0].(LogCleared)
	if !ok || ev.Message != NotifyLogsCleared {
		t.Fatalf("unexpected event %+v", bus.events[0])
	}
}

func TestSearchDelegatesToStore(t *testing.T) {
	store := &stubStore{views: []logstore.EntryView{{Message: "found"}}}
	svc := New(store, &recordingBus{}, nil)

	views := svc.Search("needle")
	if store.filter != "needle" {
		t.Fatalf("filter not forwarded: %q", store.filter)
	}
	if len(views) != 1 || views[0].Message != "found" {
		t.Fatalf("views not forwarded: %+v", views)
	}
}

type chanSink struct {
	ctx    context.Context
	cancel context.CancelFunc
	msgs   []broadcast.Message
}

func newChanSink() *chanSink {
	ctx, cancel := context.WithCancel(context.Background())
	return &chanSink{ctx: ctx, cancel: cancel}
}

func (s *chanSink) Send(msg broadcast.Message) error {
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *chanSink) Context() context.Context { return s.ctx }
func (s *chanSink) Flush() error             { return nil }

func TestStreamHandlerEndToEnd(t *testing.T) {
	bus := eventbus.New()
	channel := broadcast.New(0, nil)
	handler := NewStreamChannelHandler(channel, nil)
	if err := handler.Register(bus); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := New(&stubStore{}, bus, nil)

	sink := newChanSink()
	svc.CreateChannelStream(sink, "")
	if got := channel.Subscribers(); got != 1 {
		t.Fatalf("sink not subscribed: %d", got)
	}

	if err := svc.Add(validEntry()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(sink.msgs) != 2 {
		t.Fatalf("want 2 notifications, got %d", len(sink.msgs))
	}
	if sink.msgs[0].Data != NotifyLogReceived || sink.msgs[1].Data != NotifyLogsCleared {
		t.Fatalf("unexpected notifications %+v", sink.msgs)
	}
	sink.cancel()
}
