package logs

import (
	"fmt"

	"github.com/silvanei/simple-log-viewer/internal/broadcast"
	"github.com/silvanei/simple-log-viewer/internal/logstore"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Add(entry logstore.Entry) error
	Search(filter string) []logstore.EntryView
	Clear() error
}

// Dispatcher publishes domain events to registered handlers.
type Dispatcher interface {
	Dispatch(event any)
}

// Service coordinates log persistence with stream notification. Writes
// go to the store first; events fire only after the write succeeds, so
// subscribers never hear about an entry that was not stored.
type Service struct {
	store  Store
	bus    Dispatcher
	logger logpkg.Logger
}

func New(store Store, bus Dispatcher, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	return &Service{
		store:  store,
		bus:    bus,
		logger: logger.With(logpkg.Component("logs")),
	}
}

// Add stores entry and announces it. The entry is assumed to be already
// validated by logstore.ParseEntry.
func (s *Service) Add(entry logstore.Entry) error {
	if err := s.store.Add(entry); err != nil {
		return fmt.Errorf("store log entry: %w", err)
	}
	s.logger.Debug("log entry stored",
		logpkg.Str("channel", entry.Channel),
		logpkg.Str("level", entry.Level))
	s.bus.Dispatch(LogReceived{Message: NotifyLogReceived})
	return nil
}

// Search returns up to the store's result limit, newest first when the
// filter is empty and by relevance otherwise.
func (s *Service) Search(filter string) []logstore.EntryView {
	return s.store.Search(filter)
}

// Clear removes every stored entry and announces the wipe.
func (s *Service) Clear() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear log entries: %w", err)
	}
	s.logger.Info("log entries cleared")
	s.bus.Dispatch(LogCleared{Message: NotifyLogsCleared})
	return nil
}

// CreateChannelStream attaches sink to the live stream, resuming from
// lastEventID when the client presents one.
func (s *Service) CreateChannelStream(sink broadcast.Sink, lastEventID string) {
	s.bus.Dispatch(StreamCreated{Sink: sink, LastEventID: lastEventID})
}
