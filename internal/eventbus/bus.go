package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

// ErrInvalidHandler is returned by Register when a handler does not have
// the required shape: func(E) where E is a struct type.
var ErrInvalidHandler = errors.New("eventbus: handler must be func(Event) with a struct event type")

// Bus routes published events to handlers registered for the event's
// concrete type. Handlers are validated at registration time so a
// malformed handler fails fast instead of at dispatch.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]reflect.Value
	logger   logpkg.Logger
}

type Option func(*Bus)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(logger logpkg.Logger) Option {
	return func(b *Bus) { b.logger = logger }
}

func New(options ...Option) *Bus {
	b := &Bus{handlers: make(map[reflect.Type][]reflect.Value)}
	for _, opt := range options {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	b.logger = b.logger.With(logpkg.Component("eventbus"))
	return b
}

// Register adds a handler for the event type named by its single
// parameter. The handler must be a func taking exactly one struct
// argument and returning nothing.
func (b *Bus) Register(handler any) error {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		return fmt.Errorf("%w: got %T", ErrInvalidHandler, handler)
	}
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return fmt.Errorf("%w: got %s", ErrInvalidHandler, t)
	}
	eventType := t.In(0)
	if eventType.Kind() != reflect.Struct {
		return fmt.Errorf("%w: parameter %s is not a struct", ErrInvalidHandler, eventType)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], reflect.ValueOf(handler))
	b.logger.Debug("handler registered", logpkg.Str("event", eventType.String()))
	return nil
}

// Dispatch invokes every handler registered for the concrete type of
// event, in registration order, synchronously on the caller's
// goroutine. Events with no handlers are dropped silently.
func (b *Bus) Dispatch(event any) {
	eventType := reflect.TypeOf(event)
	if eventType == nil {
		return
	}

	b.mu.RLock()
	registered := b.handlers[eventType]
	b.mu.RUnlock()
	if len(registered) == 0 {
		return
	}

	args := []reflect.Value{reflect.ValueOf(event)}
	for _, h := range registered {
		h.Call(args)
	}
}
