// Package eventbus provides a small synchronous in-process event bus.
//
// Handlers are plain functions of the form func(Event) where Event is a
// struct type; the bus keys dispatch on the event's concrete type:
//
//	bus := eventbus.New()
//	if err := bus.Register(func(e logs.LogReceived) { ... }); err != nil {
//	    return err
//	}
//	bus.Dispatch(logs.LogReceived{Message: "Received new log"})
//
// Dispatch is synchronous and runs handlers in registration order on the
// caller's goroutine. Registering after dispatch has begun is safe.
package eventbus
