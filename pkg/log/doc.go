// Package log provides the structured logging facade used across the
// simple-log-viewer services.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Components receive a Logger via
// constructor injection and tag it with Component(...).
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"))
//	l.Info("server started", log.Str("http", ":8080"))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config, supporting JSON
// or text formatting.
//
// # Interop
//
// To integrate with libraries writing through the standard library logger
// (Pebble does), use RedirectStdLog.
package log
