// Package runtime assembles the storage stack for one process: the
// Pebble database, the searchable log store on top of it, and the
// effective configuration. HTTP handlers and services reach storage
// only through the Runtime so lifecycle and health stay in one place.
package runtime
