// Package httpserver provides the REST surface of the log viewer: log
// ingestion, full-text search, clearing, and a live SSE stream that
// notifies connected viewers when entries arrive or are wiped.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Config: config.Default()})
//	s := httpserver.New(rt, svc, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
