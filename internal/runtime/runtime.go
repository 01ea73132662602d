package runtime

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	cfgpkg "github.com/silvanei/simple-log-viewer/internal/config"
	"github.com/silvanei/simple-log-viewer/internal/logstore"
	pebblestore "github.com/silvanei/simple-log-viewer/internal/storage/pebble"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	Logger        logpkg.Logger
}

// Runtime wires storage, the log store, and config for a single-node
// instance. The Pebble database lives under <DataDir>/store and the
// search index under <DataDir>/index.
type Runtime struct {
	db     *pebblestore.DB
	store  *logstore.Store
	config cfgpkg.Config
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	if opts.DataDir == "" {
		return nil, errors.New("runtime: DataDir is required")
	}
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       filepath.Join(opts.DataDir, "store"),
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
	})
	if err != nil {
		return nil, err
	}
	store, err := logstore.Open(logstore.Options{
		DB:        db,
		IndexPath: filepath.Join(opts.DataDir, "index"),
		Limit:     opts.Config.SearchLimit,
		Logger:    opts.Logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Runtime{db: db, store: store, config: opts.Config}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	var firstErr error
	if r.store != nil {
		firstErr = r.store.Close()
	}
	if r.db != nil {
		if err := r.db.Close(); firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// Store returns the log store facade.
func (r *Runtime) Store() *logstore.Store { return r.store }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
