package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/silvanei/simple-log-viewer/internal/broadcast"
	cfgpkg "github.com/silvanei/simple-log-viewer/internal/config"
	"github.com/silvanei/simple-log-viewer/internal/eventbus"
	"github.com/silvanei/simple-log-viewer/internal/runtime"
	httpserver "github.com/silvanei/simple-log-viewer/internal/server/http"
	logsvc "github.com/silvanei/simple-log-viewer/internal/services/logs"
	pebblestore "github.com/silvanei/simple-log-viewer/internal/storage/pebble"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context. We
	// layer a local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.HTTPAddr == "" {
		opts.HTTPAddr = opts.Config.HTTPAddr
	}

	logCfg := &logpkg.Config{Level: opts.Config.LogLevel, Format: opts.Config.LogFormat}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        opts.Config,
		Logger:        procLogger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting log viewer server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
		logpkg.Int("replay_buffer", opts.Config.ReplayBuffer),
	)

	bus := eventbus.New(eventbus.WithLogger(procLogger))
	channel := broadcast.New(opts.Config.ReplayBuffer, procLogger)
	if err := logsvc.NewStreamChannelHandler(channel, procLogger).Register(bus); err != nil {
		return err
	}
	svc := logsvc.New(rt.Store(), bus, procLogger)
	hsrv := httpserver.New(rt, svc, procLogger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server failed", logpkg.Err(err))
		}
	}()

	<-sctx.Done()
	// Shut the server down before closing the runtime/DB to avoid races.
	hsrv.Close()
	wg.Wait()
	return nil
}
