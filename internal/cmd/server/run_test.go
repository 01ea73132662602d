package serverrun

import (
	"context"
	"testing"
	"time"

	cfgpkg "github.com/silvanei/simple-log-viewer/internal/config"
	pebblestore "github.com/silvanei/simple-log-viewer/internal/storage/pebble"
)

func TestOptionsDataDirFallback(t *testing.T) {
	opts := Options{}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.DataDir == "" {
		t.Fatal("expected DataDir after fallback")
	}

	opts = Options{DataDir: "/custom/data"}
	if opts.DataDir != "/custom/data" {
		t.Fatalf("provided DataDir not preserved: %s", opts.DataDir)
	}
}

// TestRunIntegration verifies Run starts and shuts down cleanly. Minimal
// since Run binds a real listener.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	opts := Options{
		DataDir:  t.TempDir(),
		HTTPAddr: ":0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfgpkg.Default(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Run(ctx, opts)
	if err != nil && err != context.DeadlineExceeded && err != context.Canceled {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
