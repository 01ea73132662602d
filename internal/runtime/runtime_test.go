package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/silvanei/simple-log-viewer/internal/config"
	"github.com/silvanei/simple-log-viewer/internal/logstore"
	pebblestore "github.com/silvanei/simple-log-viewer/internal/storage/pebble"
)

func TestOpenCloseAndHealth(t *testing.T) {
	rt, err := Open(Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		Config:  cfgpkg.Default(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rt.Store() == nil || rt.DB() == nil {
		t.Fatal("accessors returned nil")
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatal("expected error for missing DataDir")
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	opts := Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()}

	rt, err := Open(opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = rt.Store().Add(logstore.Entry{
		Datetime: "2025-04-28T10:00:00+00:00",
		Channel:  "app",
		Level:    "INFO",
		Message:  "persisted",
		Context:  logstore.EmptyArray(),
		Extra:    logstore.EmptyArray(),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rt, err = Open(opts)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rt.Close()
	views := rt.Store().Search("")
	if len(views) != 1 || views[0].Message != "persisted" {
		t.Fatalf("entry not persisted across reopen: %+v", views)
	}
	views = rt.Store().Search("persisted")
	if len(views) != 1 {
		t.Fatalf("index not persisted across reopen: %+v", views)
	}
}
