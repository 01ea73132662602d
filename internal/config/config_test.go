package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("default http addr")
	}
	if cfg.ReplayBuffer != 256 {
		t.Fatalf("default replay buffer")
	}
	if cfg.SearchLimit != 100 {
		t.Fatalf("default search limit")
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("default logging")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "slv.json")
	data := []byte(`{"httpAddr":":9090","dataDir":"/srv/slv","replayBuffer":64,"searchLimit":50}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090")
	}
	if cfg.DataDir != "/srv/slv" {
		t.Fatalf("expected /srv/slv")
	}
	if cfg.ReplayBuffer != 64 || cfg.SearchLimit != 50 {
		t.Fatalf("expected overridden limits")
	}
	// Fields missing from the file keep defaults.
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("SLV_HTTP_ADDR", ":7070")
	os.Setenv("SLV_REPLAY_BUFFER", "128")
	os.Setenv("SLV_SEARCH_LIMIT", "bogus")
	os.Setenv("SLV_LOG_FORMAT", "json")
	t.Cleanup(func() {
		os.Unsetenv("SLV_HTTP_ADDR")
		os.Unsetenv("SLV_REPLAY_BUFFER")
		os.Unsetenv("SLV_SEARCH_LIMIT")
		os.Unsetenv("SLV_LOG_FORMAT")
	})
	FromEnv(&cfg)
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("env override addr")
	}
	if cfg.ReplayBuffer != 128 {
		t.Fatalf("env override replay buffer")
	}
	if cfg.SearchLimit != 100 {
		t.Fatalf("unparseable value should keep default")
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("env override format")
	}
}
