package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultDataDirXDGOverride(t *testing.T) {
	originalXDG := os.Getenv("XDG_DATA_HOME")
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_DATA_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_DATA_HOME")
		}
	})

	os.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != "/custom/data/slv" {
		t.Fatalf("expected /custom/data/slv, got %s", got)
	}
}

func TestDefaultDataDirNeverEmpty(t *testing.T) {
	result := DefaultDataDir()
	if result == "" {
		t.Fatal("expected non-empty data dir")
	}
	if !strings.Contains(result, "slv") && result != "./data" {
		t.Fatalf("expected slv in path or the ./data fallback, got %s", result)
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Fatal("current directory should be a dir")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Fatal("missing path should not be a dir")
	}
}
