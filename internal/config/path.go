package config

import (
	"os"
	"path/filepath"
)

const appDirName = "slv"

// DefaultDataDir picks a per-host data directory: the XDG data home when
// set, a system directory when present, the platform application-support
// directory, and finally a dotdir under $HOME. Without a resolvable home
// it degrades to ./data relative to the working directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "./data"
	}

	if isDir("/var/lib") {
		return filepath.Join("/var/lib", appDirName)
	}
	if isDir(filepath.Join(home, "Library")) {
		return filepath.Join(home, "Library", "Application Support", appDirName)
	}
	if isDir(filepath.Join(home, "AppData")) {
		return filepath.Join(home, "AppData", "Local", appDirName)
	}

	return filepath.Join(home, "."+appDirName)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
