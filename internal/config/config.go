package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr     string `json:"httpAddr"`
	DataDir      string `json:"dataDir"`
	ReplayBuffer int    `json:"replayBuffer"`
	SearchLimit  int    `json:"searchLimit"`
	LogLevel     string `json:"logLevel"`
	LogFormat    string `json:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:     ":8080",
		ReplayBuffer: 256,
		SearchLimit:  100,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
