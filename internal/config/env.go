package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SLV_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SLV_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SLV_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SLV_REPLAY_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReplayBuffer = n
		}
	}
	if v := os.Getenv("SLV_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SearchLimit = n
		}
	}
	if v := os.Getenv("SLV_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SLV_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
