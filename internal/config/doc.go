// Package config provides loading and environment overlay for the log
// viewer configuration. It exposes a Default() baseline, a JSON file
// loader, and SLV_* environment overrides.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/slv.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{DataDir: cfg.DataDir, Config: cfg})
//	defer rt.Close()
package config
