package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	serverrun "github.com/silvanei/simple-log-viewer/internal/cmd/server"
	cfgpkg "github.com/silvanei/simple-log-viewer/internal/config"
	pebblestore "github.com/silvanei/simple-log-viewer/internal/storage/pebble"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	level := os.Getenv("SLV_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "slv",
		Short: "Simple log viewer CLI",
		Long:  "slv ingests structured log entries, makes them searchable, and streams new entries to connected viewers.",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("slv", version)
		},
	})

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the log viewer server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			replayBuffer, _ := cmd.Flags().GetInt("replay-buffer")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			mode := pebblestore.FsyncModeAlways
			switch fsyncMode {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if replayBuffer > 0 {
				cfg.ReplayBuffer = replayBuffer
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       cfg.DataDir,
				HTTPAddr:      cfg.HTTPAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "Path to JSON config file")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default :8080)")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().Int("replay-buffer", 0, "Replay buffer capacity for the live stream (default 256)")
	serverStartCmd.Flags().String("log-level", os.Getenv("SLV_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("SLV_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// logs client commands
	logsCmd := &cobra.Command{Use: "logs", Short: "Log operations against a running server"}

	logsSendCmd := &cobra.Command{
		Use:   "send",
		Short: "Send a log entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _ := cmd.Flags().GetString("data")
			resp, err := http.Post(apiURL()+"/api/logs", "application/json", bytes.NewReader([]byte(data)))
			if err != nil {
				return err
			}
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			fmt.Println("status:", resp.Status)
			if len(body) > 0 {
				fmt.Println(string(body))
			}
			return nil
		},
	}
	logsSendCmd.Flags().String("data", "", "Log entry JSON")
	logsCmd.AddCommand(logsSendCmd)

	logsSearchCmd := &cobra.Command{
		Use:   "search [filter]",
		Short: "Search stored log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			req, err := http.NewRequest(http.MethodGet, apiURL()+"/search", nil)
			if err != nil {
				return err
			}
			q := req.URL.Query()
			q.Set("search", filter)
			req.URL.RawQuery = q.Encode()
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			_, err = io.Copy(os.Stdout, resp.Body)
			return err
		},
	}
	logsCmd.AddCommand(logsSearchCmd)

	logsClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Post(apiURL()+"/api/logs/clear", "application/json", nil)
			if err != nil {
				return err
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			fmt.Println("status:", resp.Status)
			return nil
		},
	}
	logsCmd.AddCommand(logsClearCmd)
	rootCmd.AddCommand(logsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("SLV_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
