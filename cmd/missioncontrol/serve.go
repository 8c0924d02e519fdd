package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/missioncontrol/internal/config"
	"github.com/nao1215/missioncontrol/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the intake endpoint over HTTP",
		Long: `Serve starts an HTTP server exposing the intake orchestrator.

Endpoints:
  POST /api/orchestrate  {"inputText": "..."}  ->  {"outputText": "...", "assumptions": [...]}
  GET  /healthz          {"status": "ok"}

Empty or missing inputText is rejected with 400 before any processing.

Examples:
  # Listen on the default address (127.0.0.1:8080)
  missioncontrol serve

  # Listen on all interfaces and record every request
  missioncontrol serve --listen 0.0.0.0:9000 --journal

  # Emit JSON logs for a log collector
  missioncontrol serve --log-format json

  # Try it
  curl -s -X POST localhost:8080/api/orchestrate \
    -H 'Content-Type: application/json' \
    -d '{"inputText":"fix the login bug ASAP"}'`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress,
		"Address to listen on (host:port)")
	cmd.Flags().Duration("read-timeout", config.DefaultReadTimeout,
		"Maximum duration for reading a request")
	cmd.Flags().Duration("write-timeout", config.DefaultWriteTimeout,
		"Maximum duration for writing a response")
	cmd.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout,
		"Grace period for in-flight requests on shutdown")
	cmd.Flags().Int64("max-body", config.DefaultMaxBodySize,
		"Maximum request body size in bytes")
	cmd.Flags().Int("max-connections", config.DefaultMaxConnections,
		"Maximum simultaneous connections (0 = unlimited)")
	cmd.Flags().String("log-format", config.DefaultLogFormat,
		"Log format: text or json")
	addJournalFlags(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg, slog.LevelInfo)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	return runServe(ctx, cfg, logger)
}

// buildServeConfig creates a Config from the config file and changed flags.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("listen") {
		if cfg.ListenAddress, err = flags.GetString("listen"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("read-timeout") {
		if cfg.ReadTimeout, err = flags.GetDuration("read-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("write-timeout") {
		if cfg.WriteTimeout, err = flags.GetDuration("write-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("shutdown-timeout") {
		if cfg.ShutdownTimeout, err = flags.GetDuration("shutdown-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-connections") {
		if cfg.MaxConnections, err = flags.GetInt("max-connections"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("log-format") {
		if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
			return nil, err
		}
	}

	if err := applyJournalFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runServe opens the journal if enabled and serves until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := openJournal(cfg, logger)
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithLogger(logger)}
	if db != nil {
		defer db.Close()
		opts = append(opts, server.WithJournal(db))
	}

	return server.New(cfg, opts...).Run(ctx)
}
