package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/missioncontrol/internal/config"
	"github.com/nao1215/missioncontrol/internal/database"
	mclog "github.com/nao1215/missioncontrol/internal/log"
	"github.com/spf13/cobra"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config file path from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// loadConfig builds a Config from defaults and the configuration file.
// Flags are applied by the caller afterwards.
//
// If the user explicitly specified a config file path, a missing file is an
// error. Otherwise the defaults are used when no file is found.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.ConfigFilePath = getConfigFlag(cmd)

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if getVerboseFlag(cmd) {
		cfg.Verbose = true
	}

	return cfg, nil
}

// applyJournalFlags applies --journal and --db-dir when they were set.
// Setting --db-dir implies --journal.
func applyJournalFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("journal") {
		enabled, err := cmd.Flags().GetBool("journal")
		if err != nil {
			return err
		}
		cfg.SaveToDB = enabled
	}

	if cmd.Flags().Changed("db-dir") {
		dir, err := cmd.Flags().GetString("db-dir")
		if err != nil {
			return err
		}
		cfg.DBDir = dir
		cfg.SaveToDB = true
	}

	return nil
}

// addJournalFlags registers the journal flags shared by several commands.
func addJournalFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("journal", "j", false,
		"Record finished requests in the intake journal")
	cmd.Flags().String("db-dir", "",
		"Journal database directory (default: $XDG_DATA_HOME/missioncontrol)")
}

// setupLogger creates the secure structured logger for cfg.
// base is the level used when verbose logging is off.
func setupLogger(cfg *config.Config, base slog.Level) *slog.Logger {
	return mclog.New(os.Stderr, cfg.LogFormat, mclog.Level(cfg.Verbose, base))
}

// openJournal opens the intake journal when journaling is enabled.
// It returns nil when journaling is disabled.
func openJournal(cfg *config.Config, logger *slog.Logger) (*database.IntakeDB, error) {
	if !cfg.SaveToDB {
		return nil, nil //nolint:nilnil // nil journal means disabled
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Info("journal opened", "path", db.Path())
	return db, nil
}

// openOutput returns the destination for results: the file at path, or
// fallback when path is empty. The returned close function is always safe to
// call.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Request text may be sensitive, so results are readable by the owner only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
