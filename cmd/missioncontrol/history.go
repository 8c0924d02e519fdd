package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nao1215/missioncontrol/internal/config"
	"github.com/nao1215/missioncontrol/internal/database"
	"github.com/nao1215/missioncontrol/internal/model"
	"github.com/nao1215/missioncontrol/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of entries shown by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled intake requests",
		Long: `History lists requests recorded in the intake journal, newest first.

Requests are only journaled when the journal is enabled (--journal, --db-dir,
or journal.enabled in the configuration file).

Examples:
  # Show the 20 most recent requests
  missioncontrol history

  # Show one entry in full as JSON
  missioncontrol history --id 42 --format json

  # Show every request with the same normalized text
  missioncontrol history --fingerprint 3a7bd3e2360a3d...

  # Remove entries older than 30 days
  missioncontrol history --prune 720h`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of entries to show (0 = all)")
	cmd.Flags().StringP("format", "F", config.DefaultOutputFormat,
		"Output format: text, json or markdown")
	cmd.Flags().Int64("id", 0,
		"Show a single entry by journal ID")
	cmd.Flags().String("fingerprint", "",
		"Show entries whose normalized text has this fingerprint")
	cmd.Flags().Duration("prune", 0,
		"Delete entries older than this duration instead of listing")
	cmd.Flags().String("db-dir", "",
		"Journal database directory (default: $XDG_DATA_HOME/missioncontrol)")

	return cmd
}

// historyOptions holds the history command flags.
type historyOptions struct {
	limit       int
	id          int64
	fingerprint string
	prune       time.Duration
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		if cfg.OutputFormat, err = flags.GetString("format"); err != nil {
			return err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	// Reading the journal does not depend on whether new requests are recorded.
	cfg.SaveToDB = true

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var opts historyOptions
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return err
	}
	if opts.id, err = flags.GetInt64("id"); err != nil {
		return err
	}
	if opts.fingerprint, err = flags.GetString("fingerprint"); err != nil {
		return err
	}
	if opts.prune, err = flags.GetDuration("prune"); err != nil {
		return err
	}
	if opts.prune < 0 {
		return errors.New("--prune must be a positive duration")
	}

	logger := setupLogger(cfg, slog.LevelWarn)

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no intake journal found in %s (enable it with --journal): %w", cfg.DBDir, err)
	}
	defer db.Close()

	return runHistory(cmd.Context(), db, cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// runHistory lists or prunes journal entries.
func runHistory(
	ctx context.Context,
	db *database.IntakeDB,
	cfg *config.Config,
	opts historyOptions,
	stdout, stderr io.Writer,
	logger *slog.Logger,
) error {
	if opts.prune > 0 {
		cutoff := time.Now().Add(-opts.prune)
		deleted, err := db.DeleteIntakesBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		logger.Info("journal pruned", "cutoff", cutoff, "deleted", deleted)
		fmt.Fprintf(stdout, "Deleted %d entries received before %s\n", deleted, cutoff.Format(time.RFC3339))
		return nil
	}

	var (
		entries []*model.IntakeReport
		err     error
	)
	switch {
	case opts.id > 0:
		entry, getErr := db.GetIntake(ctx, opts.id)
		if getErr != nil {
			return getErr
		}
		entries = []*model.IntakeReport{entry}
	case opts.fingerprint != "":
		entries, err = db.ListIntakesByFingerprint(ctx, opts.fingerprint)
	default:
		entries, err = db.ListIntakes(ctx, opts.limit)
	}
	if err != nil {
		return err
	}

	total, err := db.CountIntakes(ctx)
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(cfg.OutputFormat, stdout)
	if err != nil {
		return err
	}
	if _, err := writer.WriteHistory(entries); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	fmt.Fprintf(stderr, "%d of %d journaled requests\n", len(entries), total)
	return nil
}
