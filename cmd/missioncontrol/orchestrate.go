package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nao1215/missioncontrol/internal/config"
	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
	"github.com/nao1215/missioncontrol/internal/pipeline"
	"github.com/nao1215/missioncontrol/internal/report"
	"github.com/nao1215/missioncontrol/internal/server"
	"github.com/spf13/cobra"
)

// stdinName is the --file value that reads standard input.
const stdinName = "-"

// errNoInput is returned when orchestrate is given nothing to process.
var errNoInput = errors.New("no input provided (pass the request as arguments or use --file)")

// NewOrchestrateCmd creates the orchestrate command.
func NewOrchestrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orchestrate [text...]",
		Short: "Turn task requests into intake documents",
		Long: `Orchestrate runs one or more task requests through the intake pipeline and
prints the resulting documents.

Positional arguments are joined with spaces into a single request. Each
--file is a separate request; "-" reads standard input. Requests that are
empty after trimming whitespace are rejected.

Examples:
  # A single request from the command line
  missioncontrol orchestrate fix the login bug ASAP

  # Several requests from files, processed concurrently
  missioncontrol orchestrate -f req1.txt -f req2.txt -b 4

  # Read from standard input and print JSON
  echo "ping me" | missioncontrol orchestrate -f - --format json

  # Write a Markdown document and record the requests
  missioncontrol orchestrate -f request.txt -F markdown -o intake.md --journal

  # Save to a file and show the result at the same time
  missioncontrol orchestrate -o intake.txt --tee ping me`,
		Args: cobra.ArbitraryArgs,
		RunE: runOrchestrateCmd,
	}

	cmd.Flags().StringArrayP("file", "f", nil,
		`Read a request from file ("-" for stdin); repeatable`)
	cmd.Flags().StringP("format", "F", config.DefaultOutputFormat,
		"Output format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write results to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print results to standard output")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of requests processed concurrently")
	addJournalFlags(cmd)

	return cmd
}

// runOrchestrateCmd executes the orchestrate command.
func runOrchestrateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildOrchestrateConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	files, err := cmd.Flags().GetStringArray("file")
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args, files, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tee, err := cmd.Flags().GetBool("tee")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg, slog.LevelWarn)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	return runOrchestrate(ctx, cfg, inputs, outputTarget{stdout: cmd.OutOrStdout(), tee: tee}, logger)
}

// outputTarget describes where results go besides cfg.OutputFile.
type outputTarget struct {
	// stdout is used when no output file is set, or with tee.
	stdout io.Writer

	// tee also writes to stdout when an output file is set.
	tee bool
}

// buildOrchestrateConfig creates a Config from the config file and changed flags.
func buildOrchestrateConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("format") {
		if cfg.OutputFormat, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}

	if err := applyJournalFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// collectInputs gathers the requests to process, in order: the joined
// positional arguments first, then each file. Every request is trimmed and
// rejected when empty.
func collectInputs(args, files []string, stdin io.Reader) ([]string, error) {
	inputs := make([]string, 0, len(files)+1)

	if len(args) > 0 {
		text, err := server.TrimInput(strings.Join(args, " "))
		if err != nil {
			return nil, fmt.Errorf("arguments: %w", err)
		}
		inputs = append(inputs, text)
	}

	stdinUsed := false
	for _, name := range files {
		var (
			data []byte
			err  error
		)
		if name == stdinName {
			if stdinUsed {
				return nil, errors.New("standard input can only be read once")
			}
			stdinUsed = true
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(name) //nolint:gosec // User-provided input path is intentional
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		text, err := server.TrimInput(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		inputs = append(inputs, text)
	}

	if len(inputs) == 0 {
		return nil, errNoInput
	}

	return inputs, nil
}

// runOrchestrate processes inputs and writes the results.
func runOrchestrate(ctx context.Context, cfg *config.Config, inputs []string, target outputTarget, logger *slog.Logger) error {
	db, err := openJournal(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	newPipeline := func() *pipeline.Pipeline {
		p := pipeline.NewIntakePipeline(pipeline.WithLogger(logger))
		if db != nil {
			p.AddStep(pipeline.NewJournalStep(db, pipeline.WithJournalLogger(logger)))
		}
		return p
	}

	logger.Debug("pipeline ready", "steps", newPipeline().StepNames(), "requests", len(inputs))

	var reports []*model.IntakeReport
	if len(inputs) > 1 && cfg.BatchSize > 1 {
		bp := pipeline.NewBatchProcessor(newPipeline,
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)

		if reports, err = bp.ProcessBatch(ctx, inputs); err != nil {
			return fmt.Errorf("batch processing interrupted: %w", err)
		}
	} else {
		reports = make([]*model.IntakeReport, 0, len(inputs))
		for _, input := range inputs {
			r := model.NewIntakeReport(input)
			if err := newPipeline().Execute(ctx, r); err != nil && ctx.Err() != nil {
				return fmt.Errorf("processing interrupted: %w", err)
			}
			reports = append(reports, r)
		}
	}

	results := make([]intake.Result, 0, len(reports))
	for _, r := range reports {
		if r.Failed() {
			// The document is still complete when only journaling failed.
			logger.Warn("intake step failed", "request_id", r.ID, "error", r.ErrorMessage)
		}
		results = append(results, r.Result())
	}

	return writeResults(cfg, results, target)
}

// writeResults writes results in the configured format.
func writeResults(cfg *config.Config, results []intake.Result, target outputTarget) error {
	output, closeOutput, err := openOutput(cfg.OutputFile, target.stdout)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck // Close error after successful write is not actionable

	writer, err := report.NewWriter(cfg.OutputFormat, output)
	if err != nil {
		return err
	}

	if target.tee && cfg.OutputFile != "" {
		stdoutWriter, err := report.NewWriter(cfg.OutputFormat, target.stdout)
		if err != nil {
			return err
		}
		writer = report.NewMultiWriter(writer, stdoutWriter)
	}

	if len(results) == 1 {
		_, err = writer.Write(results[0])
	} else {
		_, err = writer.WriteAll(results)
	}
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	return nil
}
