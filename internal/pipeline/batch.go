package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nao1215/missioncontrol/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is the number of requests processed at once
// when WithConcurrency is not given.
const DefaultBatchConcurrency = 10

// BatchProcessor handles concurrent processing of multiple intake requests.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each request.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent requests.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent requests.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each request so that no
// pipeline state can leak between requests.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every input through its own pipeline concurrently.
// Results are returned in input order. A failing request does not stop the
// others; its error is recorded in its report.
//
// Each call owns its result slice, so one processor may serve concurrent
// calls. Progress is logged at debug level as each request completes. The
// error return is non-nil only when the context was cancelled;
// entries for requests that never started are then nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string) ([]*model.IntakeReport, error) {
	results := make([]*model.IntakeReport, len(inputs))
	var completed atomic.Int32

	// Every worker writes a distinct index and Wait orders the writes
	// before the return.
	err := bp.ProcessBatchWithCallback(ctx, inputs, func(report *model.IntakeReport, index int) {
		results[index] = report
		bp.logger.Debug("intake processed",
			"request_id", report.ID,
			"index", index,
			"failed", report.Failed(),
			"completed", completed.Add(1),
			"total", len(inputs),
		)
	})

	return results, err
}

// ProcessBatchWithCallback runs every input and calls callback as each
// report completes. The callback receives the index of the input and is
// called from worker goroutines, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []string,
	callback func(report *model.IntakeReport, index int),
) error {
	bp.logger.Debug("starting batch processing",
		"total_requests", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewIntakeReport(input)
			_ = bp.pipelineFactory().Execute(ctx, report) //nolint:errcheck // Error is stored in report

			callback(report, i)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_requests", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return err
}
