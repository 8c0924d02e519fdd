package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// Step names, in the order NewIntakePipeline adds them.
const (
	StepNormalize = "normalize"
	StepSoften    = "soften"
	StepInfer     = "infer"
	StepFormat    = "format"
	StepJournal   = "journal"
)

// NormalizeStep canonicalizes the request text and fingerprints it.
type NormalizeStep struct{}

// NewNormalizeStep creates a new normalization step.
func NewNormalizeStep() *NormalizeStep {
	return &NormalizeStep{}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return StepNormalize
}

// Do executes the normalization step.
func (s *NormalizeStep) Do(_ context.Context, report *model.IntakeReport) error {
	report.Normalized = intake.Normalize(report.Input)
	report.Fingerprint = model.Fingerprint(report.Normalized)
	return nil
}

// SoftenStep rewrites urgency vocabulary in the normalized text.
type SoftenStep struct{}

// NewSoftenStep creates a new softening step.
func NewSoftenStep() *SoftenStep {
	return &SoftenStep{}
}

// Name returns the step name.
func (s *SoftenStep) Name() string {
	return StepSoften
}

// Do executes the softening step.
func (s *SoftenStep) Do(_ context.Context, report *model.IntakeReport) error {
	report.Softened = intake.Soften(report.Normalized)
	return nil
}

// InferStep detects lexical signals and derives assumptions.
type InferStep struct{}

// NewInferStep creates a new assumption inference step.
func NewInferStep() *InferStep {
	return &InferStep{}
}

// Name returns the step name.
func (s *InferStep) Name() string {
	return StepInfer
}

// Do executes the inference step.
func (s *InferStep) Do(_ context.Context, report *model.IntakeReport) error {
	report.Signals = intake.DetectSignals(report.Normalized, report.Softened)
	report.Assumptions = intake.AssumptionsFromSignals(report.Signals, report.Normalized)
	return nil
}

// FormatStep assembles the output document.
type FormatStep struct{}

// NewFormatStep creates a new formatting step.
func NewFormatStep() *FormatStep {
	return &FormatStep{}
}

// Name returns the step name.
func (s *FormatStep) Name() string {
	return StepFormat
}

// Do executes the formatting step.
func (s *FormatStep) Do(_ context.Context, report *model.IntakeReport) error {
	report.OutputText = intake.Format(report.Softened, report.Assumptions)
	return nil
}

// Journal stores finished intake reports.
// *database.IntakeDB satisfies this interface.
type Journal interface {
	SaveIntake(ctx context.Context, report *model.IntakeReport) (int64, error)
}

// JournalStep appends the finished report to a Journal.
// It should be the last step of a pipeline.
type JournalStep struct {
	journal Journal
	logger  *slog.Logger
}

// JournalStepOption configures a JournalStep.
type JournalStepOption func(*JournalStep)

// WithJournalLogger sets a custom logger for the journal step.
func WithJournalLogger(logger *slog.Logger) JournalStepOption {
	return func(s *JournalStep) {
		s.logger = logger
	}
}

// NewJournalStep creates a step that saves reports to journal.
func NewJournalStep(journal Journal, opts ...JournalStepOption) *JournalStep {
	s := &JournalStep{
		journal: journal,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *JournalStep) Name() string {
	return StepJournal
}

// Do executes the journal step.
func (s *JournalStep) Do(ctx context.Context, report *model.IntakeReport) error {
	id, err := s.journal.SaveIntake(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to journal intake %s: %w", report.ID, err)
	}

	s.logger.Debug("intake journaled",
		"request_id", report.ID,
		"row_id", id,
	)

	return nil
}
