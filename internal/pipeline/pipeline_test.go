package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.IntakeReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.IntakeReport) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, report)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestNewIntakePipeline tests the standard step chain.
func TestNewIntakePipeline(t *testing.T) {
	t.Parallel()

	p := NewIntakePipeline()

	want := []string{StepNormalize, StepSoften, StepInfer, StepFormat}
	if diff := cmp.Diff(want, p.StepNames()); diff != "" {
		t.Errorf("step names mismatch (-want +got):\n%s", diff)
	}
}

// TestIntakePipelineMatchesOrchestrate verifies the pipeline and the pure
// transform agree on every input.
func TestIntakePipelineMatchesOrchestrate(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"fix the login bug ASAP",
		"ping me",
		"Write the onboarding doc by 2026-03-01",
		"  URGENT \r\n\r\n\r\n right now ",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			report := model.NewIntakeReport(input)
			if err := NewIntakePipeline().Execute(context.Background(), report); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(intake.Orchestrate(input), report.Result()); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestIntakePipelineFillsReport verifies intermediate values are recorded.
func TestIntakePipelineFillsReport(t *testing.T) {
	t.Parallel()

	report := model.NewIntakeReport(" fix the login bug ASAP \r\n")
	if err := NewIntakePipeline().Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Normalized != "fix the login bug ASAP" {
		t.Errorf("unexpected normalized text %q", report.Normalized)
	}
	if report.Softened != "fix the login bug as soon as practical" {
		t.Errorf("unexpected softened text %q", report.Softened)
	}
	if report.Fingerprint != model.Fingerprint(report.Normalized) {
		t.Errorf("unexpected fingerprint %q", report.Fingerprint)
	}

	wantSignals := intake.Signals{
		HasActionVerb:        true,
		HasDeliverableSignal: true,
		HadUrgencyRewrite:    true,
	}
	if diff := cmp.Diff(wantSignals, report.Signals); diff != "" {
		t.Errorf("signals mismatch (-want +got):\n%s", diff)
	}

	wantSteps := []string{StepNormalize, StepSoften, StepInfer, StepFormat}
	if diff := cmp.Diff(wantSteps, report.PerformedSteps); diff != "" {
		t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
	}
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds single step", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "test-step"})

		if p.StepCount() != 1 {
			t.Errorf("expected 1 step, got %d", p.StepCount())
		}
	})

	t.Run("adds multiple steps with AddSteps", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(&mockStep{name: "step-1"}, &mockStep{name: "step-2"}, &mockStep{name: "step-3"})

		if p.StepCount() != 3 {
			t.Errorf("expected 3 steps, got %d", p.StepCount())
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddStep(&mockStep{name: "second"})
		p.AddStep(&mockStep{name: "third"})

		want := []string{"first", "second", "third"}
		if diff := cmp.Diff(want, p.StepNames()); diff != "" {
			t.Errorf("step names mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		executionOrder := make([]string, 0)

		p := New()
		p.AddStep(&mockStep{
			name: "step-1",
			doFunc: func(_ context.Context, _ *model.IntakeReport) error {
				executionOrder = append(executionOrder, "step-1")
				return nil
			},
		})
		p.AddStep(&mockStep{
			name: "step-2",
			doFunc: func(_ context.Context, _ *model.IntakeReport) error {
				executionOrder = append(executionOrder, "step-2")
				return nil
			},
		})

		if err := p.Execute(context.Background(), model.NewIntakeReport("x")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"step-1", "step-2"}, executionOrder); diff != "" {
			t.Errorf("execution order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New()
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.IntakeReport) error {
				return expectedErr
			},
		})
		p.AddStep(second)

		err := p.Execute(context.Background(), model.NewIntakeReport("x"))

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		second := &mockStep{name: "should-run"}

		p := New(WithContinueOnError(true))
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.IntakeReport) error {
				return errors.New("step failed")
			},
		})
		p.AddStep(second)

		report := model.NewIntakeReport("x")
		err := p.Execute(context.Background(), report)

		if err != nil {
			t.Errorf("expected nil error with continueOnError, got %v", err)
		}
		if second.callCount != 1 {
			t.Error("second step should have been called")
		}
		if !report.Failed() {
			t.Error("expected failure to be recorded in report")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "should-not-run"}
		p := New()
		p.AddStep(step)

		report := model.NewIntakeReport("x")
		err := p.Execute(ctx, report)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
		if !errors.Is(report.Error, context.Canceled) {
			t.Errorf("expected report error context.Canceled, got %v", report.Error)
		}
	})

	t.Run("records error in report", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("test error")

		p := New()
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.IntakeReport) error {
				return expectedErr
			},
		})

		report := model.NewIntakeReport("x")
		_ = p.Execute(context.Background(), report) //nolint:errcheck // We check error via report.Error

		if report.Error == nil {
			t.Error("expected error to be recorded in report")
		}
		if report.ErrorMessage != expectedErr.Error() {
			t.Errorf("expected error message %q, got %q", expectedErr.Error(), report.ErrorMessage)
		}
	})
}
