package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.PatchReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.PatchReport) error {
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
		if p.continueOnError {
			t.Error("expected continueOnError to be false")
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true), WithName("quiz"))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
		if p.Name() != "quiz" {
			t.Errorf("expected name 'quiz', got %q", p.Name())
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "a"})
	p.AddSteps(&mockStep{name: "b"}, &mockStep{name: "c"})

	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(p.StepNames(), want) {
		t.Errorf("expected %v, got %v", want, p.StepNames())
	}
}

// TestPipelineExecute tests step execution order and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *model.PatchReport) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("first"), record("second"), record("third"))
		report := model.NewPatchReport("lesson.html", "quiz", false)

		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"first", "second", "third"}
		if !reflect.DeepEqual(order, want) {
			t.Errorf("expected order %v, got %v", want, order)
		}
		if !reflect.DeepEqual(report.PerformedSteps, want) {
			t.Errorf("expected performed steps %v, got %v", want, report.PerformedSteps)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.PatchReport) error {
			return errBoom
		}}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)
		report := model.NewPatchReport("lesson.html", "quiz", false)

		err := p.Execute(context.Background(), report)
		if !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected later step not to run")
		}
		if report.Outcome != model.OutcomeFailed {
			t.Errorf("expected failed outcome, got %v", report.Outcome)
		}
		if report.ErrorMessage != "boom" {
			t.Errorf("expected error message 'boom', got %q", report.ErrorMessage)
		}
		if len(report.PerformedSteps) != 0 {
			t.Errorf("expected no performed steps, got %v", report.PerformedSteps)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		errFirst := errors.New("first")
		errSecond := errors.New("second")
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&mockStep{name: "a", doFunc: func(context.Context, *model.PatchReport) error { return errFirst }},
			&mockStep{name: "b", doFunc: func(context.Context, *model.PatchReport) error { return errSecond }},
		)
		report := model.NewPatchReport("lesson.html", "quiz", false)

		err := p.Execute(context.Background(), report)
		if !errors.Is(err, errFirst) {
			t.Errorf("expected first error, got %v", err)
		}
		if !errors.Is(report.Error, errFirst) {
			t.Errorf("expected report to keep the first error, got %v", report.Error)
		}
		if len(report.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %d", len(report.PerformedSteps))
		}
	})

	t.Run("skip stops without failing", func(t *testing.T) {
		t.Parallel()

		after := &mockStep{name: "after"}
		p := New()
		p.AddSteps(
			&mockStep{name: "skip", doFunc: func(context.Context, *model.PatchReport) error { return ErrSkipDocument }},
			after,
		)
		report := model.NewPatchReport("lesson.html", "theme", false)

		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Outcome != model.OutcomeSkipped {
			t.Errorf("expected skipped outcome, got %v", report.Outcome)
		}
		if after.callCount != 0 {
			t.Error("expected later step not to run")
		}
		if report.Error != nil {
			t.Errorf("expected no error, got %v", report.Error)
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)
		report := model.NewPatchReport("lesson.html", "quiz", false)

		err := p.Execute(ctx, report)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
		if report.Outcome != model.OutcomeFailed {
			t.Errorf("expected failed outcome, got %v", report.Outcome)
		}
	})
}

// TestPatch tests the single-document convenience function.
func TestPatch(t *testing.T) {
	t.Parallel()

	p := New(WithName("quiz"))
	p.AddStep(&mockStep{name: "noop"})

	report, err := Patch(context.Background(), p, "dir/maths.html", "custom", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Pipeline != "quiz" {
		t.Errorf("expected pipeline 'quiz', got %q", report.Pipeline)
	}
	if report.Identifier() != "custom" {
		t.Errorf("expected identifier 'custom', got %q", report.Identifier())
	}
	if !report.DryRun {
		t.Error("expected dry run report")
	}
	if report.FinishedAt.IsZero() {
		t.Error("expected FinishedAt to be set")
	}
}
