// Package pipeline sequences the stages of a dataset run. Both binaries
// build on the same runner: ordered steps, per-step timing and logging,
// and a report the command layer turns into an exit code.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"bcbdata/pkg/contracts/domain"
)

// Step is one stage of a dataset run.
type Step interface {
	// ID returns the stable identifier used in logs.
	ID() string

	// Name returns the human-readable step name.
	Name() string

	// Run executes the step.
	Run(ctx context.Context) error
}

// StepFunc adapts a function to the Step interface.
func StepFunc(id, name string, run func(ctx context.Context) error) Step {
	return stepFunc{id: id, name: name, run: run}
}

type stepFunc struct {
	id   string
	name string
	run  func(ctx context.Context) error
}

func (s stepFunc) ID() string                    { return s.id }
func (s stepFunc) Name() string                  { return s.name }
func (s stepFunc) Run(ctx context.Context) error { return s.run(ctx) }

// StepStatus is the lifecycle state of a step within one run.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepActive    StepStatus = "active"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepState records how one step went.
type StepState struct {
	ID       string
	Name     string
	Status   StepStatus
	Duration time.Duration
	Err      error
}

// Report summarizes one run: every step's state and the first error, if
// any. Steps after a failure are recorded as skipped.
type Report struct {
	Steps    []StepState
	Duration time.Duration
	Err      error
}

// Failed reports whether the run stopped on an error.
func (r *Report) Failed() bool {
	return r.Err != nil
}

// PeriodOutcome records how one reference period fared during collection.
// A nil Err means the period produced Rows canonical records.
type PeriodOutcome struct {
	Period domain.Period
	Rows   int
	Err    error
}

// Outcomes is the per-period result list of a collection step.
type Outcomes []PeriodOutcome

// Usable counts the periods that produced records.
func (o Outcomes) Usable() int {
	n := 0
	for _, out := range o {
		if out.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts the periods that were skipped.
func (o Outcomes) Failed() int {
	return len(o) - o.Usable()
}

// Runner executes steps in order, stopping at the first failure.
type Runner struct {
	steps []Step
}

// NewRunner returns a runner over the given steps.
func NewRunner(steps ...Step) *Runner {
	return &Runner{steps: steps}
}

// Run executes every step sequentially. The first step error, or context
// cancellation between steps, stops the run; later steps are marked
// skipped. The report is always complete, one state per step.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{Steps: make([]StepState, len(r.steps))}
	start := time.Now()

	for i, step := range r.steps {
		report.Steps[i] = StepState{ID: step.ID(), Name: step.Name(), Status: StepPending}
	}

	for i, step := range r.steps {
		state := &report.Steps[i]

		if report.Err != nil {
			state.Status = StepSkipped
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Err = err
			state.Status = StepSkipped
			continue
		}

		state.Status = StepActive
		slog.InfoContext(ctx, "step_start",
			slog.String("step", step.ID()),
			slog.String("name", step.Name()))

		stepStart := time.Now()
		err := step.Run(ctx)
		state.Duration = time.Since(stepStart)

		if err != nil {
			state.Status = StepFailed
			state.Err = err
			report.Err = err
			slog.ErrorContext(ctx, "step_error",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()),
				slog.Duration("duration", state.Duration))
			continue
		}

		state.Status = StepCompleted
		slog.InfoContext(ctx, "step_complete",
			slog.String("step", step.ID()),
			slog.Duration("duration", state.Duration))
	}

	report.Duration = time.Since(start)
	return report
}
