package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/realf/photos-takeout/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the accumulated result
// of the archive being processed.
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the result to update. A non-nil error halts the
	// pipeline; there is no skip-and-continue mode.
	Do(ctx context.Context, result *model.ArchiveResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of steps for one archive.
// It stops at the first failing step.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline with the given options.
// Steps are added with AddStep or AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence, halting on the first error.
// Cancellation is checked before each step; steps handle their own
// internal cancellation points.
func (p *Pipeline) Execute(ctx context.Context, result *model.ArchiveResult) error {
	defer func() {
		result.Elapsed = time.Since(result.StartedAt)
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"archive", result.Archive,
				"reason", ctx.Err(),
			)
			result.FailedStep = step.Name()
			result.Error = ctx.Err()
			result.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"archive", result.Archive,
		)

		result.PerformedSteps = append(result.PerformedSteps, step.Name())

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"archive", result.Archive,
				"error", err,
			)

			result.FailedStep = step.Name()
			result.Error = err
			result.ErrorMessage = err.Error()
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"archive", result.Archive,
		)
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
