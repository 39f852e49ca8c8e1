package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/yomikata/jmindex/internal/model"
)

// Step defines the interface all pipeline steps implement. Steps are
// executed in sequence, each receiving the report accumulated by the
// previous ones.
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the report to read from and write to. Any
	// returned error stops the pipeline.
	Do(ctx context.Context, report *model.BuildReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes an ordered list of steps against one BuildReport.
// Unlike a crawl, a build has no useful partial result, so the pipeline
// always halts on the first failure.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options. Steps are added with
// AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps to the pipeline in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence. Cancellation is checked
// before each step; steps handle their own I/O cancellation through the
// context. The first error stops execution, is recorded on the report,
// and is returned. Elapsed time is recorded on the report either way.
func (p *Pipeline) Execute(ctx context.Context, report *model.BuildReport) error {
	defer func() {
		report.Elapsed = time.Since(report.StartedAt)
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.RecordError(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step", "step", step.Name(), "tag", report.Tag)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"tag", report.Tag,
				"error", err,
			)
			report.RecordError(err)
			return err
		}

		p.logger.Debug("step completed", "step", step.Name(), "tag", report.Tag)
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
