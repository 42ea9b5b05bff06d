package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
	"surveyprep/internal/infrastructure"
	"surveyprep/pkg/contracts/domain"
)

var reportValidator = validator.New(validator.WithRequiredStructEnabled())

// Pipeline runs the registered steps over a survey extract
type Pipeline struct {
	registry *Registry
	opts     Options
	logger   *slog.Logger
	tracer   *RunTracer
	reporter ProgressReporter
	steps    []Step
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithOptions replaces the default options
func WithOptions(opts Options) PipelineOption {
	return func(p *Pipeline) { p.opts = opts }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

// WithTracer sets the run tracer
func WithTracer(tracer *RunTracer) PipelineOption {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithProgressReporter sets the step event receiver
func WithProgressReporter(r ProgressReporter) PipelineOption {
	return func(p *Pipeline) { p.reporter = r }
}

// WithSteps registers custom steps instead of DefaultSteps
func WithSteps(steps ...Step) PipelineOption {
	return func(p *Pipeline) { p.steps = steps }
}

// NewPipeline creates a pipeline with the default steps unless WithSteps is given
func NewPipeline(opts ...PipelineOption) (*Pipeline, error) {
	p := &Pipeline{
		opts:   DefaultOptions(),
		logger: infrastructure.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = NewRunTracer(nil, nil)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = infrastructure.WithComponent(p.logger, "pipeline")

	steps := p.steps
	if steps == nil {
		steps = DefaultSteps(p.logger)
	}
	p.registry = NewRegistry()
	for _, s := range steps {
		if err := p.registry.Register(s); err != nil {
			return nil, fmt.Errorf("register step: %w", err)
		}
	}
	if p.registry.Count() == 0 {
		return nil, errors.New("pipeline has no steps")
	}
	return p, nil
}

// StepIDs returns the step identifiers in execution order
func (p *Pipeline) StepIDs() []string {
	return p.registry.ListIDs()
}

// Transform cleans a copy of data for the given variant. The caller's dataset
// is never modified. On any error no dataset is returned.
func (p *Pipeline) Transform(ctx context.Context, variant domain.Variant, data *dataset.Dataset, refs References) (*dataset.Dataset, *domain.TransformReport, error) {
	if err := p.checkInputs(variant, data, refs); err != nil {
		return nil, nil, err
	}

	ctx, runID := infrastructure.EnsureRunID(ctx)
	state := NewRunState(runID, variant, data.Clone(), refs, p.opts)
	state.Report.InputShape = domain.Shape{Rows: data.NumRows(), Columns: data.NumColumns()}

	ctx, span := p.tracer.TraceRun(ctx, state)
	defer span.End()

	state.Start()
	p.logger.InfoContext(ctx, "run_start",
		slog.String("variant", variant.String()),
		slog.Int("rows", data.NumRows()),
		slog.Int("columns", data.NumColumns()))

	if err := p.runSteps(ctx, state); err != nil {
		if GetErrorType(err) == ErrorTypeCancellation {
			state.Cancel(err)
		} else {
			state.Fail(err)
		}
		p.logger.ErrorContext(ctx, "run_error",
			slog.String("step", FailedStep(err)),
			slog.String("error", err.Error()))
		p.tracer.RecordRunCompletion(ctx, span, state, err)
		return nil, nil, err
	}

	report := state.Report
	report.OutputShape = domain.Shape{Rows: state.Data.NumRows(), Columns: state.Data.NumColumns()}
	report.CompletedAt = time.Now()
	if err := reportValidator.Struct(report); err != nil {
		opErr := NewFatalError("run report is invalid", err)
		state.Fail(opErr)
		p.tracer.RecordRunCompletion(ctx, span, state, opErr)
		return nil, nil, opErr
	}

	state.Complete()
	p.logger.InfoContext(ctx, "run_complete",
		slog.Int("rows", report.OutputShape.Rows),
		slog.Int("columns", report.OutputShape.Columns),
		slog.Int("dropped", len(report.Dropped)),
		slog.Duration("duration", state.Duration()))
	p.tracer.RecordRunCompletion(ctx, span, state, nil)

	return state.Data, report, nil
}

// checkInputs rejects runs that cannot start
func (p *Pipeline) checkInputs(variant domain.Variant, data *dataset.Dataset, refs References) error {
	if !variant.IsValid() {
		return NewValidationError("", "cannot start run",
			apperrors.NewInvalidInputError(fmt.Sprintf("unknown variant %q", string(variant))))
	}
	if data == nil || data.NumRows() == 0 {
		return NewValidationError("", "cannot start run",
			apperrors.NewInvalidInputError("dataset has no rows"))
	}
	if refs.MissingValues == nil || refs.TypeActions == nil {
		return NewValidationError("", "cannot start run",
			apperrors.NewInvalidInputError("both reference tables are required"))
	}
	return nil
}

// runSteps executes the registered steps in order
func (p *Pipeline) runSteps(ctx context.Context, state *RunState) error {
	steps := p.registry.List()
	tracker := NewProgressTracker(len(steps))

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return NewCancellationError(step.ID(), err)
		}

		stepState := NewStepState(step.ID(), step.Name())
		state.SetStep(step.ID(), stepState)

		if c, ok := step.(ConditionalStep); ok && !c.CanRun(state) {
			stepState.Skip(fmt.Sprintf("not applicable to %s", state.Variant))
			p.logger.DebugContext(ctx, "stage_skipped", slog.String("step", step.ID()))
			p.report(state, step, stepState, tracker.Increment(), len(steps), nil)
			continue
		}

		if err := step.Validate(state); err != nil {
			opErr := WrapError(err, step.ID())
			if opErr.Type == ErrorTypeExecution {
				opErr = NewValidationError(step.ID(), "step validation failed", err)
			}
			stepState.Fail(opErr)
			p.report(state, step, stepState, tracker.Increment(), len(steps), opErr)
			return opErr
		}

		if err := p.executeStep(ctx, state, step, stepState); err != nil {
			p.report(state, step, stepState, tracker.Increment(), len(steps), err)
			return err
		}
		p.report(state, step, stepState, tracker.Increment(), len(steps), nil)
	}
	return nil
}

// executeStep runs one step inside its own span
func (p *Pipeline) executeStep(ctx context.Context, state *RunState, step Step, stepState *StepState) error {
	ctx, span := p.tracer.TraceStep(ctx, state, step)
	defer span.End()

	p.logger.InfoContext(ctx, "stage_start",
		slog.String("step", step.ID()),
		slog.Int("columns", state.Data.NumColumns()))

	stepState.Start()
	err := step.Execute(ctx, state)
	duration := stepState.Duration()

	if err != nil {
		opErr := WrapError(err, step.ID())
		stepState.Fail(opErr)
		p.tracer.RecordStepCompletion(ctx, span, state, step.ID(), duration, opErr)
		p.logger.ErrorContext(ctx, "stage_error",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return opErr
	}

	columns := state.Data.NumColumns()
	stepState.Complete(fmt.Sprintf("%d columns", columns))
	duration = stepState.Duration()
	state.Report.Steps = append(state.Report.Steps, domain.StepTiming{
		Step:     step.ID(),
		Duration: duration,
		Columns:  columns,
	})
	p.tracer.RecordStepCompletion(ctx, span, state, step.ID(), duration, nil)
	p.logger.InfoContext(ctx, "stage_complete",
		slog.String("step", step.ID()),
		slog.Int("columns", columns),
		slog.Duration("duration", duration))
	return nil
}

func (p *Pipeline) report(state *RunState, step Step, stepState *StepState, index, total int, err error) {
	if p.reporter == nil {
		return
	}
	p.reporter.ReportProgress(StepEvent{
		RunID:    state.ID,
		StepID:   step.ID(),
		StepName: step.Name(),
		Index:    index,
		Total:    total,
		Status:   stepState.GetStatus(),
		Columns:  state.Data.NumColumns(),
		Duration: stepState.Duration(),
		Err:      err,
	})
}
