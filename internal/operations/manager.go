package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"taxicli/internal/infrastructure"
)

// Manager executes pipeline steps in order against a shared state.
// Execution is fail-fast: the first step error aborts the run.
type Manager struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	steps   []Step
}

// NewManager creates a manager for the given ordered steps
func NewManager(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics, steps []Step) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("operations")
	}
	return &Manager{
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
		steps:   steps,
	}
}

// Steps returns the configured steps in execution order
func (m *Manager) Steps() []Step {
	return m.steps
}

// Execute runs every step in order. The returned error carries the
// failing step id; the state's step records hold per-step detail.
func (m *Manager) Execute(ctx context.Context, state *PipelineState) error {
	ctx, span := m.tracer.Start(ctx, "pipeline.execute",
		trace.WithAttributes(
			attribute.String("run.id", state.RunID),
			attribute.Int("step.count", len(m.steps)),
		))
	defer span.End()

	state.SetStatus(PipelineStatusRunning)

	m.logger.InfoContext(ctx, "pipeline run started",
		slog.String("run_id", state.RunID),
		slog.Int("steps", len(m.steps)))

	for _, step := range m.steps {
		if err := ctx.Err(); err != nil {
			state.SetStatus(PipelineStatusFailed)
			return fmt.Errorf("pipeline cancelled before step %s: %w", step.ID(), err)
		}

		if err := m.executeStep(ctx, step, state); err != nil {
			state.SetStatus(PipelineStatusFailed)
			infrastructure.RecordError(ctx, err)
			return fmt.Errorf("step %s failed: %w", step.ID(), err)
		}
	}

	state.SetStatus(PipelineStatusCompleted)
	state.Summary.Finish()

	m.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", state.RunID),
		slog.Duration("duration", state.Summary.Duration),
		slog.Int("input_rows", state.Summary.InputRows),
		slog.Int("output_rows", state.Summary.OutputRows),
		slog.Int("rows_removed", state.Summary.RowsRemoved()))

	return nil
}

// executeStep runs one step with validation, tracing and timing
func (m *Manager) executeStep(ctx context.Context, step Step, state *PipelineState) error {
	ctx, span := m.tracer.Start(ctx, "pipeline.step."+step.ID(),
		trace.WithAttributes(attribute.String("step.id", step.ID())))
	defer span.End()

	stepState := state.StepState(step.ID(), step.Name())

	if err := step.Validate(state); err != nil {
		stepState.Fail(err)
		return fmt.Errorf("validation: %w", err)
	}

	m.logger.InfoContext(ctx, "step started",
		slog.String("step", step.ID()),
		slog.String("name", step.Name()))

	stepState.Start()
	start := time.Now()

	err := step.Execute(ctx, state)
	elapsed := time.Since(start)

	state.Summary.StageDurations[step.ID()] = elapsed
	infrastructure.RecordStageMetrics(ctx, m.metrics, step.ID(), elapsed, err)

	if err != nil {
		stepState.Fail(err)
		m.logger.ErrorContext(ctx, "step failed",
			slog.String("step", step.ID()),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
		return err
	}

	stepState.Complete()
	m.logger.InfoContext(ctx, "step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", elapsed))

	return nil
}
