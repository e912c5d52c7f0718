package operations

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxicli/internal/config"
)

// fakeStep is a configurable step for manager tests
type fakeStep struct {
	id          string
	validateErr error
	executeErr  error
	executed    *[]string
}

func (f *fakeStep) ID() string   { return f.id }
func (f *fakeStep) Name() string { return "fake " + f.id }

func (f *fakeStep) Validate(state *PipelineState) error {
	return f.validateErr
}

func (f *fakeStep) Execute(ctx context.Context, state *PipelineState) error {
	if f.executed != nil {
		*f.executed = append(*f.executed, f.id)
	}
	return f.executeErr
}

func newTestState(t *testing.T) *PipelineState {
	t.Helper()
	return NewPipelineState(config.Default(), &config.Paths{
		DataDir:      t.TempDir(),
		DownloadsDir: t.TempDir(),
		ReportsDir:   t.TempDir(),
		LogsDir:      t.TempDir(),
	}, nil)
}

func TestManager_Execute_RunsStepsInOrder(t *testing.T) {
	var order []string
	steps := []Step{
		&fakeStep{id: "first", executed: &order},
		&fakeStep{id: "second", executed: &order},
		&fakeStep{id: "third", executed: &order},
	}

	m := NewManager(slog.Default(), nil, nil, steps)
	state := newTestState(t)

	err := m.Execute(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, PipelineStatusCompleted, state.GetStatus())
	assert.False(t, state.Summary.FinishedAt.IsZero())

	for _, id := range order {
		assert.Equal(t, StepStatusCompleted, state.StepState(id, "").GetStatus())
		assert.Contains(t, state.Summary.StageDurations, id)
	}
}

func TestManager_Execute_StopsOnFailure(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	steps := []Step{
		&fakeStep{id: "ok", executed: &order},
		&fakeStep{id: "bad", executed: &order, executeErr: boom},
		&fakeStep{id: "never", executed: &order},
	}

	m := NewManager(slog.Default(), nil, nil, steps)
	state := newTestState(t)

	err := m.Execute(context.Background(), state)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")

	assert.Equal(t, []string{"ok", "bad"}, order)
	assert.Equal(t, PipelineStatusFailed, state.GetStatus())
	assert.Equal(t, StepStatusFailed, state.StepState("bad", "").GetStatus())
}

func TestManager_Execute_ValidationFailureSkipsExecute(t *testing.T) {
	var order []string
	invalid := errors.New("not ready")
	steps := []Step{
		&fakeStep{id: "guarded", executed: &order, validateErr: invalid},
	}

	m := NewManager(slog.Default(), nil, nil, steps)
	state := newTestState(t)

	err := m.Execute(context.Background(), state)
	require.Error(t, err)
	assert.ErrorIs(t, err, invalid)
	assert.Empty(t, order)
}

func TestManager_Execute_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(slog.Default(), nil, nil, []Step{&fakeStep{id: "any"}})
	state := newTestState(t)

	err := m.Execute(ctx, state)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PipelineStatusFailed, state.GetStatus())
}

func TestStepState_Lifecycle(t *testing.T) {
	s := NewStepState("x", "X")
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())

	s.Complete()
	assert.Equal(t, StepStatusCompleted, s.GetStatus())
	assert.GreaterOrEqual(t, s.Duration().Nanoseconds(), int64(0))
}

func TestStepState_FailAndSkip(t *testing.T) {
	failed := NewStepState("f", "F")
	failed.Start()
	failed.Fail(errors.New("nope"))
	assert.Equal(t, StepStatusFailed, failed.GetStatus())
	assert.Error(t, failed.Error)

	skipped := NewStepState("s", "S")
	skipped.Skip("nothing to do")
	assert.Equal(t, StepStatusSkipped, skipped.GetStatus())
	assert.Equal(t, "nothing to do", skipped.Message)
}

func TestPipelineState_StepStateReuse(t *testing.T) {
	state := newTestState(t)

	a := state.StepState("parse", "Parse")
	b := state.StepState("parse", "ignored on reuse")
	assert.Same(t, a, b)
	assert.Len(t, state.StepStates(), 1)
}
