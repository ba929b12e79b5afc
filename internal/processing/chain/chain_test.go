package chain

import (
	"context"
	"errors"
	"testing"

	"photolab/internal/opencv/safe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type stubStep struct {
	name    string
	enabled bool
	fail    bool
	calls   int
}

func (s *stubStep) Name() string { return s.name }

func (s *stubStep) ShouldExecute(params map[string]interface{}) bool { return s.enabled }

func (s *stubStep) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("boom")
	}
	return input.Clone()
}

func newTestMat(t *testing.T) *safe.Mat {
	t.Helper()
	mat, err := safe.NewMat(8, 8, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	t.Cleanup(mat.Close)
	return mat
}

func TestExecuteRunsEnabledStepsInOrder(t *testing.T) {
	first := &stubStep{name: "first", enabled: true}
	skipped := &stubStep{name: "skipped"}
	last := &stubStep{name: "last", enabled: true}

	pc := NewProcessingChain([]ProcessingStep{first, skipped, last})

	input := newTestMat(t)
	out, err := pc.Execute(context.Background(), input, nil)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, skipped.calls)
	assert.Equal(t, 1, last.calls)
	assert.NotEqual(t, input.ID(), out.ID())
	assert.True(t, input.IsValid(), "input must survive the chain")
}

func TestExecuteStepFailure(t *testing.T) {
	pc := NewProcessingChain([]ProcessingStep{
		&stubStep{name: "ok", enabled: true},
		&stubStep{name: "bad", enabled: true, fail: true},
	})

	input := newTestMat(t)
	_, err := pc.Execute(context.Background(), input, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step bad failed")
	assert.True(t, input.IsValid())
}

func TestExecuteNoActiveStepsClones(t *testing.T) {
	pc := NewProcessingChain([]ProcessingStep{&stubStep{name: "idle"}})

	input := newTestMat(t)
	out, err := pc.Execute(context.Background(), input, nil)
	require.NoError(t, err)
	defer out.Close()

	assert.NotEqual(t, input.ID(), out.ID())
}

func TestExecuteCancelledContext(t *testing.T) {
	step := &stubStep{name: "never", enabled: true}
	pc := NewProcessingChain([]ProcessingStep{step})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := newTestMat(t)
	_, err := pc.Execute(ctx, input, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, step.calls)
}

func TestAddStepGrowsChain(t *testing.T) {
	pc := NewProcessingChain(nil)
	assert.Equal(t, 0, pc.StepCount())

	step := &stubStep{name: "only", enabled: true}
	pc.AddStep(step)
	assert.Equal(t, 1, pc.StepCount())

	input := newTestMat(t)
	out, err := pc.Execute(context.Background(), input, nil)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 1, step.calls)
}

func TestActiveStepNames(t *testing.T) {
	pc := NewProcessingChain([]ProcessingStep{
		&stubStep{name: "on", enabled: true},
		&stubStep{name: "off"},
	})
	assert.Equal(t, []string{"on"}, pc.ActiveStepNames(nil))
	assert.Equal(t, 2, pc.StepCount())
}
