package chain

import (
	"context"
	"fmt"

	"photolab/internal/opencv/safe"
)

// ProcessingStep is one gated image operation. Steps decide from the
// parameter map whether they participate in a run.
type ProcessingStep interface {
	Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error)
	Name() string
	ShouldExecute(params map[string]interface{}) bool
}

// ProcessingChain runs steps in order, handing each step's output to the
// next and closing intermediates. The input Mat is never closed; the caller
// owns it.
type ProcessingChain struct {
	steps []ProcessingStep
}

func NewProcessingChain(steps []ProcessingStep) *ProcessingChain {
	return &ProcessingChain{steps: steps}
}

func (pc *ProcessingChain) Execute(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	current := input
	needsCleanup := false

	for _, step := range pc.steps {
		select {
		case <-ctx.Done():
			if needsCleanup && current != input {
				current.Close()
			}
			return nil, ctx.Err()
		default:
		}

		if !step.ShouldExecute(params) {
			continue
		}

		result, err := step.Apply(ctx, current, params)
		if err != nil {
			if needsCleanup && current != input {
				current.Close()
			}
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		if needsCleanup && current != input {
			current.Close()
		}

		current = result
		needsCleanup = true
	}

	if !needsCleanup {
		// No step ran; return a clone so the caller always owns the result.
		return input.Clone()
	}

	return current, nil
}

func (pc *ProcessingChain) AddStep(step ProcessingStep) {
	pc.steps = append(pc.steps, step)
}

func (pc *ProcessingChain) StepCount() int {
	return len(pc.steps)
}

// ActiveStepNames reports which steps would run for the given parameters.
func (pc *ProcessingChain) ActiveStepNames(params map[string]interface{}) []string {
	var names []string
	for _, step := range pc.steps {
		if step.ShouldExecute(params) {
			names = append(names, step.Name())
		}
	}
	return names
}
