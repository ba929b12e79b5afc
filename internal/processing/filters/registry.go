package filters

import (
	"fmt"

	"photolab/internal/processing/chain"
)

// DefaultSteps returns every demonstration filter in execution order.
// Smoothing and convolution run on the color image, grayscale conversion
// sits before the stages that require single-channel input, and cleanup
// runs last. Each step gates itself on the parameter map, so one chain
// serves every parameter combination.
func DefaultSteps() []chain.ProcessingStep {
	return []chain.ProcessingStep{
		NewMedianFilter(),
		NewGaussianFilter(),
		NewKernelFilter(),
		NewColorSpaceConverter(),
		NewGrayscaleConverter(),
		NewThresholdFilter(),
		NewAdaptiveThresholdFilter(),
		NewCannyFilter(),
		NewMorphologyFilter(),
	}
}

// NewDemoChain assembles the default filter chain.
func NewDemoChain() *chain.ProcessingChain {
	return chain.NewProcessingChain(DefaultSteps())
}

// Lookup resolves a single filter by name.
func Lookup(name string) (chain.ProcessingStep, error) {
	for _, step := range DefaultSteps() {
		if step.Name() == name {
			return step, nil
		}
	}
	return nil, fmt.Errorf("unknown filter: %q", name)
}

// Names lists the registered filter names in execution order.
func Names() []string {
	steps := DefaultSteps()
	names := make([]string, len(steps))
	for i, step := range steps {
		names[i] = step.Name()
	}
	return names
}
