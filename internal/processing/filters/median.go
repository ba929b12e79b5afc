package filters

import (
	"context"
	"fmt"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MedianFilter removes impulse noise. Parameter "median_size" must be odd.
type MedianFilter struct{}

func NewMedianFilter() *MedianFilter {
	return &MedianFilter{}
}

func (m *MedianFilter) Name() string {
	return "median"
}

func (m *MedianFilter) ShouldExecute(params map[string]interface{}) bool {
	return paramInt(params, "median_size", 0) > 0
}

func (m *MedianFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	size := paramInt(params, "median_size", 3)
	if err := safe.ValidateOddKernelSize(size, "median blur"); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	srcMat := input.GetMat()
	dstMat := dst.GetMat()
	gocv.MedianBlur(srcMat, &dstMat, size)

	return dst, nil
}
