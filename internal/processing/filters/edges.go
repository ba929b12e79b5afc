package filters

import (
	"context"
	"fmt"
	"image"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// CannyFilter runs Canny edge detection over a grayscale image. A light
// Gaussian pass first suppresses sensor noise that would otherwise read as
// edges. Parameters: "canny_low" and "canny_high" hysteresis thresholds,
// "canny_sigma" for the pre-smoothing.
type CannyFilter struct{}

func NewCannyFilter() *CannyFilter {
	return &CannyFilter{}
}

func (c *CannyFilter) Name() string {
	return "canny"
}

func (c *CannyFilter) ShouldExecute(params map[string]interface{}) bool {
	return paramFloat(params, "canny_high", 0) > 0
}

func (c *CannyFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateGrayscaleInput(input, "canny"); err != nil {
		return nil, err
	}

	low := float32(paramFloat(params, "canny_low", 50))
	high := float32(paramFloat(params, "canny_high", 150))
	if low >= high {
		return nil, fmt.Errorf("canny thresholds out of order: low %.1f >= high %.1f", low, high)
	}

	sigma := paramFloat(params, "canny_sigma", 1.4)

	smoothed := gocv.NewMat()
	defer smoothed.Close()

	srcMat := input.GetMat()
	if sigma > 0 {
		kernelSize := KernelSizeForSigma(sigma)
		gocv.GaussianBlur(srcMat, &smoothed, image.Point{X: kernelSize, Y: kernelSize}, sigma, sigma, gocv.BorderDefault)
	} else {
		srcMat.CopyTo(&smoothed)
	}

	dst, err := safe.NewMat(input.Rows(), input.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	dstMat := dst.GetMat()
	gocv.Canny(smoothed, &dstMat, low, high)

	return dst, nil
}
