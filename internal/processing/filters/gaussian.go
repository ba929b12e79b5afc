package filters

import (
	"context"
	"fmt"
	"image"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GaussianFilter smooths with a Gaussian kernel sized from the
// "gaussian_sigma" parameter. Sigma <= 0 passes through as a clone.
type GaussianFilter struct{}

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Name() string {
	return "gaussian"
}

func (g *GaussianFilter) ShouldExecute(params map[string]interface{}) bool {
	return paramFloat(params, "gaussian_sigma", 0) > 0
}

func (g *GaussianFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	sigma := paramFloat(params, "gaussian_sigma", 1.0)
	if sigma <= 0 {
		return input.Clone()
	}
	return applyGaussianBlur(input, sigma)
}

func applyGaussianBlur(src *safe.Mat, sigma float64) (*safe.Mat, error) {
	dst, err := safe.NewMat(src.Rows(), src.Cols(), src.Type())
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	kernelSize := KernelSizeForSigma(sigma)

	srcMat := src.GetMat()
	dstMat := dst.GetMat()
	gocv.GaussianBlur(srcMat, &dstMat, image.Point{X: kernelSize, Y: kernelSize}, sigma, sigma, gocv.BorderDefault)

	return dst, nil
}

// KernelSizeForSigma derives an odd kernel size covering roughly three
// standard deviations each side, clamped to [3, 15].
func KernelSizeForSigma(sigma float64) int {
	size := int(sigma*6) + 1
	if size%2 == 0 {
		size++
	}
	if size < 3 {
		size = 3
	}
	if size > 15 {
		size = 15
	}
	return size
}
