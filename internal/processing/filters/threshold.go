package filters

import (
	"context"
	"fmt"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ThresholdFilter binarizes a grayscale image. With "threshold_otsu" the
// cut point comes from Otsu's method and "threshold_value" is ignored.
type ThresholdFilter struct{}

func NewThresholdFilter() *ThresholdFilter {
	return &ThresholdFilter{}
}

func (t *ThresholdFilter) Name() string {
	return "threshold"
}

func (t *ThresholdFilter) ShouldExecute(params map[string]interface{}) bool {
	return paramBool(params, "threshold_otsu", false) || paramFloat(params, "threshold_value", 0) > 0
}

func (t *ThresholdFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateGrayscaleInput(input, "threshold"); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(input.Rows(), input.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	thresholdType := gocv.ThresholdBinary
	value := float32(paramFloat(params, "threshold_value", 127))
	if paramBool(params, "threshold_otsu", false) {
		thresholdType |= gocv.ThresholdOtsu
		value = 0
	}

	srcMat := input.GetMat()
	dstMat := dst.GetMat()
	gocv.Threshold(srcMat, &dstMat, value, 255, thresholdType)

	return dst, nil
}

// AdaptiveThresholdFilter binarizes against a per-neighborhood cut point.
// Parameters: "adaptive_method" (mean or gaussian), "adaptive_block_size"
// (odd, >= 3) and "adaptive_c" (constant subtracted from the local mean).
type AdaptiveThresholdFilter struct{}

func NewAdaptiveThresholdFilter() *AdaptiveThresholdFilter {
	return &AdaptiveThresholdFilter{}
}

func (a *AdaptiveThresholdFilter) Name() string {
	return "adaptive_threshold"
}

func (a *AdaptiveThresholdFilter) ShouldExecute(params map[string]interface{}) bool {
	return paramString(params, "adaptive_method", "") != ""
}

func (a *AdaptiveThresholdFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateGrayscaleInput(input, "adaptive threshold"); err != nil {
		return nil, err
	}

	blockSize := paramInt(params, "adaptive_block_size", 11)
	if err := safe.ValidateOddKernelSize(blockSize, "adaptive threshold"); err != nil {
		return nil, err
	}

	var method gocv.AdaptiveThresholdType
	switch name := paramString(params, "adaptive_method", "mean"); name {
	case "mean":
		method = gocv.AdaptiveThresholdMean
	case "gaussian":
		method = gocv.AdaptiveThresholdGaussian
	default:
		return nil, fmt.Errorf("unknown adaptive threshold method: %q", name)
	}

	dst, err := safe.NewMat(input.Rows(), input.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	c := float32(paramFloat(params, "adaptive_c", 2))

	srcMat := input.GetMat()
	dstMat := dst.GetMat()
	gocv.AdaptiveThreshold(srcMat, &dstMat, 255, method, gocv.ThresholdBinary, blockSize, c)

	return dst, nil
}
