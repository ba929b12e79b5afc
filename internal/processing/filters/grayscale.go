package filters

import (
	"context"
	"fmt"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GrayscaleConverter collapses color images to a single luminance channel.
// Single-channel input passes through as a clone.
type GrayscaleConverter struct{}

func NewGrayscaleConverter() *GrayscaleConverter {
	return &GrayscaleConverter{}
}

func (g *GrayscaleConverter) Name() string {
	return "grayscale"
}

// ShouldExecute reports true when conversion was requested directly or a
// later stage only works on single-channel input.
func (g *GrayscaleConverter) ShouldExecute(params map[string]interface{}) bool {
	if paramBool(params, "grayscale", false) {
		return true
	}
	return paramBool(params, "threshold_otsu", false) ||
		paramFloat(params, "threshold_value", 0) > 0 ||
		paramString(params, "adaptive_method", "") != "" ||
		paramFloat(params, "canny_high", 0) > 0 ||
		paramBool(params, "morphology_cleanup", false)
}

func (g *GrayscaleConverter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if input.Channels() == 1 {
		return input.Clone()
	}
	return convertToGrayscale(input)
}

func convertToGrayscale(src *safe.Mat) (*safe.Mat, error) {
	dst, err := safe.NewMat(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	switch src.Channels() {
	case 3:
		gocv.CvtColor(srcMat, &dstMat, gocv.ColorBGRToGray)
	case 4:
		tempBGR := gocv.NewMat()
		defer tempBGR.Close()
		gocv.CvtColor(srcMat, &tempBGR, gocv.ColorBGRAToBGR)
		gocv.CvtColor(tempBGR, &dstMat, gocv.ColorBGRToGray)
	default:
		dst.Close()
		return nil, fmt.Errorf("unsupported channel count for grayscale conversion: %d", src.Channels())
	}

	return dst, nil
}
