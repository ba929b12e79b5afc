package filters

import (
	"context"
	"fmt"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ColorSpaceConverter re-expresses a BGR image in another color space. The
// "color_target" parameter selects gray, hsv or rgb.
type ColorSpaceConverter struct{}

func NewColorSpaceConverter() *ColorSpaceConverter {
	return &ColorSpaceConverter{}
}

func (c *ColorSpaceConverter) Name() string {
	return "colorspace"
}

func (c *ColorSpaceConverter) ShouldExecute(params map[string]interface{}) bool {
	return paramString(params, "color_target", "") != ""
}

func (c *ColorSpaceConverter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	target := paramString(params, "color_target", "gray")

	code, matType, err := conversionFor(target)
	if err != nil {
		return nil, err
	}

	if err := safe.ValidateColorConversion(input, code); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(input.Rows(), input.Cols(), matType)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	srcMat := input.GetMat()
	dstMat := dst.GetMat()
	gocv.CvtColor(srcMat, &dstMat, code)

	return dst, nil
}

func conversionFor(target string) (gocv.ColorConversionCode, gocv.MatType, error) {
	switch target {
	case "gray":
		return gocv.ColorBGRToGray, gocv.MatTypeCV8UC1, nil
	case "hsv":
		return gocv.ColorBGRToHSV, gocv.MatTypeCV8UC3, nil
	case "rgb":
		return gocv.ColorBGRToRGB, gocv.MatTypeCV8UC3, nil
	default:
		return 0, 0, fmt.Errorf("unknown color target: %q", target)
	}
}
