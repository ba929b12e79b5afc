package safe

import (
	"fmt"

	"gocv.io/x/gocv"
)

func ValidateMatForOperation(mat *Mat, operation string) error {
	if mat == nil {
		return fmt.Errorf("Mat is nil for operation: %s", operation)
	}
	if !mat.IsValid() {
		return fmt.Errorf("Mat is invalid for operation: %s", operation)
	}
	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation: %s", operation)
	}
	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
			mat.Cols(), mat.Rows(), operation)
	}
	return nil
}

func ValidateColorConversion(src *Mat, code gocv.ColorConversionCode) error {
	if err := ValidateMatForOperation(src, "CvtColor"); err != nil {
		return err
	}

	channels := src.Channels()

	switch code {
	case gocv.ColorBGRToGray, gocv.ColorRGBToGray, gocv.ColorBGRToHSV, gocv.ColorBGRToRGB, gocv.ColorRGBToBGR:
		if channels != 3 {
			return fmt.Errorf("conversion %d requires 3 channels, got %d", code, channels)
		}
	case gocv.ColorGrayToBGR:
		if channels != 1 {
			return fmt.Errorf("gray conversion requires 1 channel, got %d", channels)
		}
	case gocv.ColorBGRAToBGR:
		if channels != 4 {
			return fmt.Errorf("BGRA conversion requires 4 channels, got %d", channels)
		}
	}
	return nil
}

func ValidateGrayscaleInput(mat *Mat, operation string) error {
	if err := ValidateMatForOperation(mat, operation); err != nil {
		return err
	}
	if mat.Channels() != 1 {
		return fmt.Errorf("operation %s requires a single-channel image, got %d channels",
			operation, mat.Channels())
	}
	return nil
}

func ValidateOddKernelSize(size int, operation string) error {
	if size < 3 || size%2 == 0 {
		return fmt.Errorf("kernel size %d must be odd and >= 3 for operation: %s", size, operation)
	}
	return nil
}
