package conversion

import (
	"fmt"
	"image"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatProperties describes a Mat for logging and validation.
type MatProperties struct {
	Rows     int
	Cols     int
	Channels int
	Type     gocv.MatType
	Empty    bool
}

func GetMatProperties(mat *safe.Mat) MatProperties {
	if mat == nil {
		return MatProperties{Empty: true}
	}
	return MatProperties{
		Rows:     mat.Rows(),
		Cols:     mat.Cols(),
		Channels: mat.Channels(),
		Type:     mat.Type(),
		Empty:    mat.Empty(),
	}
}

// MatFromBytes decodes an encoded image (jpeg, png, tiff, ...) into a safe
// Mat via OpenCV.
func MatFromBytes(data []byte) (*safe.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("opencv decode failed: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("opencv decode produced empty Mat")
	}
	return safe.NewMatFromMat(mat)
}

// MatToImage converts a Mat back to a Go image for encoding with the
// standard library.
func MatToImage(mat *safe.Mat) (image.Image, error) {
	if err := safe.ValidateMatForOperation(mat, "Mat to image conversion"); err != nil {
		return nil, err
	}

	inner := mat.GetMat()
	img, err := inner.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}
	return img, nil
}
