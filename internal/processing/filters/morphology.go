package filters

import (
	"context"
	"image"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MorphologyFilter cleans a binary image: opening removes speckle noise,
// closing fills small gaps. Enabled by "morphology_cleanup".
type MorphologyFilter struct{}

func NewMorphologyFilter() *MorphologyFilter {
	return &MorphologyFilter{}
}

func (m *MorphologyFilter) Name() string {
	return "morphology"
}

func (m *MorphologyFilter) ShouldExecute(params map[string]interface{}) bool {
	return paramBool(params, "morphology_cleanup", false)
}

func (m *MorphologyFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateGrayscaleInput(input, "morphology"); err != nil {
		return nil, err
	}

	opened, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, err
	}
	defer opened.Close()

	kernel3 := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 3, Y: 3})
	defer kernel3.Close()

	srcMat := input.GetMat()
	openedMat := opened.GetMat()
	gocv.MorphologyEx(srcMat, &openedMat, gocv.MorphOpen, kernel3)

	result, err := safe.NewMat(opened.Rows(), opened.Cols(), opened.Type())
	if err != nil {
		return nil, err
	}

	kernel5 := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 5, Y: 5})
	defer kernel5.Close()

	resultMat := result.GetMat()
	gocv.MorphologyEx(openedMat, &resultMat, gocv.MorphClose, kernel5)

	return result, nil
}
