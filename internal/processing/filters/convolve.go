package filters

import (
	"context"
	"fmt"
	"image"

	"photolab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// KernelFilter runs a generic 2D convolution with a named kernel preset.
// Parameters: "kernel" selects the preset, "kernel_size" scales the box
// preset.
type KernelFilter struct{}

func NewKernelFilter() *KernelFilter {
	return &KernelFilter{}
}

func (k *KernelFilter) Name() string {
	return "convolve"
}

func (k *KernelFilter) ShouldExecute(params map[string]interface{}) bool {
	return paramString(params, "kernel", "") != ""
}

func (k *KernelFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	preset := paramString(params, "kernel", "box")
	size := paramInt(params, "kernel_size", 3)

	weights, err := KernelPreset(preset, size)
	if err != nil {
		return nil, err
	}
	return convolve(input, weights)
}

// KernelPreset returns the convolution weights for a named preset. The box
// preset honors size; the fixed 3x3 presets ignore it.
func KernelPreset(name string, size int) ([][]float32, error) {
	switch name {
	case "box":
		if err := safe.ValidateOddKernelSize(size, "box convolution"); err != nil {
			return nil, err
		}
		weight := float32(1) / float32(size*size)
		rows := make([][]float32, size)
		for i := range rows {
			row := make([]float32, size)
			for j := range row {
				row[j] = weight
			}
			rows[i] = row
		}
		return rows, nil
	case "sharpen":
		return [][]float32{
			{0, -1, 0},
			{-1, 5, -1},
			{0, -1, 0},
		}, nil
	case "emboss":
		return [][]float32{
			{-2, -1, 0},
			{-1, 1, 1},
			{0, 1, 2},
		}, nil
	case "outline":
		return [][]float32{
			{-1, -1, -1},
			{-1, 8, -1},
			{-1, -1, -1},
		}, nil
	default:
		return nil, fmt.Errorf("unknown kernel preset: %q", name)
	}
}

func convolve(src *safe.Mat, weights [][]float32) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "convolution"); err != nil {
		return nil, err
	}

	rows := len(weights)
	cols := len(weights[0])

	kernel := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer kernel.Close()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			kernel.SetFloatAt(y, x, weights[y][x])
		}
	}

	dst, err := safe.NewMat(src.Rows(), src.Cols(), src.Type())
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()
	// ddepth -1 keeps the source depth. Anchor (-1,-1) centers the kernel.
	gocv.Filter2D(srcMat, &dstMat, gocv.MatType(-1), kernel, image.Point{X: -1, Y: -1}, 0, gocv.BorderDefault)

	return dst, nil
}
