package pipeline

import (
	"context"
	"image"
	"io"

	"photolab/internal/opencv/safe"
)

// ImageLoader decodes images into paired Go and OpenCV representations.
type ImageLoader interface {
	LoadFromFile(path string) (*ImageData, error)
	LoadFromBytes(data []byte, ext string) (*ImageData, error)
}

// ImageSaver encodes processed images.
type ImageSaver interface {
	SaveToWriter(writer io.Writer, imageData *ImageData, format string) error
	SaveToPath(path string, imageData *ImageData) error
}

// ImageProcessor runs the filter chain over a loaded image.
type ImageProcessor interface {
	Process(ctx context.Context, input *ImageData, params map[string]interface{}) (*ImageData, error)
}

// ImageData pairs the standard-library image with its OpenCV Mat. Both views
// describe the same pixels; the Mat feeds gocv operations, the image feeds
// encoders.
type ImageData struct {
	Image    image.Image
	Mat      *safe.Mat
	Width    int
	Height   int
	Channels int
	Format   string
	Path     string
}

// Close releases the OpenCV side. The Go image is garbage collected.
func (d *ImageData) Close() {
	if d != nil && d.Mat != nil {
		d.Mat.Close()
	}
}
