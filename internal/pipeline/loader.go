package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"photolab/internal/logger"
	"photolab/internal/opencv/conversion"
)

type imageLoader struct {
	logger logger.Logger
}

// NewLoader builds the standard loader. Decoding runs twice on purpose: the
// standard library produces the image.Image handed to encoders, OpenCV
// produces the Mat the filters operate on.
func NewLoader(log logger.Logger) ImageLoader {
	return &imageLoader{logger: log}
}

func (l *imageLoader) LoadFromFile(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	imageData, err := l.LoadFromBytes(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	imageData.Path = path
	return imageData, nil
}

func (l *imageLoader) LoadFromBytes(data []byte, ext string) (*ImageData, error) {
	img, stdFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	mat, err := conversion.MatFromBytes(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	imageData := &ImageData{
		Image:    img,
		Mat:      mat,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: mat.Channels(),
		Format:   determineFormat(ext, stdFormat),
	}

	l.logger.Debug("ImageLoader", "image loaded", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": imageData.Channels,
		"format":   imageData.Format,
		"bytes":    len(data),
	})

	return imageData, nil
}

func determineFormat(ext, stdFormat string) string {
	switch ext {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if stdFormat != "" {
			return stdFormat
		}
		return "unknown"
	}
}
