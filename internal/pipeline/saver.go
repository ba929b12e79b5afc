package pipeline

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"photolab/internal/logger"
)

type imageSaver struct {
	logger logger.Logger
}

func NewSaver(log logger.Logger) ImageSaver {
	return &imageSaver{logger: log}
}

func (s *imageSaver) SaveToWriter(writer io.Writer, imageData *ImageData, format string) error {
	if imageData == nil || imageData.Image == nil {
		return fmt.Errorf("no image data to save")
	}

	if format == "" {
		format = imageData.Format
	}

	var err error
	switch format {
	case "jpeg", "jpg":
		err = jpeg.Encode(writer, imageData.Image, &jpeg.Options{Quality: 95})
	case "png":
		err = png.Encode(writer, imageData.Image)
	case "tiff", "tif":
		err = tiff.Encode(writer, imageData.Image, nil)
	case "bmp":
		err = bmp.Encode(writer, imageData.Image)
	default:
		s.logger.Warning("ImageSaver", "format not supported for encoding, using PNG", map[string]interface{}{
			"requested_format": format,
		})
		err = png.Encode(writer, imageData.Image)
	}

	if err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}

	s.logger.Debug("ImageSaver", "image saved", map[string]interface{}{
		"format": format,
		"width":  imageData.Width,
		"height": imageData.Height,
	})
	return nil
}

func (s *imageSaver) SaveToPath(path string, imageData *ImageData) error {
	format := formatFromExt(filepath.Ext(path))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := s.SaveToWriter(f, imageData, format); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func formatFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	default:
		return "png"
	}
}
