package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"photolab/internal/logger"
)

func testImageData() *ImageData {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return &ImageData{Image: img, Width: 4, Height: 4, Format: "png"}
}

func TestSaveToWriterFormats(t *testing.T) {
	saver := NewSaver(logger.NewNop())

	tests := []struct {
		format string
		decode func(*bytes.Buffer) (image.Image, error)
	}{
		{format: "tiff", decode: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) }},
		{format: "bmp", decode: func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) }},
		{format: "png", decode: func(b *bytes.Buffer) (image.Image, error) {
			img, _, err := image.Decode(b)
			return img, err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, saver.SaveToWriter(&buf, testImageData(), tt.format))

			decoded, err := tt.decode(&buf)
			require.NoError(t, err, "saved bytes must decode as %s", tt.format)
			assert.Equal(t, 4, decoded.Bounds().Dx())
		})
	}
}

func TestSaveToWriterUnknownFormatFallsBackToPNG(t *testing.T) {
	saver := NewSaver(logger.NewNop())

	var buf bytes.Buffer
	require.NoError(t, saver.SaveToWriter(&buf, testImageData(), "webp"))

	_, format, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestSaveToPathMatchesExtension(t *testing.T) {
	saver := NewSaver(logger.NewNop())
	path := filepath.Join(t.TempDir(), "out.tif")

	require.NoError(t, saver.SaveToPath(path, testImageData()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = tiff.Decode(f)
	require.NoError(t, err, "a .tif file must hold tiff bytes")
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, "jpeg", formatFromExt(".JPG"))
	assert.Equal(t, "tiff", formatFromExt(".tiff"))
	assert.Equal(t, "bmp", formatFromExt(".bmp"))
	assert.Equal(t, "png", formatFromExt(".png"))
	assert.Equal(t, "png", formatFromExt(".webp"))
	assert.Equal(t, "png", formatFromExt(""))
}

func TestSaveToWriterNilImage(t *testing.T) {
	saver := NewSaver(logger.NewNop())
	assert.Error(t, saver.SaveToWriter(&bytes.Buffer{}, &ImageData{}, "png"))
	assert.Error(t, saver.SaveToWriter(&bytes.Buffer{}, nil, "png"))
}
