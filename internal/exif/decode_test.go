package exif

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestTIFF assembles a minimal little-endian TIFF block: IFD0 with a
// Make string and a GPS pointer, and a GPS sub-directory with a latitude
// reference and a (40, 30, 0) DMS latitude.
func buildTestTIFF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	le := binary.LittleEndian

	write := func(v any) {
		require.NoError(t, binary.Write(&buf, le, v))
	}

	// Header: byte order, magic, offset of IFD0.
	buf.WriteString("II")
	write(uint16(42))
	write(uint32(8))

	// IFD0 at offset 8, two entries, ends at 38.
	write(uint16(2))
	// Make: ASCII, 6 bytes, stored out-of-line at 38.
	write(uint16(0x010f))
	write(uint16(2))
	write(uint32(6))
	write(uint32(38))
	// GPSInfo pointer: LONG, sub-directory at 44.
	write(uint16(0x8825))
	write(uint16(4))
	write(uint32(1))
	write(uint32(44))
	write(uint32(0))

	// Make payload at 38.
	buf.WriteString("Canon\x00")

	// GPS IFD at offset 44, two entries, ends at 74.
	write(uint16(2))
	// GPSLatitudeRef: ASCII, inline value.
	write(uint16(0x0001))
	write(uint16(2))
	write(uint32(2))
	buf.WriteString("N\x00\x00\x00")
	// GPSLatitude: RATIONAL triple at 74.
	write(uint16(0x0002))
	write(uint16(5))
	write(uint32(3))
	write(uint32(74))
	write(uint32(0))

	// Rational payload: (40/1, 30/1, 0/1).
	for _, pair := range [][2]uint32{{40, 1}, {30, 1}, {0, 1}} {
		write(pair[0])
		write(pair[1])
	}

	return buf.Bytes()
}

func TestDecodeMinimalTIFF(t *testing.T) {
	raw, err := Decode(bytes.NewReader(buildTestTIFF(t)))
	require.NoError(t, err)

	makeTag, ok := raw[0x010f]
	require.True(t, ok)
	assert.Equal(t, KindScalar, makeTag.Kind)
	assert.Equal(t, "Canon", makeTag.Scalar)

	gps, ok := raw[TagGPSInfo]
	require.True(t, ok)
	require.Equal(t, KindGPS, gps.Kind)

	lat, ok := gps.GPS[0x0002]
	require.True(t, ok)
	require.Equal(t, KindRational, lat.Kind)
	require.Len(t, lat.Rationals, 3)
	assert.Equal(t, Rational{Num: 40, Den: 1}, lat.Rationals[0])

	ref, ok := gps.GPS[0x0001]
	require.True(t, ok)
	assert.Equal(t, "N", ref.Scalar)
}

func TestDecodeThenNormalize(t *testing.T) {
	raw, err := Decode(bytes.NewReader(buildTestTIFF(t)))
	require.NoError(t, err)

	fields, err := DefaultNormalizer().Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Canon", fields["Make"])

	gps, ok := fields["GPSInfo"].(Fields)
	require.True(t, ok)
	assert.Equal(t, "N", gps["GPSLatitudeRef"])
	assert.InDelta(t, 40.5, gps["GPSLatitude"], 1e-9)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	require.Error(t, err)
}
