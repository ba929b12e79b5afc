package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photolab/internal/exif"
	"photolab/internal/logger"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCollectPathsFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg", []byte("x"))
	writeFile(t, dir, "b.txt", []byte("x"))
	writeFile(t, dir, "c.TIFF", []byte("x"))
	writeFile(t, dir, "no-exif.bmp", []byte("x"))
	writeFile(t, dir, "no-exif.gif", []byte("x"))
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "d.png", []byte("x"))

	s := New(exif.DefaultNormalizer(), logger.NewNop(), 2)
	paths, err := s.collectPaths(dir)
	require.NoError(t, err)

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	assert.ElementsMatch(t, []string{"a.jpg", "c.TIFF", "d.png"}, names)
}

func TestScanRecordsFailuresWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken1.jpg", []byte("not an image"))
	writeFile(t, dir, "broken2.jpg", []byte("also not an image"))

	s := New(exif.DefaultNormalizer(), logger.NewNop(), 4)
	records, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "broken1.jpg", filepath.Base(records[0].Path), "records sorted by path")
	for _, rec := range records {
		assert.NotEmpty(t, rec.Err)
		assert.Nil(t, rec.Fields)
	}
}

func TestScanCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(exif.DefaultNormalizer(), logger.NewNop(), 1)
	_, err := s.Scan(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCoordinatesSignsFromReferences(t *testing.T) {
	tests := []struct {
		name    string
		gps     exif.Fields
		wantLat *float64
		wantLon *float64
	}{
		{
			name: "north east",
			gps: exif.Fields{
				"GPSLatitude": 40.5, "GPSLatitudeRef": "N",
				"GPSLongitude": 12.25, "GPSLongitudeRef": "E",
			},
			wantLat: floatPtr(40.5),
			wantLon: floatPtr(12.25),
		},
		{
			name: "south west",
			gps: exif.Fields{
				"GPSLatitude": 33.8, "GPSLatitudeRef": "S",
				"GPSLongitude": 151.2, "GPSLongitudeRef": "W",
			},
			wantLat: floatPtr(-33.8),
			wantLon: floatPtr(-151.2),
		},
		{
			name: "undefined coordinate dropped",
			gps: exif.Fields{
				"GPSLatitude": exif.Undefined{}, "GPSLatitudeRef": "N",
				"GPSLongitude": 10.0, "GPSLongitudeRef": "E",
			},
			wantLat: nil,
			wantLon: floatPtr(10.0),
		},
		{
			name:    "missing ref keeps positive",
			gps:     exif.Fields{"GPSLatitude": 40.5},
			wantLat: floatPtr(40.5),
			wantLon: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := exif.Fields{"GPSInfo": tt.gps}
			lat, lon := coordinates(fields)
			assert.Equal(t, tt.wantLat, lat)
			assert.Equal(t, tt.wantLon, lon)
		})
	}
}

func TestCoordinatesWithoutGPSBlock(t *testing.T) {
	lat, lon := coordinates(exif.Fields{"Make": "Canon"})
	assert.Nil(t, lat)
	assert.Nil(t, lon)
}

func TestBuildDatasetCounts(t *testing.T) {
	records := []Record{
		{Path: "a.jpg", Fields: exif.Fields{"Make": "Canon"}},
		{Path: "b.jpg", Latitude: floatPtr(1), Longitude: floatPtr(2)},
		{Path: "c.jpg", Err: "no exif"},
	}

	ds := BuildDataset("/photos", records)
	assert.Equal(t, 3, ds.Total)
	assert.Equal(t, 1, ds.WithGPS)
	assert.Equal(t, 1, ds.Failed)
}

func TestDatasetJSONRoundTrip(t *testing.T) {
	ds := BuildDataset("/photos", []Record{
		{Path: "a.jpg", Fields: exif.Fields{"FNumber": exif.Undefined{}}},
	})

	var buf bytes.Buffer
	require.NoError(t, ds.WriteJSON(&buf))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/photos", decoded["root"])

	records := decoded["records"].([]interface{})
	fields := records[0].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Equal(t, "undefined", fields["FNumber"])
}

func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	ds := BuildDataset(dir, nil)

	path, err := ds.SaveJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "metadata.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total": 0`)
}

func floatPtr(f float64) *float64 { return &f }
