package scanner

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/sync/errgroup"

	"photolab/internal/exif"
	"photolab/internal/logger"
)

// Record is one row of the metadata dataset. Err is set when the file could
// not be decoded; such rows keep their path so the dataset accounts for
// every image seen.
type Record struct {
	Path      string      `json:"path"`
	Format    string      `json:"format,omitempty"`
	Width     int         `json:"width,omitempty"`
	Height    int         `json:"height,omitempty"`
	Fields    exif.Fields `json:"fields,omitempty"`
	Latitude  *float64    `json:"latitude,omitempty"`
	Longitude *float64    `json:"longitude,omitempty"`
	Err       string      `json:"error,omitempty"`
}

// Extensions worth scanning for metadata. BMP and GIF decode fine in the
// filter pipeline but their formats carry no EXIF block, so the scanner
// leaves them out.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".tif":  {},
	".tiff": {},
	".png":  {},
	".webp": {},
}

// Scanner walks a directory tree and builds one Record per image file.
type Scanner struct {
	normalizer *exif.Normalizer
	logger     logger.Logger
	workers    int
}

func New(normalizer *exif.Normalizer, log logger.Logger, workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{normalizer: normalizer, logger: log, workers: workers}
}

// Scan walks root and processes every image file concurrently. Per-file
// failures are recorded, not fatal; only walk errors and context
// cancellation abort the batch. Records come back sorted by path.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Record, error) {
	paths, err := s.collectPaths(root)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Scanner", "scan started", map[string]interface{}{
		"root":    root,
		"files":   len(paths),
		"workers": s.workers,
	})

	var mu sync.Mutex
	records := make([]Record, 0, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec := s.processFile(path)
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

func (s *Scanner) collectPaths(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

// processFile builds the Record for one image. Decoding problems land in
// Record.Err; dimensions come from the cheap image config decode and are
// best-effort.
func (s *Scanner) processFile(path string) Record {
	rec := Record{Path: path}

	if format, width, height, err := probeDimensions(path); err == nil {
		rec.Format = format
		rec.Width = width
		rec.Height = height
	}

	raw, err := exif.DecodeFile(path)
	if err != nil {
		rec.Err = err.Error()
		s.logger.Debug("Scanner", "no usable metadata", map[string]interface{}{
			"path":  path,
			"cause": err.Error(),
		})
		return rec
	}

	fields, err := s.normalizer.Normalize(raw)
	if err != nil {
		rec.Err = err.Error()
		s.logger.Warning("Scanner", "metadata normalization failed", map[string]interface{}{
			"path":  path,
			"cause": err.Error(),
		})
		return rec
	}

	rec.Fields = fields
	rec.Latitude, rec.Longitude = coordinates(fields)
	return rec
}

func probeDimensions(path string) (format string, width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, 0, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", 0, 0, err
	}
	return format, cfg.Width, cfg.Height, nil
}

// coordinates extracts signed decimal latitude and longitude from the
// normalized GPS block. Southern latitudes and western longitudes flip sign
// per their reference fields.
func coordinates(fields exif.Fields) (lat, lon *float64) {
	gps, ok := fields["GPSInfo"].(exif.Fields)
	if !ok {
		return nil, nil
	}
	lat = signedCoordinate(gps, "GPSLatitude", "GPSLatitudeRef", "S")
	lon = signedCoordinate(gps, "GPSLongitude", "GPSLongitudeRef", "W")
	return lat, lon
}

func signedCoordinate(gps exif.Fields, field, refField, negativeRef string) *float64 {
	value, ok := gps[field].(float64)
	if !ok {
		return nil
	}
	if ref, ok := gps[refField].(string); ok && strings.HasPrefix(ref, negativeRef) {
		value = -value
	}
	return &value
}
