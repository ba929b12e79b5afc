package scanner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dataset is the scan output written to disk: the records plus summary
// counts for quick inspection.
type Dataset struct {
	Root    string   `json:"root"`
	Total   int      `json:"total"`
	WithGPS int      `json:"with_gps"`
	Failed  int      `json:"failed"`
	Records []Record `json:"records"`
}

// BuildDataset assembles the summary over a record set.
func BuildDataset(root string, records []Record) *Dataset {
	ds := &Dataset{Root: root, Total: len(records), Records: records}
	for _, rec := range records {
		if rec.Err != "" {
			ds.Failed++
		}
		if rec.Latitude != nil && rec.Longitude != nil {
			ds.WithGPS++
		}
	}
	return ds
}

// WriteJSON encodes the dataset with indentation for human reading.
func (d *Dataset) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return nil
}

// SaveJSON writes the dataset to outputDir/metadata.json.
func (d *Dataset) SaveJSON(outputDir string) (string, error) {
	path := filepath.Join(outputDir, "metadata.json")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	if err := d.WriteJSON(f); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return path, nil
}
