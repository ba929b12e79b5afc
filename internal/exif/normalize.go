package exif

import (
	"encoding/hex"
	"fmt"
)

// UnknownTagError reports a tag id with no entry in the field-name table.
// The tables are complete for well-formed input, so an unknown id means a
// non-standard or corrupt metadata source and is surfaced to the caller
// rather than skipped.
type UnknownTagError struct {
	ID    TagID
	Table string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("exif: tag 0x%04x not present in %s field-name table", uint16(e.ID), e.Table)
}

// Field names that never appear in normalized output. Both carry opaque
// vendor payloads that are useless in a tabular dataset and can run to
// kilobytes.
var excludedFields = map[string]struct{}{
	"UserComment": {},
	"MakerNote":   {},
}

// Latitude/longitude fields hold (degrees, minutes, seconds) triples and
// are collapsed to decimal degrees.
var coordinateFields = map[string]struct{}{
	"GPSLatitude":  {},
	"GPSLongitude": {},
}

// Normalizer translates raw tag-id keyed metadata into human-readable
// fields. The two lookup tables are injected at construction and never
// mutated, so a single Normalizer is safe for concurrent use.
type Normalizer struct {
	fields    FieldNameTable
	gpsFields FieldNameTable
}

// NewNormalizer builds a Normalizer over explicit field-name tables.
func NewNormalizer(fields, gpsFields FieldNameTable) *Normalizer {
	return &Normalizer{fields: fields, gpsFields: gpsFields}
}

// DefaultNormalizer builds a Normalizer over the standard EXIF and GPS
// tables.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(FieldNames, GPSFieldNames)
}

// Normalize converts raw metadata to human-readable fields. Single
// rationals become float64, byte payloads become lowercase hex strings, the
// GPS block is normalized recursively against the GPS table, and excluded
// fields are dropped. A tag id missing from the table is a hard error;
// unconvertible values degrade to the Undefined marker instead.
func (n *Normalizer) Normalize(raw RawMetadata) (Fields, error) {
	out := make(Fields, len(raw))
	for id, val := range raw {
		name, ok := n.fields[id]
		if !ok {
			return nil, &UnknownTagError{ID: id, Table: "exif"}
		}
		if _, skip := excludedFields[name]; skip {
			continue
		}
		if id == TagGPSInfo && val.Kind == KindGPS {
			gps, err := n.NormalizeGPS(val.GPS)
			if err != nil {
				return nil, err
			}
			out[name] = gps
			continue
		}
		out[name] = convertValue(val)
	}
	return out, nil
}

// NormalizeGPS converts a raw GPS sub-directory against the GPS field-name
// table. Latitude and longitude collapse to decimal degrees; everything
// else follows the same conversion rules as Normalize, with no exclusion
// list at this level.
func (n *Normalizer) NormalizeGPS(raw RawMetadata) (Fields, error) {
	out := make(Fields, len(raw))
	for id, val := range raw {
		name, ok := n.gpsFields[id]
		if !ok {
			return nil, &UnknownTagError{ID: id, Table: "gps"}
		}
		if _, isCoord := coordinateFields[name]; isCoord {
			out[name] = decimalDegrees(val)
			continue
		}
		out[name] = convertValue(val)
	}
	return out, nil
}

// convertValue applies the kind-specific conversions shared by both tables.
func convertValue(val Value) any {
	switch val.Kind {
	case KindRational:
		if len(val.Rationals) == 1 {
			if f, ok := val.Rationals[0].Float(); ok {
				return f
			}
			return Undefined{}
		}
		converted := make([]any, len(val.Rationals))
		for i, r := range val.Rationals {
			if f, ok := r.Float(); ok {
				converted[i] = f
			} else {
				converted[i] = Undefined{}
			}
		}
		return converted
	case KindBytes:
		return hex.EncodeToString(val.Bytes)
	case KindGPS:
		// A nested block outside the GPS tag has no table to resolve
		// against; keep the raw mapping.
		return val.GPS
	default:
		return val.Scalar
	}
}

// decimalDegrees collapses a (degrees, minutes, seconds) rational triple to
// a single decimal-degree float. Anything short or with a zero denominator
// degrades to Undefined rather than an error.
func decimalDegrees(val Value) any {
	if val.Kind != KindRational || len(val.Rationals) < 3 {
		return Undefined{}
	}
	deg, okD := val.Rationals[0].Float()
	min, okM := val.Rationals[1].Float()
	sec, okS := val.Rationals[2].Float()
	if !okD || !okM || !okS {
		return Undefined{}
	}
	return deg + min/60 + sec/3600
}
