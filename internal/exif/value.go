package exif

import "fmt"

// TagID is the numeric identifier an EXIF/TIFF directory uses for a field
// before translation to a human-readable name.
type TagID uint16

const (
	// tagExifIFD points at the Exif sub-directory inside IFD0. The decoder
	// flattens that directory into the main metadata map.
	tagExifIFD TagID = 0x8769

	// TagGPSInfo points at the GPS sub-directory. Its entries use a separate
	// field-name table and stay nested in the normalized output.
	TagGPSInfo TagID = 0x8825
)

// Kind discriminates the decoded shape of a raw metadata value. The decoder
// assigns it from the TIFF data type of each directory entry, so the
// normalizer never has to inspect runtime types.
type Kind int

const (
	// KindScalar holds strings, integers and floats.
	KindScalar Kind = iota
	// KindRational holds one or more (numerator, denominator) pairs.
	KindRational
	// KindBytes holds uninterpreted byte payloads (TIFF BYTE/UNDEFINED).
	KindBytes
	// KindGPS holds the nested GPS sub-directory.
	KindGPS
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRational:
		return "rational"
	case KindBytes:
		return "bytes"
	case KindGPS:
		return "gps"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rational is a TIFF rational: a numerator/denominator pair used for
// non-integer numeric fields.
type Rational struct {
	Num int64
	Den int64
}

// Float converts the rational to a float64. A zero denominator reports
// ok=false instead of producing an infinity.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

// Value is one raw metadata entry as produced by the decoder.
type Value struct {
	Kind      Kind
	Scalar    any
	Rationals []Rational
	Bytes     []byte
	GPS       RawMetadata
}

// ScalarValue wraps a plain string, integer or float.
func ScalarValue(v any) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// RationalValue wraps one or more rationals.
func RationalValue(rs ...Rational) Value {
	return Value{Kind: KindRational, Rationals: rs}
}

// BytesValue wraps an uninterpreted byte payload.
func BytesValue(b []byte) Value {
	return Value{Kind: KindBytes, Bytes: b}
}

// GPSValue wraps the nested GPS sub-directory.
func GPSValue(raw RawMetadata) Value {
	return Value{Kind: KindGPS, GPS: raw}
}

// RawMetadata maps numeric tag ids to decoded values. It is read-only input
// to the normalizer.
type RawMetadata map[TagID]Value

// FieldNameTable maps numeric tag ids to human-readable field names.
type FieldNameTable map[TagID]string

// Fields is normalized metadata keyed by human-readable field name. Values
// are float64 for rationals, lowercase hex strings for byte payloads, a
// nested Fields for the GPS block, the Undefined marker for unconvertible
// entries, and pass-through scalars otherwise.
//
// Fields is not valid input to Normalize again: its keys are already
// strings.
type Fields map[string]any

// Undefined marks a field that was present in the source but could not be
// converted (zero-denominator rational, short GPS coordinate). It is
// deliberately a value, not an error: one malformed field must not abort a
// batch over many images.
type Undefined struct{}

func (Undefined) String() string { return "undefined" }

// MarshalJSON encodes the marker as the string "undefined" so datasets stay
// readable.
func (Undefined) MarshalJSON() ([]byte, error) { return []byte(`"undefined"`), nil }
