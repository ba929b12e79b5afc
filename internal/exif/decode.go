package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Decode extracts the EXIF block from a JPEG or TIFF stream and assembles
// raw tag-id keyed metadata. IFD0 and the Exif sub-directory are flattened
// into one map; the GPS sub-directory stays nested under TagGPSInfo. Streams
// without an EXIF block return an error, which callers scanning many files
// treat as a normal condition.
func Decode(r io.Reader) (RawMetadata, error) {
	x, err := goexif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("exif: decode: %w", err)
	}
	return fromTIFFBlock(x.Raw)
}

// DecodeFile is Decode over a file path.
func DecodeFile(path string) (RawMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exif: open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("exif: %s: %w", path, err)
	}
	return raw, nil
}

// fromTIFFBlock walks the raw TIFF structure of an EXIF block. Offsets in
// directory entries are relative to the start of the block, so sub-IFDs are
// reached by seeking the same reader.
func fromTIFFBlock(block []byte) (RawMetadata, error) {
	er := bytes.NewReader(block)
	tf, err := tiff.Decode(er)
	if err != nil {
		return nil, fmt.Errorf("exif: tiff structure: %w", err)
	}
	if len(tf.Dirs) == 0 {
		return nil, errors.New("exif: tiff structure has no directories")
	}

	raw := make(RawMetadata)
	collectDir(raw, tf.Dirs[0])

	// The Exif pointer tag keeps its offset value in the output, matching
	// how flattened EXIF dumps conventionally look.
	if err := mergeSubDir(raw, er, tf.Order, tagExifIFD); err != nil {
		return nil, err
	}
	if err := nestGPSDir(raw, er, tf.Order); err != nil {
		return nil, err
	}
	return raw, nil
}

func collectDir(dst RawMetadata, dir *tiff.Dir) {
	for _, tag := range dir.Tags {
		dst[TagID(tag.Id)] = valueFromTag(tag)
	}
}

// mergeSubDir flattens the directory referenced by ptr into dst. A missing
// pointer tag is not an error; many images carry no Exif sub-directory.
func mergeSubDir(dst RawMetadata, er *bytes.Reader, order binary.ByteOrder, ptr TagID) error {
	offset, ok := subDirOffset(dst, ptr)
	if !ok {
		return nil
	}
	dir, err := decodeDirAt(er, order, offset)
	if err != nil {
		return fmt.Errorf("exif: sub-directory 0x%04x: %w", uint16(ptr), err)
	}
	collectDir(dst, dir)
	return nil
}

// nestGPSDir replaces the GPS pointer value with the decoded sub-directory
// so the normalizer can recurse with the GPS field-name table.
func nestGPSDir(dst RawMetadata, er *bytes.Reader, order binary.ByteOrder) error {
	offset, ok := subDirOffset(dst, TagGPSInfo)
	if !ok {
		return nil
	}
	dir, err := decodeDirAt(er, order, offset)
	if err != nil {
		return fmt.Errorf("exif: gps sub-directory: %w", err)
	}
	sub := make(RawMetadata, len(dir.Tags))
	collectDir(sub, dir)
	dst[TagGPSInfo] = GPSValue(sub)
	return nil
}

func subDirOffset(raw RawMetadata, ptr TagID) (int64, bool) {
	val, ok := raw[ptr]
	if !ok || val.Kind != KindScalar {
		return 0, false
	}
	offset, ok := val.Scalar.(int64)
	return offset, ok
}

func decodeDirAt(er *bytes.Reader, order binary.ByteOrder, offset int64) (*tiff.Dir, error) {
	if _, err := er.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	dir, _, err := tiff.DecodeDir(er, order)
	return dir, err
}

// valueFromTag assigns the variant kind from the TIFF data type of a
// directory entry. Byte-shaped and undefined entries keep their raw
// payload; everything else uses the typed accessors.
func valueFromTag(tag *tiff.Tag) Value {
	switch tag.Type {
	case tiff.DTByte, tiff.DTSByte, tiff.DTUndefined:
		return BytesValue(tag.Val)
	}

	switch tag.Format() {
	case tiff.RatVal:
		rs := make([]Rational, int(tag.Count))
		for i := range rs {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return BytesValue(tag.Val)
			}
			rs[i] = Rational{Num: num, Den: den}
		}
		return RationalValue(rs...)
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return BytesValue(tag.Val)
		}
		return ScalarValue(s)
	case tiff.IntVal:
		if tag.Count == 1 {
			v, err := tag.Int64(0)
			if err != nil {
				return BytesValue(tag.Val)
			}
			return ScalarValue(v)
		}
		vals := make([]int64, int(tag.Count))
		for i := range vals {
			v, err := tag.Int64(i)
			if err != nil {
				return BytesValue(tag.Val)
			}
			vals[i] = v
		}
		return ScalarValue(vals)
	case tiff.FloatVal:
		if tag.Count == 1 {
			f, err := tag.Float(0)
			if err != nil {
				return BytesValue(tag.Val)
			}
			return ScalarValue(f)
		}
		vals := make([]float64, int(tag.Count))
		for i := range vals {
			f, err := tag.Float(i)
			if err != nil {
				return BytesValue(tag.Val)
			}
			vals[i] = f
		}
		return ScalarValue(vals)
	default:
		return BytesValue(tag.Val)
	}
}
