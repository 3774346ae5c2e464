// Package exifmeta reads and writes the EXIF orientation tag.
//
// Only orientation is carried across a re-encode; all other EXIF fields are
// dropped with the original container.
package exifmeta

import (
	"errors"
	"fmt"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

const (
	orientationTagID = 0x0112
	ifd0Path         = "IFD"
)

// Orientation is the EXIF orientation value (1-8). Zero means absent.
type Orientation uint16

// Valid reports whether o is one of the eight defined orientations.
func (o Orientation) Valid() bool {
	return o >= 1 && o <= 8
}

// ReadOrientation returns the IFD0 orientation tag from an encoded image.
// Images without EXIF return 0 and a nil error.
func ReadOrientation(data []byte) (o Orientation, err error) {
	defer func() {
		// go-exif panics on some malformed IFDs.
		if r := recover(); r != nil {
			o, err = 0, fmt.Errorf("exif: %v", r)
		}
	}()

	raw, err := rawExif(data)
	if err != nil {
		if isNoExif(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("exif: %w", err)
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return 0, fmt.Errorf("exif: %w", err)
	}

	for _, tag := range tags {
		if tag.TagId != orientationTagID || tag.IfdPath != ifd0Path {
			continue
		}
		if vals, ok := tag.Value.([]uint16); ok && len(vals) > 0 {
			if v := Orientation(vals[0]); v.Valid() {
				return v, nil
			}
		}
	}
	return 0, nil
}

// rawExif returns the TIFF-structured EXIF block of data. JPEG streams are
// read from their APP1 segment; other containers are searched for a TIFF
// header.
func rawExif(data []byte) ([]byte, error) {
	if isJPEG(data) {
		payload, err := jpegExifPayload(data[2:])
		if err != nil {
			return nil, err
		}
		if payload == nil {
			return nil, exif.ErrNoExif
		}
		return payload, nil
	}
	return exif.SearchAndExtractExif(data)
}

func isNoExif(err error) bool {
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

// buildExifPayload returns a TIFF-structured EXIF block holding only the
// orientation tag in IFD0.
func buildExifPayload(o Orientation) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("exif build: %v", r)
		}
	}()

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, err
	}
	ti := exif.NewTagIndex()

	ib := exif.NewIfdBuilder(im, ti, exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)
	if err := ib.AddStandardWithName("Orientation", []uint16{uint16(o)}); err != nil {
		return nil, err
	}

	ibe := exif.NewIfdByteEncoder()
	return ibe.EncodeToExif(ib)
}
