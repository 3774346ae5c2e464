package exifmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var jpegExifHeader = []byte("Exif\x00\x00")

// ErrNotJPEG is returned when the input does not start with a JPEG SOI marker.
var ErrNotJPEG = errors.New("not a JPEG stream")

// SetJPEGOrientation returns a copy of the JPEG stream with an APP1 EXIF
// segment carrying o inserted directly after SOI. Existing EXIF APP1
// segments are removed. An invalid orientation returns the input unchanged.
func SetJPEGOrientation(data []byte, o Orientation) ([]byte, error) {
	if !isJPEG(data) {
		return nil, ErrNotJPEG
	}
	if !o.Valid() {
		return data, nil
	}

	payload, err := buildExifPayload(o)
	if err != nil {
		return nil, err
	}
	segLen := 2 + len(jpegExifHeader) + len(payload)
	if segLen > 0xffff {
		return nil, fmt.Errorf("exif segment too large: %d bytes", segLen)
	}

	body, err := stripExifSegments(data[2:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(data)+segLen+2)
	out = append(out, 0xff, 0xd8, 0xff, 0xe1)
	out = binary.BigEndian.AppendUint16(out, uint16(segLen))
	out = append(out, jpegExifHeader...)
	out = append(out, payload...)
	out = append(out, body...)
	return out, nil
}

func isJPEG(data []byte) bool {
	return len(data) >= 4 && data[0] == 0xff && data[1] == 0xd8
}

// jpegExifPayload returns the body of the first EXIF APP1 segment that
// precedes SOS, without the "Exif\0\0" header. It returns nil when there is
// none.
func jpegExifPayload(b []byte) ([]byte, error) {
	var payload []byte
	err := walkSegments(b, func(marker byte, seg []byte) bool {
		if isExifSegment(marker, seg) {
			payload = seg[4+len(jpegExifHeader):]
			return false
		}
		return true
	})
	return payload, err
}

// stripExifSegments drops APP1 segments carrying EXIF from the marker
// segments that precede SOS. Everything from SOS onward is copied as-is.
func stripExifSegments(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))
	end, err := walkSegmentsTo(b, func(marker byte, seg []byte) bool {
		if !isExifSegment(marker, seg) {
			out = append(out, seg...)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return append(out, b[end:]...), nil
}

func isExifSegment(marker byte, seg []byte) bool {
	return marker == 0xe1 && len(seg) >= 4 && bytes.HasPrefix(seg[4:], jpegExifHeader)
}

func walkSegments(b []byte, fn func(marker byte, seg []byte) bool) error {
	_, err := walkSegmentsTo(b, fn)
	return err
}

// walkSegmentsTo calls fn with each marker segment (marker bytes included)
// found before SOS or EOI, until fn returns false. It returns the offset
// where the walk stopped.
func walkSegmentsTo(b []byte, fn func(marker byte, seg []byte) bool) (int, error) {
	i := 0
	for i < len(b) {
		if b[i] != 0xff {
			return 0, fmt.Errorf("invalid JPEG marker at offset %d", i+2)
		}
		if i+1 >= len(b) {
			return 0, errors.New("truncated JPEG marker")
		}
		marker := b[i+1]

		// Fill bytes.
		if marker == 0xff {
			i++
			continue
		}
		if marker == 0xda || marker == 0xd9 {
			return i, nil
		}
		// Standalone markers carry no length.
		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			if !fn(marker, b[i:i+2]) {
				return i + 2, nil
			}
			i += 2
			continue
		}

		if i+4 > len(b) {
			return 0, errors.New("truncated JPEG segment header")
		}
		segLen := int(binary.BigEndian.Uint16(b[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(b) {
			return 0, errors.New("invalid JPEG segment length")
		}
		if !fn(marker, b[i:i+2+segLen]) {
			return i + 2 + segLen, nil
		}
		i += 2 + segLen
	}
	return i, nil
}
