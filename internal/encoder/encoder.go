package encoder

import (
	"fmt"
	"image"
	"strings"
)

// Format is one of the supported output formats.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	WebP Format = "webp"
)

// Formats lists every supported output format in display order.
var Formats = []Format{JPEG, PNG, WebP}

// ParseFormat maps a user-supplied format name onto a Format.
// "jpg" is accepted as an alias for jpeg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	default:
		return "", fmt.Errorf("invalid output format %q (use jpeg, png or webp)", s)
	}
}

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format.
	Format() Format

	// Encode converts the image to bytes at the given quality (0-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string

	// SupportsEXIF reports whether EXIF metadata can be carried in the output.
	SupportsEXIF() bool
}
