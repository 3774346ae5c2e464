package encoder

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// JPEGEncoder encodes images to baseline JPEG.
// Transparent pixels are flattened onto a white background first.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() Format     { return JPEG }
func (e *JPEGEncoder) Extension() string  { return "jpg" }
func (e *JPEGEncoder) SupportsEXIF() bool { return true }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	quality = clampQuality(quality)

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	err := imaging.Encode(&buf, flatten(img), imaging.JPEG, imaging.JPEGQuality(quality))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composites img over opaque white. Opaque images are returned as-is.
func flatten(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// clampQuality keeps quality in the 0-100 range codecs expect.
// JPEG quality 0 is treated as 1, the lowest the codec accepts.
func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}
