package encoder

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
)

// WebPEncoder encodes images to lossy WebP through libwebp (cgo).
// EXIF is not written into WebP output.
type WebPEncoder struct{}

func (e *WebPEncoder) Format() Format     { return WebP }
func (e *WebPEncoder) Extension() string  { return "webp" }
func (e *WebPEncoder) SupportsEXIF() bool { return false }

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}

	var buf bytes.Buffer
	buf.Grow(128 * 1024)

	err := webp.Encode(&buf, img, &webp.Options{
		Lossless: false,
		Quality:  float32(quality),
		Exact:    true,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
