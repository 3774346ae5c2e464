package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PNGEncoder encodes images to PNG. PNG is lossless, so the quality
// argument is ignored rather than rejected.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() Format     { return PNG }
func (e *PNGEncoder) Extension() string  { return "png" }
func (e *PNGEncoder) SupportsEXIF() bool { return false }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024)

	err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
