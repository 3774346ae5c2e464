package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255,
			})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"jpeg":  JPEG,
		"JPG":   JPEG,
		" png ": PNG,
		"WebP":  WebP,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "gif", "tiff", "avif"} {
		if _, err := ParseFormat(bad); err == nil {
			t.Errorf("ParseFormat(%q): expected error", bad)
		}
	}
}

func TestRegistryCoversAllFormats(t *testing.T) {
	r := NewRegistry()
	for _, f := range Formats {
		enc, err := r.Get(f)
		if err != nil {
			t.Fatalf("Get(%s): %v", f, err)
		}
		if enc.Format() != f {
			t.Errorf("Get(%s) returned %s encoder", f, enc.Format())
		}
	}
	if _, err := r.Get(Format("avif")); err == nil {
		t.Error("expected error for unregistered format")
	}
}

func TestRegistryExtension(t *testing.T) {
	r := NewRegistry()
	want := map[Format]string{JPEG: ".jpg", PNG: ".png", WebP: ".webp"}
	for f, ext := range want {
		if got := r.Extension(f); got != ext {
			t.Errorf("Extension(%s) = %q, want %q", f, got, ext)
		}
	}
}

func TestJPEGEncode_Decodes(t *testing.T) {
	data, err := (&JPEGEncoder{}).Encode(gradient(64, 48), 80)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("bounds: got %dx%d", b.Dx(), b.Dy())
	}
}

func TestJPEGEncode_QualityAffectsSize(t *testing.T) {
	img := gradient(128, 128)
	lo, err := (&JPEGEncoder{}).Encode(img, 10)
	if err != nil {
		t.Fatal(err)
	}
	hi, err := (&JPEGEncoder{}).Encode(img, 95)
	if err != nil {
		t.Fatal(err)
	}
	if len(lo) >= len(hi) {
		t.Errorf("q10 (%d bytes) should be smaller than q95 (%d bytes)", len(lo), len(hi))
	}
}

func TestJPEGEncode_FlattensAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	// Fully transparent: should come out white, not black.
	data, err := (&JPEGEncoder{}).Encode(img, 90)
	if err != nil {
		t.Fatal(err)
	}
	out, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := out.At(4, 4).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected near-white pixel, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestPNGEncode_IgnoresQuality(t *testing.T) {
	img := gradient(32, 32)
	a, err := (&PNGEncoder{}).Encode(img, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := (&PNGEncoder{}).Encode(img, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("PNG output should not depend on quality")
	}
	if _, err := png.Decode(bytes.NewReader(a)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestWebPEncode_Decodes(t *testing.T) {
	data, err := (&WebPEncoder{}).Encode(gradient(40, 20), 75)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("dims: got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSupportsEXIF(t *testing.T) {
	if !(&JPEGEncoder{}).SupportsEXIF() {
		t.Error("jpeg should carry EXIF")
	}
	if (&PNGEncoder{}).SupportsEXIF() || (&WebPEncoder{}).SupportsEXIF() {
		t.Error("png/webp should not carry EXIF")
	}
}
