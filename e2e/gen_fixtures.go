//go:build ignore

// gen_fixtures writes a small input tree for a manual imgbatch smoke run:
// nested folders, every accepted input format, an EXIF-rotated JPEG, a
// transparent PNG, one corrupt file and one non-image.
//
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgbatch/internal/exifmeta"
	"github.com/chai2010/webp"
	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]

	var buf bytes.Buffer
	must(jpeg.Encode(&buf, gradient(1600, 900), &jpeg.Options{Quality: 92}))
	rotated, err := exifmeta.SetJPEGOrientation(buf.Bytes(), 6)
	must(err)
	write(filepath.Join(dir, "portrait.jpg"), rotated)

	buf.Reset()
	must(jpeg.Encode(&buf, gradient(640, 480), &jpeg.Options{Quality: 85}))
	write(filepath.Join(dir, "trip", "day1", "beach.jpeg"), buf.Bytes())

	buf.Reset()
	must(png.Encode(&buf, alphaGradient(300, 300)))
	write(filepath.Join(dir, "logo.png"), buf.Bytes())

	buf.Reset()
	must(webp.Encode(&buf, gradient(800, 200), &webp.Options{Quality: 80}))
	write(filepath.Join(dir, "trip", "banner.webp"), buf.Bytes())

	buf.Reset()
	must(bmp.Encode(&buf, gradient(120, 90)))
	write(filepath.Join(dir, "scans", "page.bmp"), buf.Bytes())

	buf.Reset()
	must(gif.Encode(&buf, gradient(64, 64), nil))
	write(filepath.Join(dir, "scans", "icon.gif"), buf.Bytes())

	// Same base name as trip/day1/beach.jpeg, for --collapse.
	buf.Reset()
	must(png.Encode(&buf, gradient(200, 100)))
	write(filepath.Join(dir, "trip", "day2", "beach.png"), buf.Bytes())

	write(filepath.Join(dir, "corrupt.jpg"), []byte("\xff\xd8\xff\xe0 truncated"))
	write(filepath.Join(dir, "notes.txt"), []byte("not an image\n"))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 9 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 40, G: 90, B: 200, A: uint8(x * 255 / w)})
		}
	}
	return img
}

func write(path string, data []byte) {
	must(os.MkdirAll(filepath.Dir(path), 0o755))
	must(os.WriteFile(path, data, 0o644))
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "[gen_fixtures] %v\n", err)
		os.Exit(1)
	}
}
