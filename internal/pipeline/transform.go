package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgbatch/internal/encoder"
	"github.com/AnyUserName/imgbatch/internal/exifmeta"
	"github.com/AnyUserName/imgbatch/internal/hasher"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// supportedMIME lists content types the decoders can handle.
var supportedMIME = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/bmp",
	"image/gif",
}

// Transformer converts one source image into its output file.
type Transformer struct {
	opts TransformOptions
	enc  encoder.Encoder
	log  *slog.Logger
}

// NewTransformer returns a Transformer for opts, taking its encoder from reg.
func NewTransformer(opts TransformOptions, reg *encoder.Registry, log *slog.Logger) (*Transformer, error) {
	enc, err := reg.Get(opts.Format)
	if err != nil {
		return nil, err
	}
	return &Transformer{opts: opts, enc: enc, log: log}, nil
}

// Process reads, optionally downsizes, re-encodes and writes src to outPath.
// Every error ends up in the returned Outcome. The output only becomes
// visible once complete, and not at all if ctx expires before that.
func (t *Transformer) Process(ctx context.Context, src Source, outPath string) Outcome {
	if err := ctx.Err(); err != nil {
		return failed(src, err.Error())
	}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		return failed(src, fmt.Sprintf("read: %v", err))
	}

	mt := mimetype.Detect(data)
	if !isSupported(mt) {
		return failed(src, fmt.Sprintf("unsupported content type %s", mt.String()))
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return failed(src, fmt.Sprintf("decode: %v", err))
	}

	var orientation exifmeta.Orientation
	if t.enc.SupportsEXIF() {
		orientation, err = exifmeta.ReadOrientation(data)
		if err != nil {
			t.log.Debug("ignoring unreadable exif", "file", src.RelPath, "error", err)
			orientation = 0
		}
	}

	if err := ctx.Err(); err != nil {
		return failed(src, err.Error())
	}

	b := img.Bounds()
	if w, h, ok := scaledSize(b.Dx(), b.Dy(), t.opts); ok {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	out, err := t.enc.Encode(img, t.opts.Quality)
	if err != nil {
		return failed(src, fmt.Sprintf("encode %s: %v", t.enc.Format(), err))
	}

	if orientation.Valid() {
		out, err = exifmeta.SetJPEGOrientation(out, orientation)
		if err != nil {
			return failed(src, fmt.Sprintf("write exif orientation: %v", err))
		}
	}

	if err := ctx.Err(); err != nil {
		return failed(src, err.Error())
	}
	if err := writeAtomic(outPath, out); err != nil {
		return failed(src, fmt.Sprintf("write: %v", err))
	}

	final := img.Bounds()
	t.log.Debug("converted",
		"file", src.RelPath,
		"out", outPath,
		"width", final.Dx(),
		"height", final.Dy(),
		"bytes", len(out),
	)
	return Outcome{
		Source:      src,
		OutputPath:  outPath,
		Status:      Success,
		Width:       final.Dx(),
		Height:      final.Dy(),
		OutputBytes: int64(len(out)),
		Hash:        hasher.ContentHash(out, 16),
	}
}

func isSupported(mt *mimetype.MIME) bool {
	for _, m := range supportedMIME {
		if mt.Is(m) {
			return true
		}
	}
	return false
}

// scaledSize returns the target size when opts ask for a downscale and the
// image is wider than MaxWidth. Height keeps the aspect ratio, rounded,
// and is at least 1.
func scaledSize(w, h int, opts TransformOptions) (int, int, bool) {
	if !opts.Resize || opts.MaxWidth <= 0 || w <= opts.MaxWidth {
		return w, h, false
	}
	nh := int(math.Round(float64(h) * float64(opts.MaxWidth) / float64(w)))
	if nh < 1 {
		nh = 1
	}
	return opts.MaxWidth, nh, true
}

// writeAtomic writes data to a temp file next to dest and renames it over
// dest.
func writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".imgbatch-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return replaceFile(tmp.Name(), dest)
}

// replaceFile renames tmpPath to destPath, removing destPath first if a
// plain rename is refused.
func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
