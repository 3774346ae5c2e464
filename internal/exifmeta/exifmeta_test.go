package exifmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

// cameraJPEG wraps a little-endian TIFF block with Make and Orientation in
// an APP1 segment right after SOI, the layout most cameras write.
func cameraJPEG(t *testing.T, w, h int, o uint16) []byte {
	t.Helper()
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x010f))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(38))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(3))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiff, binary.LittleEndian, o)
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write([]byte("TestCam\x00"))

	app1 := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	plain := encodeJPEG(t, w, h)

	var buf bytes.Buffer
	buf.Write(plain[:2])
	buf.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(app1)+2))
	buf.Write(app1)
	buf.Write(plain[2:])
	return buf.Bytes()
}

func TestReadOrientation_CameraSegment(t *testing.T) {
	for _, want := range []Orientation{3, 6, 8} {
		got, err := ReadOrientation(cameraJPEG(t, 24, 16, uint16(want)))
		if err != nil {
			t.Fatalf("read %d: %v", want, err)
		}
		if got != want {
			t.Errorf("orientation: got %d, want %d", got, want)
		}
	}
}

func TestSetJPEGOrientation_ReplacesCameraSegment(t *testing.T) {
	out, err := SetJPEGOrientation(cameraJPEG(t, 24, 16, 6), 8)
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(out, jpegExifHeader); n != 1 {
		t.Errorf("exif segments: got %d, want 1", n)
	}
	if bytes.Contains(out, []byte("TestCam")) {
		t.Error("camera fields should be dropped")
	}
	got, err := ReadOrientation(out)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8 {
		t.Errorf("orientation: got %d, want 8", got)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestReadOrientation_Absent(t *testing.T) {
	o, err := ReadOrientation(encodeJPEG(t, 16, 16))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if o != 0 {
		t.Errorf("orientation: got %d, want 0", o)
	}
}

func TestSetJPEGOrientation_RoundTrip(t *testing.T) {
	for _, want := range []Orientation{1, 3, 6, 8} {
		out, err := SetJPEGOrientation(encodeJPEG(t, 20, 10), want)
		if err != nil {
			t.Fatalf("set %d: %v", want, err)
		}
		got, err := ReadOrientation(out)
		if err != nil {
			t.Fatalf("read %d: %v", want, err)
		}
		if got != want {
			t.Errorf("orientation: got %d, want %d", got, want)
		}

		img, err := jpeg.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode after inject: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
			t.Errorf("bounds changed: %dx%d", b.Dx(), b.Dy())
		}
	}
}

func TestSetJPEGOrientation_ReplacesExisting(t *testing.T) {
	first, err := SetJPEGOrientation(encodeJPEG(t, 8, 8), 3)
	if err != nil {
		t.Fatal(err)
	}
	second, err := SetJPEGOrientation(first, 6)
	if err != nil {
		t.Fatal(err)
	}

	if n := bytes.Count(second, jpegExifHeader); n != 1 {
		t.Errorf("exif segments: got %d, want 1", n)
	}
	got, err := ReadOrientation(second)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("orientation: got %d, want 6", got)
	}
}

func TestSetJPEGOrientation_InvalidIsNoop(t *testing.T) {
	in := encodeJPEG(t, 8, 8)
	out, err := SetJPEGOrientation(in, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(in, out) {
		t.Error("orientation 0 should leave the stream unchanged")
	}
}

func TestReadOrientation_NonJPEG(t *testing.T) {
	o, err := ReadOrientation([]byte("\x89PNG\r\n\x1a\nnot much else"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if o != 0 {
		t.Errorf("orientation: got %d, want 0", o)
	}
}

func TestSetJPEGOrientation_NotJPEG(t *testing.T) {
	_, err := SetJPEGOrientation([]byte("\x89PNG\r\n\x1a\n...."), 6)
	if !errors.Is(err, ErrNotJPEG) {
		t.Errorf("got %v, want ErrNotJPEG", err)
	}
}

func TestOrientationValid(t *testing.T) {
	for o := Orientation(0); o <= 9; o++ {
		want := o >= 1 && o <= 8
		if o.Valid() != want {
			t.Errorf("Valid(%d) = %v", o, o.Valid())
		}
	}
}
