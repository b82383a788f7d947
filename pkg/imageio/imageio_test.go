package imageio

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/matzehuels/shredder/pkg/errors"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	return img
}

func TestSaveOpenRoundTripPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	src := testImage(6, 4)

	if err := Save(src, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Bounds().Dx() != 6 || got.Bounds().Dy() != 4 {
		t.Fatalf("bounds = %v, want 6x4", got.Bounds())
	}
	r, g, b, _ := got.At(3, 2).RGBA()
	if uint8(r>>8) != 30 || uint8(g>>8) != 20 || uint8(b>>8) != 7 {
		t.Errorf("pixel (3,2) = %d,%d,%d, want 30,20,7", r>>8, g>>8, b>>8)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Open(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("Decode(garbage) error = %v, want DECODE_FAILED", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testImage(3, 3), PNG); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if Describe(img) != "3x3" {
		t.Errorf("Describe = %s, want 3x3", Describe(img))
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.png", PNG, false},
		{"out.JPG", JPEG, false},
		{"dir/out.jpeg", JPEG, false},
		{"out.gif", GIF, false},
		{"out.bmp", BMP, false},
		{"out.tiff", TIFF, false},
		{"out.webp", 0, true},
		{"out", 0, true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("FormatFromPath(%q) wrong code: %v", tt.path, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSaveUnsupportedExtension(t *testing.T) {
	err := Save(testImage(2, 2), filepath.Join(t.TempDir(), "out.xyz"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Save(.xyz) error = %v, want INVALID_FORMAT", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("jpg"); err != nil || f != JPEG {
		t.Errorf("ParseFormat(jpg) = %v, %v", f, err)
	}
	if f, err := ParseFormat(".PNG"); err != nil || f != PNG {
		t.Errorf("ParseFormat(.PNG) = %v, %v", f, err)
	}
	if _, err := ParseFormat("svg"); err == nil {
		t.Error("ParseFormat(svg) should fail")
	}
}

func TestContentType(t *testing.T) {
	if ContentType(PNG) != "image/png" {
		t.Errorf("ContentType(PNG) = %s", ContentType(PNG))
	}
	if ContentType(JPEG) != "image/jpeg" {
		t.Errorf("ContentType(JPEG) = %s", ContentType(JPEG))
	}
}

func TestFit(t *testing.T) {
	src := testImage(40, 20)

	if got := Fit(src, 100); got != image.Image(src) {
		t.Error("Fit should return small images unchanged")
	}

	got := Fit(src, 10)
	if got.Bounds().Dx() != 10 || got.Bounds().Dy() != 5 {
		t.Errorf("Fit(40x20, 10) = %v, want 10x5", got.Bounds())
	}
}
