// Package imageio decodes and encodes raster images for the shredder.
//
// Decoding goes through github.com/disintegration/imaging, which understands
// PNG, JPEG, GIF, BMP and TIFF and applies EXIF orientation. WebP input is
// enabled by registering golang.org/x/image/webp with the standard image
// package. Output formats are chosen from the destination file extension.
package imageio

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/matzehuels/shredder/pkg/errors"
)

// Format is an output image format.
type Format = imaging.Format

// Supported output formats.
const (
	PNG  = imaging.PNG
	JPEG = imaging.JPEG
	GIF  = imaging.GIF
	BMP  = imaging.BMP
	TIFF = imaging.TIFF
)

// jpegQuality is used for every JPEG encode.
const jpegQuality = 95

// Open decodes the image stored at path.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", path)
	}
	return img, nil
}

// Decode decodes an image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode image")
	}
	return img, nil
}

// Save encodes img to path using the format implied by its extension.
// Missing parent directories are created.
func Save(img image.Image, path string) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "create directory %s", dir)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "save %s", path)
	}
	return nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode %s", f)
	}
	return nil
}

// FormatFromPath returns the output format for a file name.
func FormatFromPath(path string) (Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return -1, errors.New(errors.ErrCodeInvalidFormat, "unsupported image extension %q", filepath.Ext(path))
	}
	return f, nil
}

// ParseFormat resolves a format name such as "png" or "jpg".
func ParseFormat(name string) (Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(strings.ToLower(name), "."))
	if err != nil {
		return -1, errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", name)
	}
	return f, nil
}

// ContentType returns the MIME type for f.
func ContentType(f Format) string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Fit scales img down so that it is at most maxWidth pixels wide, keeping the
// aspect ratio. Images that already fit are returned unchanged.
func Fit(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth <= 0 || w <= maxWidth || w == 0 {
		return img
	}
	th := max(h*maxWidth/w, 1)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Describe returns a short "WxH" description of img for log lines.
func Describe(img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
}
