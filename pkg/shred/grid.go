package shred

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/matzehuels/shredder/pkg/errors"
)

// Channels is the number of samples per pixel. Grids are always RGB.
const Channels = 3

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// String formats c as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Grid is a dense H×W×3 array of 8-bit RGB samples.
type Grid struct {
	H, W int
	Pix  []uint8 // Interleaved RGB, row-major, len = H*W*3
}

// NewGrid allocates a black grid of the given size.
func NewGrid(h, w int) Grid {
	return Grid{H: h, W: w, Pix: make([]uint8, h*w*Channels)}
}

// FillGrid allocates a grid of the given size filled with c.
func FillGrid(h, w int, c Color) Grid {
	g := NewGrid(h, w)
	for i := 0; i < len(g.Pix); i += Channels {
		g.Pix[i] = c.R
		g.Pix[i+1] = c.G
		g.Pix[i+2] = c.B
	}
	return g
}

// Shape returns height, width and channel count.
func (g Grid) Shape() (h, w, c int) {
	return g.H, g.W, Channels
}

// Empty reports whether g has no pixels.
func (g Grid) Empty() bool {
	return g.H == 0 || g.W == 0
}

func (g Grid) offset(y, x int) int {
	return (y*g.W + x) * Channels
}

// At returns the pixel at row y, column x.
func (g Grid) At(y, x int) Color {
	off := g.offset(y, x)
	return Color{g.Pix[off], g.Pix[off+1], g.Pix[off+2]}
}

// Set stores c at row y, column x.
func (g Grid) Set(y, x int, c Color) {
	off := g.offset(y, x)
	g.Pix[off] = c.R
	g.Pix[off+1] = c.G
	g.Pix[off+2] = c.B
}

// Row returns the samples of row y. The slice aliases g.
func (g Grid) Row(y int) []uint8 {
	return g.Pix[g.offset(y, 0):g.offset(y+1, 0)]
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return Grid{H: g.H, W: g.W, Pix: pix}
}

// Equal reports whether g and o have the same shape and samples.
func (g Grid) Equal(o Grid) bool {
	return g.H == o.H && g.W == o.W && bytes.Equal(g.Pix, o.Pix)
}

// Validate checks that the sample buffer matches the declared shape.
func (g Grid) Validate() error {
	if g.H < 0 || g.W < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "grid shape %dx%d is negative", g.H, g.W)
	}
	if len(g.Pix) != g.H*g.W*Channels {
		return errors.New(errors.ErrCodeInvalidParameter,
			"grid %dx%d needs %d samples, has %d", g.H, g.W, g.H*g.W*Channels, len(g.Pix))
	}
	return nil
}

// GridFromImage converts img to a grid, dropping alpha without
// premultiplying.
func GridFromImage(img image.Image) Grid {
	b := img.Bounds()
	g := NewGrid(b.Dy(), b.Dx())
	if src, ok := img.(*image.NRGBA); ok {
		for y := range g.H {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := g.Row(y)
			for x := range g.W {
				copy(dst[x*Channels:x*Channels+Channels], row[x*4:x*4+3])
			}
		}
		return g
	}
	for y := range g.H {
		for x := range g.W {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.Set(y, x, Color{c.R, c.G, c.B})
		}
	}
	return g
}

// Image converts g to an opaque RGBA image.
func (g Grid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for i, j := 0, 0; i < len(g.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = g.Pix[i]
		img.Pix[j+1] = g.Pix[i+1]
		img.Pix[j+2] = g.Pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}
