package shred

import (
	"bufio"
	"image"
	"io"
	"strconv"

	"github.com/matzehuels/shredder/pkg/imageio"
)

// renderHalfBlock draws g with the lower half block character: each text
// cell shows two pixel rows, the upper one as background and the lower one as
// foreground. The image is scaled down to maxCols columns when wider.
func renderHalfBlock(w io.Writer, g Grid, maxCols int) error {
	if g.Empty() || maxCols <= 0 {
		return nil
	}
	scaled := imageio.Fit(g.Image(), maxCols)
	b := scaled.Bounds()

	bw := bufio.NewWriter(w)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			tr, tg, tb := rgbAt(scaled, x, y)
			var br, bg, bb uint8
			if y+1 < b.Max.Y {
				br, bg, bb = rgbAt(scaled, x, y+1)
			}
			writeTrueColor(bw, "48", tr, tg, tb)
			writeTrueColor(bw, "38", br, bg, bb)
			bw.WriteString("▄")
		}
		bw.WriteString("\x1b[0m\n")
	}
	return bw.Flush()
}

func writeTrueColor(w *bufio.Writer, layer string, r, g, b uint8) {
	w.WriteString("\x1b[")
	w.WriteString(layer)
	w.WriteString(";2;")
	w.WriteString(strconv.Itoa(int(r)))
	w.WriteByte(';')
	w.WriteString(strconv.Itoa(int(g)))
	w.WriteByte(';')
	w.WriteString(strconv.Itoa(int(b)))
	w.WriteByte('m')
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
