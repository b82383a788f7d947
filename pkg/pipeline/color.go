package pipeline

import (
	"image"
	"image/color"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/shredder/pkg/config"
	"github.com/matzehuels/shredder/pkg/shred"
)

// dominantCandidates is the number of k-means clusters considered.
const dominantCandidates = 4

// fallbackColor is used when no cluster could be extracted.
var fallbackColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// DominantColor returns the most heavily weighted color cluster of img.
func DominantColor(img image.Image) shred.Color {
	best := dominantcolor.Color{RGBA: fallbackColor}
	for _, c := range dominantcolor.FindWeight(img, dominantCandidates) {
		if c.Weight > best.Weight {
			best = c
		}
	}
	col, _ := colorful.MakeColor(best.RGBA)
	r, g, b := col.Clamped().RGB255()
	return shred.Color{R: r, G: g, B: b}
}

// resolveBorderColor returns the configured border color, sampling src when
// the option is "auto".
func resolveBorderColor(opts Options, src shred.Grid) (shred.Color, error) {
	if opts.autoBorderColor() {
		if src.Empty() {
			return shred.Black, nil
		}
		return DominantColor(src.Image()), nil
	}
	return config.ParseColor(opts.BorderColor)
}
