package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/shredder/pkg/imageio"
	"github.com/matzehuels/shredder/pkg/shred"
)

// writeTestImage saves an h×w image whose pixel (y, x) is {y, x, 0} and
// returns its path.
func writeTestImage(t *testing.T, h, w int) string {
	t.Helper()
	g := shred.NewGrid(h, w)
	for y := range h {
		for x := range w {
			g.Set(y, x, shred.Color{R: uint8(y), G: uint8(x)})
		}
	}
	path := filepath.Join(t.TempDir(), "source.png")
	if err := imageio.Save(g.Image(), path); err != nil {
		t.Fatal(err)
	}
	return path
}
