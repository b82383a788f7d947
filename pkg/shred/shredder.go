package shred

import (
	"image"
	"io"
	"os"

	"github.com/matzehuels/shredder/pkg/errors"
	"github.com/matzehuels/shredder/pkg/imageio"
)

// Shredder owns one pixel grid and applies transformations to it.
//
// Every transformation returns the receiver so calls chain. The first failing
// call records its error and later calls become no-ops; check [Shredder.Err]
// after a chain. A failed call never modifies the grid.
type Shredder struct {
	grid Grid
	err  error
}

// New returns a Shredder holding an empty grid.
func New() *Shredder {
	return &Shredder{}
}

// Err returns the first error encountered, if any.
func (s *Shredder) Err() error {
	return s.err
}

// apply runs fn on the current grid and adopts its result only on success.
func (s *Shredder) apply(fn func(Grid) (Grid, error)) *Shredder {
	if s.err != nil {
		return s
	}
	g, err := fn(s.grid)
	if err != nil {
		s.err = err
		return s
	}
	s.grid = g
	return s
}

// =============================================================================
// Load
// =============================================================================

// LoadFile decodes the image at path as RGB. A path that does not exist
// fails with FILE_NOT_FOUND before any decoding is attempted.
func (s *Shredder) LoadFile(path string) *Shredder {
	return s.apply(func(Grid) (Grid, error) {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return Grid{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s does not exist", path)
			}
			return Grid{}, errors.Wrap(errors.ErrCodeDecode, err, "stat %s", path)
		}
		img, err := imageio.Open(path)
		if err != nil {
			return Grid{}, err
		}
		return GridFromImage(img), nil
	})
}

// LoadGrid adopts an independent copy of g.
func (s *Shredder) LoadGrid(g Grid) *Shredder {
	return s.apply(func(Grid) (Grid, error) {
		if err := g.Validate(); err != nil {
			return Grid{}, err
		}
		return g.Clone(), nil
	})
}

// LoadImage adopts img converted to RGB.
func (s *Shredder) LoadImage(img image.Image) *Shredder {
	return s.apply(func(Grid) (Grid, error) {
		if img == nil {
			return Grid{}, errors.New(errors.ErrCodeInvalidParameter, "image is nil")
		}
		return GridFromImage(img), nil
	})
}

// LoadList concatenates grids along axis and adopts the result.
func (s *Shredder) LoadList(grids []Grid, axis Axis) *Shredder {
	return s.apply(func(Grid) (Grid, error) {
		return Concat(grids, axis)
	})
}

// =============================================================================
// Export
// =============================================================================

// Grid returns an independent copy of the current grid.
func (s *Shredder) Grid() Grid {
	return s.grid.Clone()
}

// ToArray is an alias of [Shredder.Grid].
func (s *Shredder) ToArray() Grid {
	return s.Grid()
}

// Image returns the current grid as an opaque RGBA image.
func (s *Shredder) Image() *image.RGBA {
	return s.grid.Image()
}

// Shape returns the current height, width and channel count.
func (s *Shredder) Shape() (h, w, c int) {
	return s.grid.Shape()
}

// SaveFile encodes the current grid to path, picking the format from the
// file extension.
func (s *Shredder) SaveFile(path string) error {
	if s.err != nil {
		return s.err
	}
	return imageio.Save(s.grid.Image(), path)
}

// Display writes a terminal preview of the current grid to w, at most
// maxCols characters wide.
func (s *Shredder) Display(w io.Writer, maxCols int) error {
	if s.err != nil {
		return s.err
	}
	return renderHalfBlock(w, s.grid, maxCols)
}

// =============================================================================
// Geometry
// =============================================================================

// CropOrPad centres the grid on a targetHeight×targetWidth canvas, cropping
// symmetrically where it is too large and padding with black where it is
// too small.
func (s *Shredder) CropOrPad(targetHeight, targetWidth int) *Shredder {
	return s.apply(func(g Grid) (Grid, error) {
		if err := errors.FirstError(
			errors.RequireNonNegative("target height", targetHeight),
			errors.RequireNonNegative("target width", targetWidth),
		); err != nil {
			return Grid{}, err
		}
		return cropOrPad(g, targetHeight, targetWidth), nil
	})
}

// CropToBlockGrid crops the grid to the largest height that is a multiple of
// sliceWidth*vCount and the largest width that is a multiple of
// sliceWidth*hCount. A zero count leaves that dimension untouched.
func (s *Shredder) CropToBlockGrid(sliceWidth, vCount, hCount int) *Shredder {
	return s.apply(func(g Grid) (Grid, error) {
		if err := errors.FirstError(
			errors.RequirePositive("slice width", sliceWidth),
			errors.RequireNonNegative("vertical slice count", vCount),
			errors.RequireNonNegative("horizontal slice count", hCount),
		); err != nil {
			return Grid{}, err
		}
		h := alignDown(g.H, sliceWidth, vCount)
		w := alignDown(g.W, sliceWidth, hCount)
		return cropOrPad(g, h, w), nil
	})
}

// AddBorder frames the grid with width pixels of c on every side. width
// must be positive.
func (s *Shredder) AddBorder(c Color, width int) *Shredder {
	return s.apply(func(g Grid) (Grid, error) {
		if err := errors.RequirePositive("border width", width); err != nil {
			return Grid{}, err
		}
		return border(g, c, width), nil
	})
}

// =============================================================================
// Slicing
// =============================================================================

// SliceVertical groups rows into sliceCount interleaved bands of height
// sliceWidth and stacks the bands top to bottom, or left to right when
// rotate is set.
func (s *Shredder) SliceVertical(sliceWidth, sliceCount int, rotate bool) *Shredder {
	axis := AxisHeight
	if rotate {
		axis = AxisWidth
	}
	return s.reassemble(sliceWidth, sliceCount, 1, axis)
}

// SliceHorizontal groups columns into sliceCount interleaved bands of width
// sliceWidth and stacks the bands left to right, or top to bottom when
// rotate is set.
func (s *Shredder) SliceHorizontal(sliceWidth, sliceCount int, rotate bool) *Shredder {
	axis := AxisWidth
	if rotate {
		axis = AxisHeight
	}
	return s.reassemble(sliceWidth, 1, sliceCount, axis)
}

// SliceGrid partitions the grid into vCount*hCount blocks and joins them in
// partition order, left to right when stackVertical is set and top to bottom
// otherwise.
func (s *Shredder) SliceGrid(sliceWidth, vCount, hCount int, stackVertical bool) *Shredder {
	axis := AxisHeight
	if stackVertical {
		axis = AxisWidth
	}
	return s.reassemble(sliceWidth, vCount, hCount, axis)
}

func (s *Shredder) reassemble(blockSize, vBlocks, hBlocks int, axis Axis) *Shredder {
	return s.apply(func(g Grid) (Grid, error) {
		blocks, err := Partition(g, blockSize, vBlocks, hBlocks)
		if err != nil {
			return Grid{}, err
		}
		return Concat(blocks, axis)
	})
}
