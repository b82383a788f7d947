package shred

import (
	"github.com/matzehuels/shredder/pkg/errors"
)

// Axis selects the dimension along which grids are concatenated.
type Axis int

const (
	// AxisHeight stacks grids top to bottom.
	AxisHeight Axis = 0
	// AxisWidth stacks grids left to right.
	AxisWidth Axis = 1
)

// String returns "height" or "width".
func (a Axis) String() string {
	switch a {
	case AxisHeight:
		return "height"
	case AxisWidth:
		return "width"
	default:
		return "invalid"
	}
}

// Partition splits g into vBlocks*hBlocks interleaved blocks.
//
// Row y belongs to vertical group (y/blockSize)%vBlocks and column x to
// horizontal group (x/blockSize)%hBlocks. Blocks are returned column-major:
// for each horizontal group, one block per vertical group. Rows and columns
// keep their relative source order inside a block. Groups that receive no
// rows or columns yield blocks with a zero dimension.
func Partition(g Grid, blockSize, vBlocks, hBlocks int) ([]Grid, error) {
	if err := errors.FirstError(
		g.Validate(),
		errors.RequirePositive("block size", blockSize),
		errors.RequirePositive("vertical block count", vBlocks),
		errors.RequirePositive("horizontal block count", hBlocks),
	); err != nil {
		return nil, err
	}

	rowGroups := groupIndices(g.H, blockSize, vBlocks)
	colGroups := groupIndices(g.W, blockSize, hBlocks)

	blocks := make([]Grid, 0, vBlocks*hBlocks)
	for _, cols := range colGroups {
		runs := contiguousRuns(cols)
		for _, rows := range rowGroups {
			blocks = append(blocks, gather(g, rows, runs, len(cols)))
		}
	}
	return blocks, nil
}

// groupIndices lists, for each of groups groups, the indices in [0, n)
// assigned to it, in ascending order.
func groupIndices(n, blockSize, groups int) [][]int {
	out := make([][]int, groups)
	for i := range n {
		id := (i / blockSize) % groups
		out[id] = append(out[id], i)
	}
	return out
}

// span is a half-open run [lo, hi) of consecutive column indices.
type span struct{ lo, hi int }

// contiguousRuns compresses sorted indices into runs so whole bands can be
// copied at once.
func contiguousRuns(idx []int) []span {
	var runs []span
	for _, i := range idx {
		if n := len(runs); n > 0 && runs[n-1].hi == i {
			runs[n-1].hi++
			continue
		}
		runs = append(runs, span{i, i + 1})
	}
	return runs
}

func gather(g Grid, rows []int, runs []span, width int) Grid {
	out := NewGrid(len(rows), width)
	for dy, y := range rows {
		src := g.Row(y)
		dst := out.Row(dy)
		n := 0
		for _, r := range runs {
			n += copy(dst[n:], src[r.lo*Channels:r.hi*Channels])
		}
	}
	return out
}

// Concat joins grids along axis. Every grid must match the others in the
// dimension not being concatenated.
func Concat(grids []Grid, axis Axis) (Grid, error) {
	if len(grids) == 0 {
		return Grid{}, errors.New(errors.ErrCodeInvalidParameter, "nothing to concatenate")
	}
	for i, g := range grids {
		if err := g.Validate(); err != nil {
			return Grid{}, errors.Wrap(errors.ErrCodeInvalidParameter, err, "grid %d", i)
		}
	}

	switch axis {
	case AxisHeight:
		return concatHeight(grids)
	case AxisWidth:
		return concatWidth(grids)
	default:
		return Grid{}, errors.New(errors.ErrCodeInvalidParameter, "axis must be 0 (height) or 1 (width), got %d", int(axis))
	}
}

func concatHeight(grids []Grid) (Grid, error) {
	w := grids[0].W
	h := 0
	for i, g := range grids {
		if g.W != w {
			return Grid{}, errors.New(errors.ErrCodeShapeMismatch,
				"grid %d is %d wide, grid 0 is %d wide", i, g.W, w)
		}
		h += g.H
	}
	out := Grid{H: h, W: w, Pix: make([]uint8, 0, h*w*Channels)}
	for _, g := range grids {
		out.Pix = append(out.Pix, g.Pix...)
	}
	return out, nil
}

func concatWidth(grids []Grid) (Grid, error) {
	h := grids[0].H
	w := 0
	for i, g := range grids {
		if g.H != h {
			return Grid{}, errors.New(errors.ErrCodeShapeMismatch,
				"grid %d is %d high, grid 0 is %d high", i, g.H, h)
		}
		w += g.W
	}
	out := NewGrid(h, w)
	for y := range h {
		dst := out.Row(y)
		n := 0
		for _, g := range grids {
			n += copy(dst[n:], g.Row(y))
		}
	}
	return out, nil
}
