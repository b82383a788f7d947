package shred

// cropOrPad centres g on a th×tw canvas. Content larger than the target is
// cut symmetrically; shortfall is filled with black, the odd pixel going to
// the trailing side.
func cropOrPad(g Grid, th, tw int) Grid {
	top := max((g.H-th)/2, 0)
	left := max((g.W-tw)/2, 0)
	ch := min(th, g.H)
	cw := min(tw, g.W)

	padTop := max((th-ch)/2, 0)
	padLeft := max((tw-cw)/2, 0)

	out := NewGrid(th, tw)
	for y := range ch {
		src := g.Row(top + y)[left*Channels : (left+cw)*Channels]
		copy(out.Row(padTop + y)[padLeft*Channels:], src)
	}
	return out
}

// alignDown floors n to a multiple of blockSize*count. A zero count means
// the whole of n is one unit, so n is returned unchanged.
func alignDown(n, blockSize, count int) int {
	if count == 0 {
		return n
	}
	// Compare by division so blockSize*count cannot overflow.
	if blockSize > n/count {
		return 0
	}
	unit := blockSize * count
	return n / unit * unit
}

// border frames g with width pixels of c on every side.
func border(g Grid, c Color, width int) Grid {
	out := FillGrid(g.H+2*width, g.W+2*width, c)
	for y := range g.H {
		copy(out.Row(width + y)[width*Channels:], g.Row(y))
	}
	return out
}
