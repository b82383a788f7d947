// Package shred slices images into interleaved blocks and reassembles them
// into a "shredded" picture.
//
// # Overview
//
// The package works on a [Grid]: a dense H×W×3 array of 8-bit RGB samples.
// A [Shredder] owns one grid and exposes a chain of transformations that each
// replace the owned grid wholesale:
//
//	s := shred.New().
//	    LoadFile("photo.jpg").
//	    CropToBlockGrid(10, 4, 4).
//	    SliceVertical(10, 4, true).
//	    SliceHorizontal(10, 4, false).
//	    AddBorder(shred.White, 8)
//	if err := s.Err(); err != nil {
//	    return err
//	}
//
// Operations stop at the first failure: once an operation fails the error
// sticks, later calls do nothing, and the grid keeps the value it had before
// the failing call.
//
// # Block Partitioning
//
// [Partition] is the shredding primitive. Every row is assigned the vertical
// group (row / blockSize) % vBlocks and every column the horizontal group
// (col / blockSize) % hBlocks. Rows and columns sharing both ids form one
// block. Because the grouping wraps modulo the group count, each block is an
// interleaving of every vBlocks-th band of rows (and hBlocks-th band of
// columns) of the source, so neighbouring bands land in different blocks.
//
// Blocks are enumerated column-major: the horizontal group is the outer loop
// and the vertical group varies fastest. That order is the concatenation
// order of [Shredder.SliceGrid] and determines the final picture.
//
// # Geometry
//
// [Shredder.CropOrPad] centres content on a target canvas, truncating
// symmetrically and padding with black; an odd remainder goes to the
// trailing side. [Shredder.CropToBlockGrid] floors the grid to multiples of
// the block unit so slicing never leaves a remainder band.
//
// # Concurrency
//
// A Shredder is not safe for concurrent use. Shred several images in
// parallel with one Shredder each.
package shred
