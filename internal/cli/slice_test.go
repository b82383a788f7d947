package cli

import (
	"testing"

	"github.com/matzehuels/shredder/pkg/errors"
)

func TestSliceImage(t *testing.T) {
	src := writeTestImage(t, 9, 10)

	tests := []struct {
		name         string
		flags        sliceFlags
		wantH, wantW int
	}{
		// aligned to 8x10, two row groups of 4 rows side by side
		{"vertical rotated", sliceFlags{axis: axisVertical, sliceWidth: 2, vSlices: 2, rotate: true}, 4, 20},
		{"vertical stacked", sliceFlags{axis: axisVertical, sliceWidth: 2, vSlices: 2}, 8, 10},
		// aligned to 9x8
		{"horizontal", sliceFlags{axis: axisHorizontal, sliceWidth: 2, hSlices: 2}, 9, 8},
		{"horizontal rotated", sliceFlags{axis: axisHorizontal, sliceWidth: 2, hSlices: 2, rotate: true}, 18, 4},
		// aligned to 8x8, four 4x4 blocks
		{"grid", sliceFlags{axis: axisGrid, sliceWidth: 2, vSlices: 2, hSlices: 2}, 16, 4},
		{"grid stack vertical", sliceFlags{axis: axisGrid, sliceWidth: 2, vSlices: 2, hSlices: 2, stackVertical: true}, 4, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := sliceImage(src, &tt.flags)
			if err != nil {
				t.Fatalf("sliceImage: %v", err)
			}
			h, w, _ := s.Shape()
			if h != tt.wantH || w != tt.wantW {
				t.Errorf("shape = %dx%d, want %dx%d", h, w, tt.wantH, tt.wantW)
			}
		})
	}
}

func TestSliceImageNoAlign(t *testing.T) {
	src := writeTestImage(t, 9, 10)

	// 9 rows in two groups of 2-row strips: 5 and 4 rows, unequal heights
	flags := sliceFlags{axis: axisVertical, sliceWidth: 2, vSlices: 2, rotate: true, noAlign: true}
	if _, err := sliceImage(src, &flags); !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("unaligned rotate error = %v, want SHAPE_MISMATCH", err)
	}
}

func TestSliceImageErrors(t *testing.T) {
	src := writeTestImage(t, 4, 4)

	flags := sliceFlags{axis: "diagonal", sliceWidth: 1, vSlices: 1, hSlices: 1}
	if _, err := sliceImage(src, &flags); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("bad axis error = %v, want INVALID_PARAMETER", err)
	}

	flags = sliceFlags{axis: axisVertical, sliceWidth: 1, vSlices: 1}
	if _, err := sliceImage(src+".missing", &flags); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing source error = %v, want FILE_NOT_FOUND", err)
	}
}
