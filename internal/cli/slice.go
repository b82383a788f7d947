package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shredder/pkg/config"
	"github.com/matzehuels/shredder/pkg/errors"
	"github.com/matzehuels/shredder/pkg/shred"
)

// Slice axes accepted by --axis.
const (
	axisVertical   = "vertical"
	axisHorizontal = "horizontal"
	axisGrid       = "grid"
)

// sliceFlags holds the command-line flags for the slice command.
type sliceFlags struct {
	output        string
	axis          string // vertical, horizontal or grid
	sliceWidth    int
	hSlices       int
	vSlices       int
	rotate        bool // vertical/horizontal: concatenate along the other axis
	stackVertical bool // grid: join blocks left to right
	noAlign       bool // skip cropping to the block lattice
	preview       bool
}

// sliceCommand creates the slice command, which applies a single slicing
// operation to an image.
func (c *CLI) sliceCommand() *cobra.Command {
	def := config.Default()
	flags := sliceFlags{axis: axisVertical}

	cmd := &cobra.Command{
		Use:   "slice [source]",
		Short: "Apply one slicing operation to an image",
		Long: `Slice crops the source to the block lattice and applies one slicing pass:

  vertical    row strips regrouped by index modulo --v-slices
  horizontal  column strips regrouped by index modulo --h-slices
  grid        both at once, producing --v-slices × --h-slices blocks

The result is written to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			s, err := sliceImage(args[0], &flags)
			if err != nil {
				return err
			}
			if err := s.SaveFile(flags.output); err != nil {
				return err
			}
			prog.done("sliced", "source", args[0], "axis", flags.axis)

			h, w, _ := s.Shape()
			printSuccess("Sliced %s %s", StyleHighlight.Render(args[0]), StyleDim.Render(flags.axis))
			printFile(flags.output)
			printKeyValue("size", StyleNumber.Render(sizeString(h, w)))

			if flags.preview {
				printNewline()
				return s.Display(os.Stdout, defaultPreviewWidth)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "sliced.png", "output file")
	cmd.Flags().StringVar(&flags.axis, "axis", flags.axis, "slicing axis: vertical, horizontal, grid")
	cmd.Flags().IntVar(&flags.sliceWidth, "slice-width", def.SliceWidth, "strip width in pixels")
	cmd.Flags().IntVar(&flags.hSlices, "h-slices", def.HSliceCount, "column groups")
	cmd.Flags().IntVar(&flags.vSlices, "v-slices", def.VSliceCount, "row groups")
	cmd.Flags().BoolVar(&flags.rotate, "rotate", false, "concatenate groups along the other axis (vertical, horizontal)")
	cmd.Flags().BoolVar(&flags.stackVertical, "stack-vertical", false, "join grid blocks left to right instead of top to bottom")
	cmd.Flags().BoolVar(&flags.noAlign, "no-align", false, "do not crop to the block lattice first")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "show the result in the terminal")

	return cmd
}

// sliceImage loads source and applies the slicing pass selected by flags.
func sliceImage(source string, flags *sliceFlags) (*shred.Shredder, error) {
	var vAlign, hAlign int
	switch flags.axis {
	case axisVertical:
		vAlign = flags.vSlices
	case axisHorizontal:
		hAlign = flags.hSlices
	case axisGrid:
		vAlign, hAlign = flags.vSlices, flags.hSlices
	default:
		return nil, errors.New(errors.ErrCodeInvalidParameter,
			"invalid axis %q (must be %s, %s or %s)", flags.axis, axisVertical, axisHorizontal, axisGrid)
	}

	s := shred.New().LoadFile(source)
	if !flags.noAlign {
		s.CropToBlockGrid(flags.sliceWidth, vAlign, hAlign)
	}

	switch flags.axis {
	case axisVertical:
		s.SliceVertical(flags.sliceWidth, flags.vSlices, flags.rotate)
	case axisHorizontal:
		s.SliceHorizontal(flags.sliceWidth, flags.hSlices, flags.rotate)
	case axisGrid:
		s.SliceGrid(flags.sliceWidth, flags.vSlices, flags.hSlices, flags.stackVertical)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
