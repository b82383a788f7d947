package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shredder/pkg/shred"
)

// previewCommand creates the preview command, which prints an image to the
// terminal using half-block characters.
func (c *CLI) previewCommand() *cobra.Command {
	width := defaultPreviewWidth

	cmd := &cobra.Command{
		Use:   "preview [image]",
		Short: "Show an image in the terminal",
		Long:  `Preview renders an image with 24-bit colored half blocks, two pixel rows per line, scaled down to --width columns.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := shred.New().LoadFile(args[0])
			if err := s.Err(); err != nil {
				return err
			}
			h, w, _ := s.Shape()
			c.Logger.Debug("loaded image", "path", args[0], "size", sizeString(h, w))
			return s.Display(os.Stdout, width)
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", width, "maximum width in terminal columns")

	return cmd
}
