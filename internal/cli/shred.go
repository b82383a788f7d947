package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shredder/pkg/config"
	"github.com/matzehuels/shredder/pkg/pipeline"
	"github.com/matzehuels/shredder/pkg/shred"
)

// shredFlags holds the command-line flags for the shred command.
// Flags that are set override the configuration file.
type shredFlags struct {
	configPath  string // TOML file; defaults to ./shredder.toml when present
	output      string // destination path
	sliceWidth  int    // strip width in pixels
	hSlices     int    // column groups of the horizontal pass
	vSlices     int    // row groups of the vertical pass
	space       int    // padding around each variant
	borderWidth int    // outer border width
	borderColor string // hex, "r,g,b" or "auto"
	noCache     bool   // disable the artifact cache
	refresh     bool   // ignore cached artifacts
	preview     bool   // print the result to the terminal
}

// shredCommand creates the shred command, which runs the full composition.
func (c *CLI) shredCommand() *cobra.Command {
	var flags shredFlags

	cmd := &cobra.Command{
		Use:   "shred [source]",
		Short: "Shred an image and stack the original with both passes",
		Long: `Shred crops the source to the block lattice, cuts it into row strips that
are regrouped and laid side by side, then cuts that result into column strips
and regroups them again. The original and both passes are padded, stacked and
framed with a border.

Parameters come from --config, ./shredder.toml if present, or built-in
defaults; flags override all of them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runShred(cmd.Context(), cfg, &flags)
		},
	}

	bindShredFlags(cmd, &flags)
	return cmd
}

// bindShredFlags registers the shred flags on cmd, defaulting to
// [config.Default].
func bindShredFlags(cmd *cobra.Command, flags *shredFlags) {
	def := config.Default()
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", def.Destination, "output file; the extension selects the format")
	cmd.Flags().IntVar(&flags.sliceWidth, "slice-width", def.SliceWidth, "strip width in pixels")
	cmd.Flags().IntVar(&flags.hSlices, "h-slices", def.HSliceCount, "column groups of the horizontal pass")
	cmd.Flags().IntVar(&flags.vSlices, "v-slices", def.VSliceCount, "row groups of the vertical pass")
	cmd.Flags().IntVar(&flags.space, "space", def.SpaceAroundImage, "padding around each image in pixels")
	cmd.Flags().IntVar(&flags.borderWidth, "border-width", def.BorderWidth, "outer border width in pixels")
	cmd.Flags().StringVar(&flags.borderColor, "border-color", def.BorderColor, `border color: "#rrggbb", "r,g,b" or "auto"`)
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "show the result in the terminal")
}

// resolveConfig layers defaults, the configuration file, the positional
// source and explicitly set flags, then validates the result.
func resolveConfig(cmd *cobra.Command, args []string, flags *shredFlags) (config.Config, error) {
	cfg := config.Default()

	path := flags.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Source = args[0]
	}

	set := cmd.Flags().Changed
	if set("output") {
		cfg.Destination = flags.output
	}
	if set("slice-width") {
		cfg.SliceWidth = flags.sliceWidth
	}
	if set("h-slices") {
		cfg.HSliceCount = flags.hSlices
	}
	if set("v-slices") {
		cfg.VSliceCount = flags.vSlices
	}
	if set("space") {
		cfg.SpaceAroundImage = flags.space
	}
	if set("border-width") {
		cfg.BorderWidth = flags.borderWidth
	}
	if set("border-color") {
		cfg.BorderColor = flags.borderColor
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// runShred executes the pipeline for cfg and writes the artifact.
func (c *CLI) runShred(ctx context.Context, cfg config.Config, flags *shredFlags) error {
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Refresh = flags.refresh

	runner, err := c.newRunner(flags.noCache, nil)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, cfg.Source, opts)
	if err != nil {
		return err
	}
	if err := result.Save(cfg.Destination); err != nil {
		return err
	}
	prog.done("shredded", "source", cfg.Source, "cache_hit", result.CacheHit)

	printSuccess("Shredded %s", StyleHighlight.Render(cfg.Source))
	printFile(cfg.Destination)
	printStats(result)

	if flags.preview {
		printNewline()
		return shred.New().LoadGrid(result.Grid).Display(os.Stdout, defaultPreviewWidth)
	}
	return nil
}
