// Package pipeline runs the complete shredding composition used by the CLI
// and the HTTP server.
//
// # Stages
//
//  1. Load: decode the source image into a [shred.Grid]
//  2. Shred: align the grid to the block lattice, run the rotated vertical
//     pass and then the horizontal pass over its result
//  3. Compose: pad the original and both passes to a common width, stack
//     them top to bottom, add the border and encode the artifact
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, err := pipeline.OptionsFromConfig(cfg)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, cfg.Source, opts)
//	if err != nil {
//	    return err
//	}
//	return result.Save(cfg.Destination)
//
// Artifacts are cached by the SHA-256 of the source bytes together with every
// option that changes the output, so running the same configuration twice
// only decodes the cached image.
package pipeline

import (
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/shredder/pkg/cache"
	"github.com/matzehuels/shredder/pkg/config"
	"github.com/matzehuels/shredder/pkg/errors"
	"github.com/matzehuels/shredder/pkg/imageio"
	"github.com/matzehuels/shredder/pkg/shred"
)

// =============================================================================
// Options
// =============================================================================

// Options contains every parameter of a shredding run except the source.
// This struct supports JSON serialization for API requests.
type Options struct {
	SliceWidth  int    `json:"slice_width"`
	HSlices     int    `json:"h_slices"`
	VSlices     int    `json:"v_slices"`
	Space       int    `json:"space"`
	BorderWidth int    `json:"border_width"`
	BorderColor string `json:"border_color"` // hex, "r,g,b" or "auto"
	Format      string `json:"format"`       // output format name, e.g. "png"

	// Refresh skips the cache lookup; the fresh artifact is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// DefaultOptions mirrors [config.Default].
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.Default())
	return opts
}

// OptionsFromConfig converts a configuration into pipeline options. The output
// format is taken from the destination extension.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	opts := Options{
		SliceWidth:  cfg.SliceWidth,
		HSlices:     cfg.HSliceCount,
		VSlices:     cfg.VSliceCount,
		Space:       cfg.SpaceAroundImage,
		BorderWidth: cfg.BorderWidth,
		BorderColor: cfg.BorderColor,
	}
	if cfg.Destination != "" {
		f, err := imageio.FormatFromPath(cfg.Destination)
		if err != nil {
			return Options{}, err
		}
		opts.Format = formatName(f)
	}
	opts.SetDefaults()
	return opts, nil
}

// SetDefaults fills unset fields that have a sensible default.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = formatName(imageio.PNG)
	}
	if o.BorderColor == "" {
		o.BorderColor = config.Default().BorderColor
	}
}

// Validate checks that every option is usable.
func (o *Options) Validate() error {
	if err := errors.FirstError(
		errors.RequirePositive("slice width", o.SliceWidth),
		errors.RequirePositive("horizontal slice count", o.HSlices),
		errors.RequirePositive("vertical slice count", o.VSlices),
		errors.RequireNonNegative("space", o.Space),
		errors.RequireNonNegative("border width", o.BorderWidth),
	); err != nil {
		return err
	}
	if _, err := imageio.ParseFormat(o.Format); err != nil {
		return err
	}
	if o.autoBorderColor() {
		return nil
	}
	_, err := config.ParseColor(o.BorderColor)
	return err
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// OutputFormat returns the parsed output format.
func (o *Options) OutputFormat() imageio.Format {
	f, err := imageio.ParseFormat(o.Format)
	if err != nil {
		return imageio.PNG
	}
	return f
}

// ArtifactKeyOpts returns cache key options for the artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		SliceWidth:  o.SliceWidth,
		HSlices:     o.HSlices,
		VSlices:     o.VSlices,
		Space:       o.Space,
		BorderWidth: o.BorderWidth,
		BorderColor: o.BorderColor,
		Format:      formatName(o.OutputFormat()),
	}
}

func (o *Options) autoBorderColor() bool {
	c := config.Config{BorderColor: o.BorderColor}
	return c.AutoBorderColor()
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a pipeline run.
type Result struct {
	// Grid is the composed image. On a cache hit it is decoded from the
	// cached artifact.
	Grid shred.Grid

	// Artifact is Grid encoded in Format.
	Artifact []byte
	Format   imageio.Format

	// BorderColor is the color actually used, after resolving "auto".
	// It is the zero color on a cache hit.
	BorderColor shred.Color

	SourceHash string
	CacheHit   bool
	Stats      Stats
}

// Stats records sizes and stage timings.
type Stats struct {
	SourceHeight, SourceWidth   int
	AlignedHeight, AlignedWidth int
	OutputHeight, OutputWidth   int
	Variants                    int

	LoadTime    time.Duration
	ShredTime   time.Duration
	ComposeTime time.Duration
}

// Save writes the artifact to path, creating parent directories.
func (r *Result) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, r.Artifact, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "write %s", path)
	}
	return nil
}

// ContentType returns the MIME type of the artifact.
func (r *Result) ContentType() string {
	return imageio.ContentType(r.Format)
}

// =============================================================================
// Helpers
// =============================================================================

func formatName(f imageio.Format) string {
	switch f {
	case imageio.JPEG:
		return "jpeg"
	case imageio.GIF:
		return "gif"
	case imageio.BMP:
		return "bmp"
	case imageio.TIFF:
		return "tiff"
	default:
		return "png"
	}
}
