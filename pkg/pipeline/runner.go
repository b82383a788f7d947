package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shredder/pkg/cache"
	"github.com/matzehuels/shredder/pkg/errors"
	"github.com/matzehuels/shredder/pkg/imageio"
	"github.com/matzehuels/shredder/pkg/observability"
	"github.com/matzehuels/shredder/pkg/shred"
)

// cacheKeyType labels artifact entries in cache hooks.
const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP server use it.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute reads the image at source and runs the complete pipeline.
func (r *Runner) Execute(ctx context.Context, source string, opts Options) (*Result, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s does not exist", source)
		}
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "read %s", source)
	}
	return r.ExecuteBytes(ctx, source, data, opts)
}

// ExecuteBytes runs the complete pipeline on an encoded image. name only
// appears in logs and hooks.
func (r *Runner) ExecuteBytes(ctx context.Context, name string, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	sourceHash := cache.Hash(data)
	key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts())

	if !opts.Refresh {
		if res, ok := r.fromCache(ctx, key, opts); ok {
			res.SourceHash = sourceHash
			r.Logger.Info("cache hit",
				"source", name,
				"size", sizeOf(res.Grid))
			return res, nil
		}
	}

	// Stage 1: Load
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	loadStart := time.Now()
	img, err := imageio.Decode(bytes.NewReader(data))
	var src shred.Grid
	if err == nil {
		src = shred.GridFromImage(img)
	}
	loadTime := time.Since(loadStart)
	hooks.OnLoadComplete(ctx, name, src.H, src.W, loadTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("loaded source",
		"source", name,
		"size", sizeOf(src),
		"duration", loadTime)

	res, err := r.ExecuteGrid(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	res.SourceHash = sourceHash
	res.Stats.LoadTime = loadTime

	if err := r.Cache.Set(ctx, key, res.Artifact, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(res.Artifact))
	}
	return res, nil
}

// ExecuteGrid runs the shred and compose stages on an in-memory grid and
// encodes the result. The cache is not consulted.
func (r *Runner) ExecuteGrid(ctx context.Context, src shred.Grid, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Format: opts.OutputFormat()}
	res.Stats.SourceHeight, res.Stats.SourceWidth = src.H, src.W

	// Stage 2: Shred
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnShredStart(ctx, opts.SliceWidth, opts.HSlices, opts.VSlices)
	shredStart := time.Now()
	variants, aligned, err := shredVariants(src, opts)
	res.Stats.ShredTime = time.Since(shredStart)
	hooks.OnShredComplete(ctx, len(variants), res.Stats.ShredTime, err)
	if err != nil {
		return nil, err
	}
	res.Stats.AlignedHeight, res.Stats.AlignedWidth = aligned.H, aligned.W
	res.Stats.Variants = len(variants)

	r.Logger.Info("shredded",
		"aligned", sizeOf(aligned),
		"vertical", sizeOf(variants[1]),
		"horizontal", sizeOf(variants[2]),
		"duration", res.Stats.ShredTime)

	// Stage 3: Compose
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks.OnComposeStart(ctx, len(variants))
	composeStart := time.Now()
	err = r.compose(res, src, variants, opts)
	res.Stats.ComposeTime = time.Since(composeStart)
	hooks.OnComposeComplete(ctx, res.Grid.H, res.Grid.W, res.Stats.ComposeTime, err)
	if err != nil {
		return nil, err
	}
	res.Stats.OutputHeight, res.Stats.OutputWidth = res.Grid.H, res.Grid.W

	r.Logger.Info("composed output",
		"size", sizeOf(res.Grid),
		"border", res.BorderColor,
		"bytes", len(res.Artifact),
		"duration", res.Stats.ComposeTime)

	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// shredVariants returns the source, the rotated vertical pass and the
// horizontal pass over the vertical pass, plus the aligned grid both passes
// start from.
func shredVariants(src shred.Grid, opts Options) ([]shred.Grid, shred.Grid, error) {
	s := shred.New().
		LoadGrid(src).
		CropToBlockGrid(opts.SliceWidth, opts.VSlices, opts.HSlices)
	aligned := s.Grid()

	vSliced := s.SliceVertical(opts.SliceWidth, opts.VSlices, true).Grid()
	hSliced := s.LoadGrid(vSliced).SliceHorizontal(opts.SliceWidth, opts.HSlices, false).Grid()
	if err := s.Err(); err != nil {
		return nil, shred.Grid{}, err
	}
	return []shred.Grid{src, vSliced, hSliced}, aligned, nil
}

// compose pads every variant to a common width with space on all sides,
// stacks them, borders the stack and encodes it into res.
func (r *Runner) compose(res *Result, src shred.Grid, variants []shred.Grid, opts Options) error {
	color, err := resolveBorderColor(opts, src)
	if err != nil {
		return err
	}
	res.BorderColor = color

	maxWidth := 0
	for _, v := range variants {
		maxWidth = max(maxWidth, v.W)
	}
	maxWidth += 2 * opts.Space

	padded := make([]shred.Grid, len(variants))
	for i, v := range variants {
		s := shred.New().LoadGrid(v).CropOrPad(v.H+2*opts.Space, maxWidth)
		if err := s.Err(); err != nil {
			return err
		}
		padded[i] = s.Grid()
	}

	s := shred.New().LoadList(padded, shred.AxisHeight)
	if opts.BorderWidth > 0 {
		s.AddBorder(color, opts.BorderWidth)
	}
	if err := s.Err(); err != nil {
		return err
	}
	res.Grid = s.Grid()

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, res.Grid.Image(), res.Format); err != nil {
		return err
	}
	res.Artifact = buf.Bytes()
	return nil
}

// fromCache returns the cached artifact for key, decoded into a result.
func (r *Runner) fromCache(ctx context.Context, key string, opts Options) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	img, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)

	g := shred.GridFromImage(img)
	res := &Result{
		Grid:     g,
		Artifact: data,
		Format:   opts.OutputFormat(),
		CacheHit: true,
	}
	res.Stats.OutputHeight, res.Stats.OutputWidth = g.H, g.W
	return res, true
}

func sizeOf(g shred.Grid) string {
	return fmt.Sprintf("%dx%d", g.W, g.H)
}
