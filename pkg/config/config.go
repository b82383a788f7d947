// Package config loads shredding parameters from TOML files.
//
// A configuration file looks like:
//
//	source = "photo.jpg"
//	destination = "shredded.png"
//	slice_width = 20
//	h_slice_count = 4
//	v_slice_count = 4
//	space_around_image = 40
//	border_width = 20
//	border_color = "#ffffff"
//
// Keys that are absent keep their [Default] value. border_color accepts a
// hex value ("#fff", "#ffffff"), a decimal "r,g,b" triple or "auto", which
// asks the pipeline to pick the dominant color of the source image.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/shredder/pkg/errors"
	"github.com/matzehuels/shredder/pkg/imageio"
	"github.com/matzehuels/shredder/pkg/shred"
)

// DefaultFile is the file name looked up in the working directory when no
// configuration path is given.
const DefaultFile = "shredder.toml"

// AutoColor is the border_color value that selects the dominant source color.
const AutoColor = "auto"

// Config holds every parameter of a shredding run.
type Config struct {
	Source           string `toml:"source"`
	Destination      string `toml:"destination"`
	SliceWidth       int    `toml:"slice_width"`
	HSliceCount      int    `toml:"h_slice_count"`
	VSliceCount      int    `toml:"v_slice_count"`
	SpaceAroundImage int    `toml:"space_around_image"`
	BorderWidth      int    `toml:"border_width"`
	BorderColor      string `toml:"border_color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Destination:      "shredded.png",
		SliceWidth:       20,
		HSliceCount:      4,
		VSliceCount:      4,
		SpaceAroundImage: 40,
		BorderWidth:      20,
		BorderColor:      "#ffffff",
	}
}

// Load reads the TOML file at path on top of [Default].
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s does not exist", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of [Default]. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks that every parameter is usable for a run.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "source is required")
	}
	if c.Destination == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "destination is required")
	}
	if _, err := imageio.FormatFromPath(c.Destination); err != nil {
		return err
	}
	if err := errors.FirstError(
		errors.RequirePositive("slice_width", c.SliceWidth),
		errors.RequirePositive("h_slice_count", c.HSliceCount),
		errors.RequirePositive("v_slice_count", c.VSliceCount),
		errors.RequireNonNegative("space_around_image", c.SpaceAroundImage),
		errors.RequireNonNegative("border_width", c.BorderWidth),
	); err != nil {
		return err
	}
	if c.AutoBorderColor() {
		return nil
	}
	_, err := ParseColor(c.BorderColor)
	return err
}

// AutoBorderColor reports whether the border color is derived from the image.
func (c *Config) AutoBorderColor() bool {
	return strings.EqualFold(strings.TrimSpace(c.BorderColor), AutoColor)
}

// ParseColor parses "#rgb", "#rrggbb" or a decimal "r,g,b" triple.
func ParseColor(s string) (shred.Color, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		return parseTriple(s)
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return shred.Color{}, errors.New(errors.ErrCodeInvalidParameter, "invalid color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return shred.Color{}, errors.Wrap(errors.ErrCodeInvalidParameter, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return shred.Color{R: r, G: g, B: b}, nil
}

func parseTriple(s string) (shred.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return shred.Color{}, errors.New(errors.ErrCodeInvalidParameter, "invalid color %q: want r,g,b", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return shred.Color{}, errors.Wrap(errors.ErrCodeInvalidParameter, err, "invalid color %q", s)
		}
		ch[i] = uint8(v)
	}
	return shred.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return []byte(sb.String()), nil
}
