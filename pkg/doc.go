// Package pkg provides the libraries behind the shredder command.
//
// # Overview
//
// Shredder reproduces the paper-shredder trick: an image is cut into narrow
// strips, the strips are regrouped by their index modulo a slice count and
// the groups are glued back together, yielding several smaller copies of the
// original. Doing this once along rows and once along columns multiplies the
// image in both directions.
//
// The typical data flow:
//
//	encoded image (file or HTTP upload)
//	         ↓
//	    [imageio] decode to RGB
//	         ↓
//	    [shred] crop to the block lattice, slice rows, slice columns
//	         ↓
//	    [pipeline] pad the variants, stack them, add a border, encode
//	         ↓
//	    [cache] store the artifact keyed by source hash and options
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/shredder/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, "photo.jpg", pipeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	return res.Save("shredded.png")
//
// # Main Packages
//
// [shred] - The pixel grid, block partitioning and the chainable [shred.Shredder].
//
// [pipeline] - The three-variant composition used by the CLI and the HTTP
// server, with caching and observability hooks.
//
// [config] - TOML configuration and color parsing.
//
// [imageio] - Decoding, encoding and format selection.
//
// [cache] - Artifact cache backends (file, null) and key derivation.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/shred/...     # Specific package
//	go test -run Example        # Examples only
package pkg
