// Package cache stores rendered shredder artifacts so repeated runs over the
// same source image and parameters skip the engine entirely.
//
// Two implementations are provided: [FileCache] for the CLI, which keeps
// entries under the user's cache directory, and [NullCache], which disables
// caching. Keys are derived by a [Keyer] from the SHA-256 of the source bytes
// and the options that influence the output.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered image stays valid.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the entry for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases held resources.
	Close() error
}
