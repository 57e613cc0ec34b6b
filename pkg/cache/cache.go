// Package cache stores rendered artifacts between runs.
//
// Rendering an SVG goes through Graphviz and is the slowest step of an
// export. The pipeline keys each artifact by a hash of the resolved tokens
// plus the render options, so an unchanged token set is served from disk.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// # Keys
//
// A [Keyer] builds keys from content hashes. [ScopedKeyer] prefixes every
// key, which the CLI uses to keep projects sharing a cache directory apart.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and true on a hit. Expired or unreadable
	// entries are reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TTLArtifact is how long a rendered artifact stays valid.
const TTLArtifact = 7 * 24 * time.Hour

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Selector string `json:"selector,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
	Focus    string `json:"focus,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for an artifact rendered from tokens whose
	// content hash is tokensHash.
	ArtifactKey(tokensHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "artifact:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(tokensHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tokensHash, opts)
}
