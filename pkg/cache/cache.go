// Package cache stores rendered artifacts keyed by the content they were
// rendered from.
//
// The CLI renders hierarchy diagrams through an embedded Graphviz runtime,
// which is slow to start. Rendered SVG is cached under a key derived from
// the DOT source, so an unchanged hierarchy is served from disk.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.Key(cache.KindSVG, []byte(dot))
//	if svg, ok, _ := c.Get(ctx, key); ok {
//	    return svg
//	}
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// KindSVG prefixes keys of rendered SVG hierarchy graphs.
const KindSVG = "svg"


// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired and unreadable entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// Key derives the cache key for an artifact of the given kind rendered
// from source.
func Key(kind string, source []byte) string {
	return kind + ":" + Hash(source)
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
