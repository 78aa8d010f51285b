// Package cache provides pluggable result caching for the allocation
// pipeline.
//
// Per-region allocations are pure functions of the node set and the
// pipeline options, so they can be cached by content hash. Backends:
//
//   - FileCache: directory-based cache for CLI usage
//   - RedisCache: shared cache for server deployments
//   - MongoCache: persistent cache backed by a MongoDB collection
//   - NullCache: caching disabled (tests, --refresh)
//
// Keys are produced by a Keyer so every component derives them the same
// way; ScopedKeyer adds a namespace prefix for multi-tenant servers.
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached payloads.
const (
	// TTLRegion applies to per-region allocation results. Tower sets
	// change rarely; the content hash invalidates stale entries anyway.
	TTLRegion = 30 * 24 * time.Hour

	// TTLGraph applies to exported adjacency graphs.
	TTLGraph = 7 * 24 * time.Hour
)

// Cache stores opaque byte payloads under string keys with per-entry TTL.
//
// Implementations must be safe for concurrent use; region workers share
// one cache.
type Cache interface {
	// Get returns the payload for key, whether it was present, and any
	// backend error. An expired or missing entry is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the payload under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RegionKeyOpts are the pipeline options that affect a region's allocation
// and therefore participate in its cache key.
type RegionKeyOpts struct {
	ThresholdKm float64
	TargetMax   int
}

// Keyer derives cache keys so that every component (CLI, API, workers)
// computes them identically.
type Keyer interface {
	// RegionKey derives the key for a region allocation from the content
	// hash of the region's nodes and the options that shape the result.
	RegionKey(nodesHash string, opts RegionKeyOpts) string

	// GraphKey derives the key for an exported adjacency graph.
	GraphKey(nodesHash string, thresholdKm float64) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// RegionKey generates a key for region allocation caching.
func (k *DefaultKeyer) RegionKey(nodesHash string, opts RegionKeyOpts) string {
	return hashKey("region", nodesHash, opts.ThresholdKm, opts.TargetMax)
}

// GraphKey generates a key for adjacency graph caching.
func (k *DefaultKeyer) GraphKey(nodesHash string, thresholdKm float64) string {
	return hashKey("graph", nodesHash, thresholdKm)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Useful when several deployments share one Redis or MongoDB instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RegionKey generates a prefixed key for region allocation caching.
func (k *ScopedKeyer) RegionKey(nodesHash string, opts RegionKeyOpts) string {
	return k.prefix + k.inner.RegionKey(nodesHash, opts)
}

// GraphKey generates a prefixed key for adjacency graph caching.
func (k *ScopedKeyer) GraphKey(nodesHash string, thresholdKm float64) string {
	return k.prefix + k.inner.GraphKey(nodesHash, thresholdKm)
}
