// Package cache provides pluggable caching for analysis reports.
//
// The [Cache] interface abstracts over storage backends:
//   - FileCache: on-disk cache for CLI usage (~/.cache/screenlint/)
//   - RedisCache: shared cache for server deployments
//   - NullCache: no-op cache for tests or --no-cache runs
//
// Keys are generated through a [Keyer] so that the key layout is
// consistent across CLI and server. A [ScopedKeyer] prefixes keys for
// namespace isolation when several components share one backend.
package cache

import (
	"context"
	"time"
)

// TTLReport is the default time-to-live for cached analysis reports.
// Reports are pure functions of their inputs, so the TTL exists only to
// bound disk usage, not to enforce freshness.
const TTLReport = 24 * time.Hour

// Cache is the interface for cache storage backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present (a miss is not an error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// ReportKeyOpts captures the analysis options that change report content.
// Options that only affect side artifacts (like marked-image output) are
// deliberately excluded so those runs share the cached report.
type ReportKeyOpts struct {
	DetectRegions bool `json:"detect_regions"`
}

// Keyer generates cache keys for cached artifact types.
type Keyer interface {
	// ReportKey generates a key for a full analysis report from the
	// content hashes of the hierarchy document and the screenshot.
	ReportKey(xmlHash, imageHash string, opts ReportKeyOpts) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ReportKey generates a key of the form "report:<sha256>".
func (k *DefaultKeyer) ReportKey(xmlHash, imageHash string, opts ReportKeyOpts) string {
	return hashKey("report", xmlHash, imageHash, opts)
}
