package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries. Entries are a pure
// function of their key, so they only expire to bound disk use.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLGraph    = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKeyOpts are the inputs besides the snapshot that change a rendered
// artifact.
type ArtifactKeyOpts struct {
	Kind       string  `json:"kind"`
	Format     string  `json:"format"`
	ConfigHash string  `json:"config"`
	Scale      float64 `json:"scale,omitempty"`
}

// GraphKeyOpts are the inputs besides the snapshot that change an adjacency
// diagram.
type GraphKeyOpts struct {
	Format  string  `json:"format"`
	Colored bool    `json:"colored,omitempty"`
	Palette string  `json:"palette,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys. Different keyers let several tenants or
// environments share one backend.
type Keyer interface {
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
	GraphKey(inputHash string, opts GraphKeyOpts) string
}

// DefaultKeyer produces "kind:sha256" keys from the hashed inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns the key of a rendered artifact.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// GraphKey returns the key of a rendered adjacency diagram.
func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph", inputHash, opts)
}
