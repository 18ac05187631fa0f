package cache

import (
	"context"
	"time"
)

// NullCache misses on every Get and drops every Set. The CLI falls back to
// it for --no-cache, for the "none" backend, and when no cache directory can
// be resolved; the pipeline uses it when given a nil cache.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a NullCache as a Cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
