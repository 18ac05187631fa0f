// Package cache stores rendered diagrams and adjacency graphs.
//
// # Backends
//
//   - [FileCache]: sharded JSON files under a directory, used by the CLI
//   - [RedisCache]: a Redis server shared by HTTP server instances
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from the SHA-256 of the input snapshot plus the
// options that change the output. [ScopedKeyer] prefixes every key so
// several deployments can share one Redis.
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(input), cache.ArtifactKeyOpts{Kind: "bitmap", Format: "svg"})
package cache
