package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phallocators/allocviz/pkg/cache"
	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP server use it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → layout → render pipeline with caching.
// Validation and configuration failures keep their errors package codes.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	result := &Result{
		InputHash: cache.Hash(opts.Input),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Decode
	decodeStart := time.Now()
	hooks.OnDecodeStart(ctx, len(opts.Input))
	snap, err := model.DecodeAs(opts.Input, opts.Kind)
	result.Stats.DecodeTime = time.Since(decodeStart)
	hooks.OnDecodeComplete(ctx, kindOf(snap), result.Stats.DecodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Snapshot = snap
	result.Stats.MemSize = snap.MemSize()

	r.Logger.Debug("decoded snapshot",
		"kind", snap.Kind,
		"mem_size", result.Stats.MemSize,
		"duration", result.Stats.DecodeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, string(snap.Kind), result.Stats.MemSize)
	d, err := Layout(snap, *opts.Layouts)
	if err == nil && snap.Kind == model.KindLinkedList {
		result.Graph, err = Graph(snap)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, string(snap.Kind), len(d.Primitives), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = d
	result.Stats.Primitives = len(d.Primitives)
	if result.Graph != nil {
		result.Stats.GraphNodes = len(result.Graph.Nodes)
		result.Stats.GraphEdges = len(result.Graph.Edges)
	}

	r.Logger.Info("computed layout",
		"kind", snap.Kind,
		"grid", fmt.Sprintf("%dx%d", d.Geometry.GridWidth, d.Geometry.GridHeight),
		"primitives", result.Stats.Primitives,
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	var (
		artifacts = make(map[string][]byte)
		renderHit bool
	)
	switch {
	case opts.GraphOnly && result.Graph == nil:
		err = errors.New(errors.ErrCodeInvalidKind, "adjacency diagrams need a linked-list snapshot, got %s", snap.Kind)
	case !opts.GraphOnly:
		artifacts, renderHit, err = r.RenderWithCacheInfo(ctx, result, opts)
	}
	if err == nil && opts.Graph {
		if result.Graph == nil {
			r.Logger.Warn("adjacency diagram needs a linked-list snapshot, skipping", "kind", snap.Kind)
		} else {
			var graphArtifacts map[string][]byte
			graphArtifacts, result.CacheInfo.GraphHit, err = r.RenderGraphWithCacheInfo(ctx, result, opts)
			for name, data := range graphArtifacts {
				artifacts[name] = data
			}
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders the diagram artifacts of a result with caching
// and reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	kind := res.Snapshot.Kind
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(res.InputHash, opts.ArtifactKeyOpts(kind, format))
	}

	if artifacts, ok := r.lookupAll(ctx, "artifact", keys, opts.Refresh); ok {
		return artifacts, true, nil
	}

	cfg := opts.Layouts.For(kind)
	rendered, err := Render(res.Diagram, res.Graph, cfg.Palette, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.store(ctx, "artifact", keys[format], data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// RenderGraphWithCacheInfo renders the adjacency diagram of a linked-list
// result with caching and reports whether all formats came from the cache.
func (r *Runner) RenderGraphWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	if res.Graph == nil {
		return nil, false, fmt.Errorf("result has no adjacency graph")
	}
	keys := make(map[string]string, len(opts.GraphFormats))
	for _, format := range opts.GraphFormats {
		keys[GraphArtifact(format)] = r.Keyer.GraphKey(res.InputHash, opts.GraphKeyOpts(format))
	}

	if artifacts, ok := r.lookupAll(ctx, "graph", keys, opts.Refresh); ok {
		return artifacts, true, nil
	}

	rendered, err := RenderGraph(ctx, *res.Graph, opts.Layouts.LinkedList.Palette, opts)
	if err != nil {
		return nil, false, err
	}
	for name, data := range rendered {
		r.store(ctx, "graph", keys[name], data, cache.TTLGraph)
	}
	return rendered, false, nil
}

// lookupAll returns the cached value of every key, or false if any misses.
func (r *Runner) lookupAll(ctx context.Context, keyType string, keys map[string]string, refresh bool) (map[string][]byte, bool) {
	if refresh {
		return nil, false
	}
	hooks := observability.Cache()
	out := make(map[string][]byte, len(keys))
	for name, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache get failed", "type", keyType, "error", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, keyType)
			return nil, false
		}
		hooks.OnCacheHit(ctx, keyType)
		out[name] = data
	}
	return out, len(out) == len(keys)
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache set failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func kindOf(s *model.Snapshot) string {
	if s == nil {
		return ""
	}
	return string(s.Kind)
}
