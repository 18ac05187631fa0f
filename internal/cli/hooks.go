package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phallocators/allocviz/pkg/observability"
)

// debugHooks logs pipeline and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

// installHooks routes pipeline and cache events to logger.
func installHooks(logger *log.Logger) {
	h := debugHooks{logger: logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnDecodeStart(_ context.Context, size int) {
	h.logger.Debug("decoding snapshot", "bytes", size)
}

func (h debugHooks) OnDecodeComplete(_ context.Context, kind string, d time.Duration, err error) {
	h.complete("decode", d, err, "kind", kind)
}

func (h debugHooks) OnLayoutStart(_ context.Context, kind string, memSize int) {
	h.logger.Debug("computing layout", "kind", kind, "mem_size", memSize)
}

func (h debugHooks) OnLayoutComplete(_ context.Context, kind string, primitives int, d time.Duration, err error) {
	h.complete("layout", d, err, "kind", kind, "primitives", primitives)
}

func (h debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.complete("render", d, err, "formats", formats)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) complete(stage string, d time.Duration, err error, keyvals ...any) {
	keyvals = append(keyvals, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(stage+" failed", append(keyvals, "error", err)...)
		return
	}
	h.logger.Debug(stage+" done", keyvals...)
}
