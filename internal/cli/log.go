// Package cli implements the allocviz command-line interface.
//
// The CLI reads allocator snapshots, renders them through the shared
// pipeline, and manages the local artifact cache. It is built with cobra and
// logs through charmbracelet/log.
//
// # Commands
//
//   - render: draw a snapshot as SVG, PNG, PDF, or JSON
//   - graph: draw the prev/next links of a linked-list snapshot
//   - inspect: print geometry and per-state unit counts
//   - serve: expose the pipeline over HTTP
//   - cache: clear the cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage and cache lookup. Loggers are passed through
// context.Context.
//
// # Configuration
//
// Settings are read from --config or $XDG_CONFIG_HOME/allocviz/config.toml;
// flags such as --multiplier and --mem-size override the file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
