// Package pipeline provides the decode → layout → render pipeline used by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: Parse an allocator dump and detect its kind
//  2. Layout: Compute drawing primitives with the layout engine
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON), and
//     optionally the adjacency diagram of a linked-list snapshot
//
// Rendered artifacts are cached by the hash of the input and the options
// that change them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   data,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phallocators/allocviz/pkg/cache"
	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/model"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultScale is the default PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported diagram formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidGraphFormats is the set of supported adjacency diagram formats.
var ValidGraphFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// GraphArtifact returns the artifact name of an adjacency diagram format.
func GraphArtifact(format string) string { return "graph." + format }

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input is the raw allocator dump.
	Input []byte `json:"-"`

	// Kind forces the snapshot kind. Empty means detect from content.
	Kind model.Kind `json:"kind,omitempty"`

	// Layouts holds the layout configuration per kind. The zero value means
	// layout.DefaultSet().
	Layouts *layout.Set `json:"-"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Transparent leaves the SVG, PDF and PNG canvas unpainted.
	Transparent bool `json:"transparent,omitempty"`

	// Graph renders the adjacency diagram of a linked-list snapshot in
	// GraphFormats. It is ignored for other kinds.
	Graph        bool     `json:"graph,omitempty"`
	GraphFormats []string `json:"graph_formats,omitempty"`
	GraphColored bool     `json:"graph_colored,omitempty"`

	// GraphOnly renders the adjacency diagram and nothing else. It implies
	// Graph and makes non-linked-list snapshots an INVALID_KIND error.
	GraphOnly bool `json:"graph_only,omitempty"`

	// Refresh skips cache lookups but still stores fresh results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the decoded input.
	Snapshot *model.Snapshot

	// InputHash is the content hash of the input.
	InputHash string

	// Diagram is the computed layout.
	Diagram layout.Diagram

	// Graph is the adjacency graph, set for linked-list snapshots.
	Graph *layout.Graph

	// Artifacts contains rendered outputs keyed by format. Adjacency
	// diagrams are keyed by GraphArtifact(format).
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MemSize    int
	Primitives int
	GraphNodes int
	GraphEdges int
	DecodeTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all diagram artifacts came from cache
	GraphHit  bool // Whether all adjacency diagram artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a diagram format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, formatList(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGraphFormat checks that an adjacency diagram format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid graph format: %q (must be one of: %s)", format, formatList(ValidGraphFormats))
	}
	return nil
}

func formatList(set map[string]bool) string {
	var names []string
	for f := range set {
		names = append(names, f)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// ParseFormats splits a comma-separated format list. An empty string yields
// nil so that defaults apply.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input is empty")
	}
	if o.Kind != "" && !slices.Contains(model.Kinds, o.Kind) {
		return errors.New(errors.ErrCodeInvalidKind, "unknown kind %q", o.Kind)
	}
	if o.Layouts == nil {
		set := layout.DefaultSet()
		o.Layouts = &set
	}
	if err := o.Layouts.Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale %v must be positive", o.Scale)
	}

	if o.GraphOnly {
		o.Graph = true
	}
	if o.Graph && len(o.GraphFormats) == 0 {
		o.GraphFormats = []string{FormatSVG}
	}
	for _, f := range o.GraphFormats {
		if err := ValidateGraphFormat(f); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// configHash fingerprints everything besides the input that changes the
// diagram artifacts of kind.
func (o *Options) configHash(kind model.Kind) string {
	h, err := cache.HashJSON(struct {
		Config      layout.Config `json:"config"`
		Title       string        `json:"title,omitempty"`
		Transparent bool          `json:"transparent,omitempty"`
	}{o.Layouts.For(kind), o.Title, o.Transparent})
	if err != nil {
		return fmt.Sprintf("unhashable:%v", err)
	}
	return h
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(kind model.Kind, format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Kind:       string(kind),
		Format:     format,
		ConfigHash: o.configHash(kind),
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// GraphKeyOpts returns cache key options for one adjacency diagram format.
func (o *Options) GraphKeyOpts(format string) cache.GraphKeyOpts {
	opts := cache.GraphKeyOpts{Format: format, Colored: o.GraphColored}
	if o.GraphColored {
		opts.Palette, _ = cache.HashJSON(o.Layouts.LinkedList.Palette)
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
