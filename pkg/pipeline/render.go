package pipeline

import (
	"context"
	"fmt"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/palette"
	"github.com/phallocators/allocviz/pkg/render/nodelink"
	"github.com/phallocators/allocviz/pkg/render/sink"
)

// Render generates diagram artifacts in the requested formats. g, when not
// nil, is embedded in JSON output.
func Render(d layout.Diagram, g *layout.Graph, pal palette.Palette, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(d, pal, svgOptions(opts)...)
		case FormatPNG:
			data, err = sink.RenderPNG(d, pal, pngOptions(opts)...)
		case FormatPDF:
			data, err = sink.RenderPDF(d, pal, sink.WithPDFSVGOptions(svgOptions(opts)...))
		case FormatJSON:
			var jsonOpts []sink.JSONOption
			if g != nil {
				jsonOpts = append(jsonOpts, sink.WithJSONGraph(*g))
			}
			data, err = sink.RenderJSON(d, pal, jsonOpts...)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Title != "" {
		out = append(out, sink.WithTitle(opts.Title))
	}
	if opts.Transparent {
		out = append(out, sink.WithoutBackground())
	}
	return out
}

func pngOptions(opts Options) []sink.PNGOption {
	out := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.Transparent {
		out = append(out, sink.WithTransparentPNG())
	}
	return out
}

// RenderGraph generates adjacency diagram artifacts in opts.GraphFormats,
// keyed by GraphArtifact(format).
func RenderGraph(ctx context.Context, g layout.Graph, pal palette.Palette, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(g, nodelink.Options{Colored: opts.GraphColored, Palette: &pal})

	artifacts := make(map[string][]byte, len(opts.GraphFormats))
	for _, format := range opts.GraphFormats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			return nil, ValidateGraphFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render graph %s: %w", format, err)
		}
		artifacts[GraphArtifact(format)] = data
	}
	return artifacts, nil
}
