package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/palette"
	"github.com/phallocators/allocviz/pkg/render"
)

// Options configures adjacency diagram rendering.
type Options struct {
	// Colored fills the type cell of every record with the palette color of
	// the block state. When false, records are drawn in black and white.
	Colored bool

	// Palette supplies the fill colors when Colored is set. The zero value
	// means palette.Default().
	Palette *palette.Palette
}

// ToDOT converts an adjacency graph to Graphviz DOT format. Every block
// becomes a record with prev, base, size, type and next cells; every link
// leaves its block from the matching port.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g layout.Graph, opts Options) string {
	pal := palette.Default()
	if opts.Palette != nil {
		pal = *opts.Palette
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  rank=same;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plaintext];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [label=<%s>];\n", nodeName(n.ID), fmtLabel(n, opts.Colored, pal))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q:%s -> %q [arrowtail=dot, dir=forward];\n", nodeName(e.From), e.FromPort, nodeName(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id uint64) string { return strconv.FormatUint(id, 10) }

func fmtLabel(n layout.GraphNode, colored bool, pal palette.Palette) string {
	typeAttr := ""
	if colored && pal.Covers(n.Type) {
		typeAttr = fmt.Sprintf(` bgcolor="%s"`, pal.Color(n.Type).Hex())
	}

	var b bytes.Buffer
	b.WriteString(`<table border="0" cellspacing="0" cellborder="1"><tr>`)
	fmt.Fprintf(&b, `<td port="%s" width="28" height="36" fixedsize="true"></td>`, layout.PortPrev)
	fmt.Fprintf(&b, `<td port="base" width="28" height="36">%d</td>`, n.Base)
	fmt.Fprintf(&b, `<td port="size" width="28" height="36">%d</td>`, n.Size)
	fmt.Fprintf(&b, `<td port="type" width="28" height="36"%s>%s</td>`, typeAttr, html.EscapeString(n.Type.String()))
	fmt.Fprintf(&b, `<td port="%s" width="28" height="36" fixedsize="true"></td>`, layout.PortNext)
	b.WriteString(`</tr></table>`)
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which sizes itself
// in points, with one sized in pixels from the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
