// Package render turns layout output into image files.
//
// # Overview
//
// The layout engine only produces primitives. This package and its
// subpackages are the rendering backends:
//
//   - Generic format conversion (SVG to PDF/PNG) in this package
//   - Grid diagrams (bitmap, buddy, region) in the [sink] subpackage
//   - Adjacency diagrams for linked lists in the [nodelink] subpackage
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). PDF output of both
// subpackages goes through them.
//
//	svg, err := sink.RenderSVG(diagram, pal)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [Available] reports whether rsvg-convert is installed so callers can fail
// early with a useful message.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the prev/next structure of a linked-list
// snapshot using Graphviz.
//
//	dot := nodelink.ToDOT(graph, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
