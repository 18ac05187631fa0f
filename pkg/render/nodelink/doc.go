// Package nodelink renders the prev/next structure of a linked-list
// allocator as a node-link diagram.
//
// # Usage
//
// Build the adjacency graph with the layout package, convert it to DOT, then
// render to SVG:
//
//	g, err := layout.AdjacencyGraph(list)
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// Each block is a plaintext node whose label is an HTML table with five
// cells: prev, base, size, type and next. The prev and next cells are the
// ports links leave from; edges carry a dot at their tail. The graph is laid
// out left to right.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
