package sink

import (
	"bytes"

	svg "github.com/ajstarks/svgo"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/palette"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title        string
	noBackground bool
}

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithoutBackground leaves the canvas transparent.
func WithoutBackground() SVGOption { return func(r *svgRenderer) { r.noBackground = true } }

// RenderSVG draws the diagram as an SVG document the size of its canvas.
func RenderSVG(d layout.Diagram, pal palette.Palette, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	geo := d.Geometry
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(geo.CanvasWidth, geo.CanvasHeight)
	if r.title != "" {
		canvas.Title(r.title)
	}
	if !r.noBackground {
		canvas.Rect(0, 0, geo.CanvasWidth, geo.CanvasHeight, fill(pal.Background))
	}

	canvas.Gid(string(d.Kind))
	for _, p := range d.Primitives {
		style := fill(pal.Color(p.FillState()))
		switch p := p.(type) {
		case layout.Rect:
			canvas.Rect(p.X, p.Y, p.W, p.H, style)
		case layout.Polygon:
			xs := make([]int, len(p.Points))
			ys := make([]int, len(p.Points))
			for i, pt := range p.Points {
				xs[i], ys[i] = pt.X, pt.Y
			}
			canvas.Polygon(xs, ys, style)
		}
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func fill(c palette.Color) string {
	return "fill:" + c.Hex()
}
