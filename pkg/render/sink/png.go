package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/palette"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale        float64
	noBackground bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithTransparentPNG leaves the canvas transparent.
func WithTransparentPNG() PNGOption {
	return func(r *pngRenderer) { r.noBackground = true }
}

// RenderPNG rasterizes the diagram in-process.
func RenderPNG(d layout.Diagram, pal palette.Palette, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("png scale %v must be positive", r.scale)
	}

	geo := d.Geometry
	w := max(int(float64(geo.CanvasWidth)*r.scale+0.5), 1)
	h := max(int(float64(geo.CanvasHeight)*r.scale+0.5), 1)
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)

	if !r.noBackground {
		dc.SetColor(pal.Background)
		dc.Clear()
	}

	for _, p := range d.Primitives {
		dc.SetColor(pal.Color(p.FillState()))
		switch p := p.(type) {
		case layout.Rect:
			dc.DrawRectangle(float64(p.X), float64(p.Y), float64(p.W), float64(p.H))
		case layout.Polygon:
			for i, pt := range p.Points {
				if i == 0 {
					dc.MoveTo(float64(pt.X), float64(pt.Y))
				} else {
					dc.LineTo(float64(pt.X), float64(pt.Y))
				}
			}
			dc.ClosePath()
		}
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
