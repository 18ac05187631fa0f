package layout

import "github.com/phallocators/allocviz/pkg/model"

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Primitive is one drawing instruction. It is implemented by [Rect] and
// [Polygon] only.
type Primitive interface {
	// FillState returns the state whose palette color fills the primitive.
	FillState() model.State
	primitive()
}

// Rect is a filled axis-aligned rectangle.
type Rect struct {
	X, Y, W, H int
	Fill       model.State
}

func (r Rect) FillState() model.State { return r.Fill }
func (Rect) primitive()                {}

// Polygon is a filled closed polygon.
type Polygon struct {
	Points []Point
	Fill   model.State
}

func (p Polygon) FillState() model.State { return p.Fill }
func (Polygon) primitive()                {}

// Diagram is the output of a grid layout: the geometry that produced it and
// the primitives in drawing order.
type Diagram struct {
	Kind       model.Kind
	Geometry   Geometry
	Primitives []Primitive
}

// Rects returns the rectangles of d in drawing order.
func (d Diagram) Rects() []Rect {
	var out []Rect
	for _, p := range d.Primitives {
		if r, ok := p.(Rect); ok {
			out = append(out, r)
		}
	}
	return out
}

// Polygons returns the polygons of d in drawing order.
func (d Diagram) Polygons() []Polygon {
	var out []Polygon
	for _, p := range d.Primitives {
		if pg, ok := p.(Polygon); ok {
			out = append(out, pg)
		}
	}
	return out
}
