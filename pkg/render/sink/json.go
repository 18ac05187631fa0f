package sink

import (
	"encoding/json"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/palette"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	graph *layout.Graph
}

// WithJSONGraph embeds the adjacency graph of a linked-list snapshot.
func WithJSONGraph(g layout.Graph) JSONOption { return func(r *jsonRenderer) { r.graph = &g } }

type jsonOutput struct {
	Kind       string          `json:"kind"`
	Geometry   layout.Geometry `json:"geometry"`
	Background string          `json:"background"`
	Primitives []jsonPrimitive `json:"primitives"`
	Graph      *layout.Graph   `json:"graph,omitempty"`
}

type jsonPrimitive struct {
	Type   string   `json:"type"` // "rect" or "polygon"
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Points [][2]int `json:"points,omitempty"`
	State  string   `json:"state"`
	Fill   string   `json:"fill"`
}

// RenderJSON exports the diagram as a pretty-printed JSON document with every
// primitive's color resolved against pal. Primitives keep diagram order.
func RenderJSON(d layout.Diagram, pal palette.Palette, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Kind:       string(d.Kind),
		Geometry:   d.Geometry,
		Background: pal.Background.Hex(),
		Primitives: make([]jsonPrimitive, 0, len(d.Primitives)),
		Graph:      r.graph,
	}
	for _, p := range d.Primitives {
		jp := jsonPrimitive{
			State: p.FillState().String(),
			Fill:  pal.Color(p.FillState()).Hex(),
		}
		switch p := p.(type) {
		case layout.Rect:
			jp.Type = "rect"
			jp.X, jp.Y, jp.Width, jp.Height = p.X, p.Y, p.W, p.H
		case layout.Polygon:
			jp.Type = "polygon"
			jp.Points = make([][2]int, len(p.Points))
			for i, pt := range p.Points {
				jp.Points[i] = [2]int{pt.X, pt.Y}
			}
		}
		out.Primitives = append(out.Primitives, jp)
	}
	return json.MarshalIndent(out, "", "  ")
}
