package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/palette"
	"github.com/phallocators/allocviz/pkg/render"
)

func bitmapDiagram(t *testing.T) layout.Diagram {
	t.Helper()
	d, err := layout.Bitmap(model.Bitmap{MemSize: 5, States: []model.State{0, 1, 2, 0, 1}}, layout.DefaultBitmapConfig())
	if err != nil {
		t.Fatalf("layout.Bitmap() error: %v", err)
	}
	return d
}

func regionDiagram(t *testing.T) layout.Diagram {
	t.Helper()
	in := model.LinkedList{Blocks: []model.Block{
		{ID: 1, Base: 0, Size: 3, Type: model.StateUsed},
		{ID: 2, Base: 3, Size: 5, Type: model.StateFree},
	}}
	d, err := layout.Region(in, layout.DefaultLinkedListConfig())
	if err != nil {
		t.Fatalf("layout.Region() error: %v", err)
	}
	return d
}

func TestRenderSVG(t *testing.T) {
	d := bitmapDiagram(t)
	out := string(RenderSVG(d, palette.Default(), WithTitle("bitmap")))

	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Errorf("RenderSVG() output does not start with an XML declaration")
	}
	if !strings.Contains(out, `width="130" height="266"`) {
		t.Errorf("RenderSVG() canvas size missing:\n%s", out)
	}
	if !strings.Contains(out, "<title>bitmap</title>") {
		t.Error("RenderSVG() missing title")
	}
	// background + 6 cells
	if n := strings.Count(out, "<rect "); n != 7 {
		t.Errorf("RenderSVG() has %d rects, want 7", n)
	}
	for _, want := range []string{"fill:#23272e", "fill:#a5e075", "fill:#f14c4c", "fill:#61afef", "fill:#1a1a1a"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestRenderSVGWithoutBackground(t *testing.T) {
	out := string(RenderSVG(bitmapDiagram(t), palette.Default(), WithoutBackground()))
	if strings.Contains(out, "fill:#23272e") {
		t.Error("RenderSVG() painted the background")
	}
}

func TestRenderSVGPolygons(t *testing.T) {
	out := string(RenderSVG(regionDiagram(t), palette.Default()))
	if n := strings.Count(out, "<polygon "); n != 2 {
		t.Errorf("RenderSVG() has %d polygons, want 2", n)
	}
}

func TestRenderPNG(t *testing.T) {
	d := bitmapDiagram(t)
	data, err := RenderPNG(d, palette.Default(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 130 || b.Dy() != 266 {
		t.Fatalf("bounds = %v, want 130x266", b)
	}

	tests := []struct {
		x, y    int
		r, g, b uint8
	}{
		{2, 2, 0x23, 0x27, 0x2e},    // background
		{56, 160, 0xa5, 0xe0, 0x75}, // cell 0 Free
		{71, 160, 0xf1, 0x4c, 0x4c}, // cell 1 Used
		{56, 182, 0x61, 0xaf, 0xef}, // cell 2 Marked
		{71, 182, 0xa5, 0xe0, 0x75}, // cell 3 Free
		{71, 204, 0x1a, 0x1a, 0x1a}, // cell 5 Empty
	}
	for _, tt := range tests {
		r, g, b, _ := img.At(tt.x, tt.y).RGBA()
		if uint8(r>>8) != tt.r || uint8(g>>8) != tt.g || uint8(b>>8) != tt.b {
			t.Errorf("pixel (%d,%d) = #%02x%02x%02x, want #%02x%02x%02x",
				tt.x, tt.y, r>>8, g>>8, b>>8, tt.r, tt.g, tt.b)
		}
	}
}

func TestRenderPNGTransparent(t *testing.T) {
	data, err := RenderPNG(bitmapDiagram(t), palette.Default(), WithScale(1), WithTransparentPNG())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if _, _, _, a := img.At(2, 2).RGBA(); a != 0 {
		t.Errorf("padding alpha = %d, want 0", a)
	}
	if _, _, _, a := img.At(56, 160).RGBA(); a == 0 {
		t.Error("cell 0 should still be painted")
	}
}

func TestRenderPNGScale(t *testing.T) {
	data, err := RenderPNG(bitmapDiagram(t), palette.Default())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.DecodeConfig() error: %v", err)
	}
	if cfg.Width != 260 || cfg.Height != 532 {
		t.Errorf("size = %dx%d, want 260x532 at the default 2x scale", cfg.Width, cfg.Height)
	}

	if _, err := RenderPNG(bitmapDiagram(t), palette.Default(), WithScale(0)); err == nil {
		t.Error("RenderPNG() with zero scale = nil error")
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := RenderPDF(regionDiagram(t), palette.Default())
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("RenderPDF() output is not a PDF")
	}
}

func TestRenderJSON(t *testing.T) {
	d := regionDiagram(t)
	g := layout.Graph{Nodes: []layout.GraphNode{{ID: 1, Size: 3, Type: model.StateUsed}}}
	data, err := RenderJSON(d, palette.Default(), WithJSONGraph(g))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Kind != "linkedlist" {
		t.Errorf("Kind = %q, want linkedlist", out.Kind)
	}
	if out.Geometry != d.Geometry {
		t.Errorf("Geometry = %+v, want %+v", out.Geometry, d.Geometry)
	}
	if len(out.Primitives) != len(d.Primitives) {
		t.Fatalf("Primitives count = %d, want %d", len(out.Primitives), len(d.Primitives))
	}

	first := out.Primitives[0]
	if first.Type != "rect" || first.State != "Empty" || first.Fill != "#1a1a1a" {
		t.Errorf("first primitive = %+v, want Empty background rect", first)
	}
	startCap := out.Primitives[1]
	if startCap.Type != "polygon" || len(startCap.Points) != 3 || startCap.Fill != "#f14c4c" {
		t.Errorf("second primitive = %+v, want Used start cap", startCap)
	}
	if out.Graph == nil || len(out.Graph.Nodes) != 1 {
		t.Errorf("Graph = %+v, want embedded graph", out.Graph)
	}
}
