package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/palette"
)

func TestSplitSpan(t *testing.T) {
	tests := []struct {
		name              string
		base, size, width int
		want              []Span
	}{
		{"straddles one boundary", 3, 5, 4, []Span{{Row: 0, Col: 3, Width: 1}, {Row: 1, Col: 0, Width: 4}}},
		{"single unit", 6, 1, 4, []Span{{Row: 1, Col: 2, Width: 1}}},
		{"exact row", 4, 4, 4, []Span{{Row: 1, Col: 0, Width: 4}}},
		{"many rows", 1, 10, 4, []Span{{Row: 0, Col: 1, Width: 3}, {Row: 1, Col: 0, Width: 4}, {Row: 2, Col: 0, Width: 3}}},
		{"zero size", 1, 0, 4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSpan(tt.base, tt.size, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSpan(%d, %d, %d) = %+v, want %+v", tt.base, tt.size, tt.width, got, tt.want)
			}
		})
	}
}

func TestSplitSpanProperties(t *testing.T) {
	for _, gw := range []int{1, 2, 4, 16} {
		for base := 0; base < 40; base++ {
			for size := 1; size < 40; size++ {
				spans := SplitSpan(base, size, gw)
				total := 0
				for i, s := range spans {
					total += s.Width
					if s.Col+s.Width > gw {
						t.Fatalf("gw=%d base=%d size=%d: span %d overflows its row: %+v", gw, base, size, i, s)
					}
					if i > 0 && (s.Col != 0 || s.Row != spans[i-1].Row+1) {
						t.Fatalf("gw=%d base=%d size=%d: span %d does not continue the previous row: %+v", gw, base, size, i, s)
					}
				}
				if total != size {
					t.Fatalf("gw=%d base=%d size=%d: widths sum to %d", gw, base, size, total)
				}

				last := spans[len(spans)-1]
				wantCol := (base + size) % gw
				if wantCol == 0 {
					wantCol = gw
				}
				if last.Col+last.Width != wantCol {
					t.Fatalf("gw=%d base=%d size=%d: last span ends at col %d, want %d", gw, base, size, last.Col+last.Width, wantCol)
				}
				row, col := EndCell(base, size, gw)
				if row != last.Row || col != wantCol {
					t.Fatalf("EndCell(%d, %d, %d) = (%d, %d), want (%d, %d)", base, size, gw, row, col, last.Row, wantCol)
				}
			}
		}
	}
}

func TestEndCellRollback(t *testing.T) {
	row, col := EndCell(3, 5, 4)
	if row != 1 || col != 4 {
		t.Errorf("EndCell(3, 5, 4) = (%d, %d), want (1, 4)", row, col)
	}
	row, col = EndCell(0, 3, 4)
	if row != 0 || col != 3 {
		t.Errorf("EndCell(0, 3, 4) = (%d, %d), want (0, 3)", row, col)
	}
}

// alternating covers [0,20) with Free and Used blocks.
func alternating() model.LinkedList {
	return model.LinkedList{Blocks: []model.Block{
		{ID: 10, Base: 0, Size: 3, Type: model.StateFree, Next: id(11)},
		{ID: 11, Base: 3, Size: 5, Type: model.StateUsed, Prev: id(10), Next: id(12)},
		{ID: 12, Base: 8, Size: 4, Type: model.StateFree, Prev: id(11), Next: id(13)},
		{ID: 13, Base: 12, Size: 8, Type: model.StateUsed, Prev: id(12)},
	}}
}

func TestRegionLayout(t *testing.T) {
	cfg := DefaultLinkedListConfig()
	d, err := Region(alternating(), cfg)
	if err != nil {
		t.Fatalf("Region() error: %v", err)
	}

	geo := d.Geometry
	if geo.MemSize != 20 || geo.GridWidth != 16 || geo.GridHeight != 2 {
		t.Fatalf("geometry = %+v, want 20 units on a 16x2 grid", geo)
	}

	// 2 background rows, 2 caps per used block, 1 + 2 spans.
	if len(d.Primitives) != 9 {
		t.Fatalf("got %d primitives, want 9", len(d.Primitives))
	}

	bg := d.Rects()[:2]
	wantBG := []Rect{
		{X: 50, Y: 150, W: 16 * 13, H: 22, Fill: model.StateEmpty},
		{X: 50, Y: 172, W: 4 * 13, H: 22, Fill: model.StateEmpty},
	}
	if !reflect.DeepEqual(bg, wantBG) {
		t.Errorf("background = %+v, want %+v", bg, wantBG)
	}

	start, ok := d.Primitives[5].(Polygon)
	if !ok {
		t.Fatalf("primitive 5 = %T, want start cap", d.Primitives[5])
	}
	wantStart := []Point{{X: 206, Y: 150}, {X: 206, Y: 170}, {X: 213, Y: 160}}
	if !reflect.DeepEqual(start.Points, wantStart) || start.Fill != model.StateUsed {
		t.Errorf("start cap = %+v, want %v", start, wantStart)
	}
	end := d.Primitives[6].(Polygon)
	wantEnd := []Point{{X: 102, Y: 172}, {X: 102, Y: 192}, {X: 95, Y: 182}}
	if !reflect.DeepEqual(end.Points, wantEnd) {
		t.Errorf("end cap = %+v, want %v", end.Points, wantEnd)
	}

	spans := []Rect{d.Primitives[7].(Rect), d.Primitives[8].(Rect)}
	wantSpans := []Rect{
		{X: 206, Y: 156, W: 4 * 13, H: 8, Fill: model.StateUsed},
		{X: 50, Y: 178, W: 4 * 13, H: 8, Fill: model.StateUsed},
	}
	if !reflect.DeepEqual(spans, wantSpans) {
		t.Errorf("spans = %+v, want %+v", spans, wantSpans)
	}
}

// TestRegionCoverage counts paint layers: one background strip under every
// unit and one region rect over each Used unit. The visible result is checked
// by TestRegionPaintsEachUnitOnce.
func TestRegionCoverage(t *testing.T) {
	cfg := DefaultLinkedListConfig()
	in := alternating()
	d, err := Region(in, cfg)
	if err != nil {
		t.Fatalf("Region() error: %v", err)
	}

	bg := backgroundCoverage(d, cfg)
	regions := Coverage(d, cfg)
	for _, b := range in.Blocks {
		for u := b.Base; u < b.End(); u++ {
			if bg[u] != 1 {
				t.Errorf("unit %d painted by %d background rows, want 1", u, bg[u])
			}
			want := 0
			if b.Type != model.StateFree {
				want = 1
			}
			if regions[u] != want {
				t.Errorf("unit %d (%s) painted by %d regions, want %d", u, b.Type, regions[u], want)
			}
		}
	}
}

func TestRegionPaintsEachUnitOnce(t *testing.T) {
	cfg := DefaultLinkedListConfig()
	cfg.MemSize = 40
	in := alternating()
	d, err := Region(in, cfg)
	if err != nil {
		t.Fatalf("Region() error: %v", err)
	}

	want := make([]model.State, cfg.MemSize)
	for u := range want {
		want[u] = model.StateEmpty
	}
	for _, b := range in.Blocks {
		if b.Type == model.StateFree {
			continue
		}
		for u := b.Base; u < b.End(); u++ {
			want[u] = b.Type
		}
	}

	got := paintedStates(d, cfg)
	for u := range got {
		switch {
		case got[u] == unpainted:
			t.Errorf("unit %d is not painted", u)
		case got[u] != want[u]:
			t.Errorf("unit %d shows %s, want %s", u, got[u], want[u])
		}
	}
}

func TestRegionMemSizeOverride(t *testing.T) {
	cfg := DefaultLinkedListConfig()
	cfg.MemSize = 64
	d, err := Region(alternating(), cfg)
	if err != nil {
		t.Fatalf("Region() error: %v", err)
	}
	if d.Geometry.MemSize != 64 {
		t.Errorf("MemSize = %d, want 64", d.Geometry.MemSize)
	}
	bg := backgroundCoverage(d, cfg)
	for u, n := range bg {
		if n != 1 {
			t.Fatalf("unit %d painted by %d background rows, want 1", u, n)
		}
	}

	cfg.MemSize = 10
	if _, err := Region(alternating(), cfg); !errors.Is(err, errors.ErrCodeInvalidBlock) {
		t.Errorf("Region() with short override error = %v, want INVALID_BLOCK", err)
	}
}

func TestRegionEmpty(t *testing.T) {
	d, err := Region(model.LinkedList{}, DefaultLinkedListConfig())
	if err != nil {
		t.Fatalf("Region() error: %v", err)
	}
	if len(d.Primitives) != 0 {
		t.Errorf("got %d primitives, want none", len(d.Primitives))
	}
}

func TestRegionErrors(t *testing.T) {
	short, err := palette.New("#000", "#111", "#a5e075")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		blocks []model.Block
		cfg    func(*Config)
		code   errors.Code
	}{
		{"zero size", []model.Block{{ID: 1, Base: 0, Size: 0}}, nil, errors.ErrCodeInvalidBlock},
		{"negative base", []model.Block{{ID: 1, Base: -2, Size: 4}}, nil, errors.ErrCodeInvalidBlock},
		{"end overflows", []model.Block{{ID: 1, Base: math.MaxInt, Size: 1, Type: model.StateUsed}}, nil, errors.ErrCodeInvalidBlock},
		{"beyond unit limit", []model.Block{{ID: 1, Base: 1 << 60, Size: 1, Type: model.StateUsed}}, nil, errors.ErrCodeInvalidInput},
		{"override beyond unit limit", []model.Block{{ID: 1, Size: 4}}, func(c *Config) { c.MemSize = MaxUnits + 1 }, errors.ErrCodeInvalidInput},
		{"unknown type", []model.Block{{ID: 1, Size: 4, Type: 5}}, nil, errors.ErrCodeInvalidState},
		{"duplicate id", []model.Block{{ID: 1, Size: 2}, {ID: 1, Base: 2, Size: 2}}, nil, errors.ErrCodeInvalidBlock},
		{"dangling next", []model.Block{{ID: 1, Size: 2, Next: id(9)}}, nil, errors.ErrCodeInvalidReference},
		{"dangling prev", []model.Block{{ID: 1, Size: 2, Prev: id(9)}}, nil, errors.ErrCodeInvalidReference},
		{
			"inconsistent links",
			[]model.Block{
				{ID: 1, Size: 2, Next: id(2)},
				{ID: 2, Base: 2, Size: 2, Prev: id(3)},
				{ID: 3, Base: 4, Size: 2},
			},
			nil, errors.ErrCodeInvalidReference,
		},
		{"overlap", []model.Block{{ID: 1, Size: 4}, {ID: 2, Base: 3, Size: 2}}, nil, errors.ErrCodeInvalidBlock},
		{"palette too short", []model.Block{{ID: 1, Size: 4, Type: model.StateUsed}}, func(c *Config) { c.Palette = short }, errors.ErrCodeInvalidPalette},
		{"bad config", []model.Block{{ID: 1, Size: 4}}, func(c *Config) { c.RegionInset = 20 }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLinkedListConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			d, err := Region(model.LinkedList{Blocks: tt.blocks}, cfg)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Region() error = %v, want code %s", err, tt.code)
			}
			if len(d.Primitives) != 0 {
				t.Errorf("got %d primitives alongside error", len(d.Primitives))
			}
		})
	}
}

func TestRegionAllowsGaps(t *testing.T) {
	in := model.LinkedList{Blocks: []model.Block{
		{ID: 1, Base: 0, Size: 2, Type: model.StateUsed},
		{ID: 2, Base: 6, Size: 2, Type: model.StateUsed},
	}}
	if _, err := Region(in, DefaultLinkedListConfig()); err != nil {
		t.Errorf("Region() error: %v", err)
	}
}
