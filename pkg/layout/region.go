package layout

import (
	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
)

// Span is one per-row piece of a region, in grid units.
type Span struct {
	Row   int
	Col   int
	Width int
}

// SplitSpan splits the unit range [base, base+size) into one span per grid
// row it touches. The widths always sum to size.
func SplitSpan(base, size, gridWidth int) []Span {
	if size <= 0 || gridWidth <= 0 {
		return nil
	}
	spans := make([]Span, 0, 1+size/gridWidth)
	for size > 0 {
		row, col := base/gridWidth, base%gridWidth
		w := min(size, gridWidth-col)
		spans = append(spans, Span{Row: row, Col: col, Width: w})
		base += w
		size -= w
	}
	return spans
}

// EndCell returns the row and column just past the range [base, base+size).
// A range that ends flush with a row boundary reports the previous row with
// col == gridWidth rather than column 0 of the next row.
func EndCell(base, size, gridWidth int) (row, col int) {
	end := base + size
	row, col = end/gridWidth, end%gridWidth
	if col == 0 && row > 0 {
		row--
		col = gridWidth
	}
	return row, col
}

// Region lays out a linked-list snapshot. Every grid row first gets an
// Empty background strip; then every non-Free block, in input order, gets a
// start cap, an end cap and one inset rectangle per row it spans.
//
// The unit count is cfg.MemSize when set, otherwise max(base+size).
func Region(in model.LinkedList, cfg Config) (Diagram, error) {
	if err := cfg.Validate(); err != nil {
		return Diagram{}, err
	}
	if err := validateLinkedList(in, cfg.MemSize); err != nil {
		return Diagram{}, err
	}
	if err := cfg.Palette.Check(blockTypes(in)); err != nil {
		return Diagram{}, err
	}

	memSize := in.MemSize()
	if cfg.MemSize > 0 {
		memSize = cfg.MemSize
	}
	geo, err := Dimension(memSize, 1, cfg)
	if err != nil {
		return Diagram{}, err
	}
	d := Diagram{Kind: model.KindLinkedList, Geometry: geo}
	if geo.Empty() {
		return d, nil
	}

	r := regionPainter{cfg: cfg, gw: geo.GridWidth}
	for row := 0; row < geo.GridHeight; row++ {
		cols := geo.GridWidth
		if row == geo.GridHeight-1 && memSize%geo.GridWidth != 0 {
			cols = memSize % geo.GridWidth
		}
		d.Primitives = append(d.Primitives, Rect{
			X:    cfg.Padding.Left,
			Y:    r.rowY(row),
			W:    r.spanWidth(cols),
			H:    cfg.Block.H + cfg.Margin.H,
			Fill: model.StateEmpty,
		})
	}

	for _, b := range in.Blocks {
		if b.Type == model.StateFree {
			continue
		}
		d.Primitives = append(d.Primitives, r.startCap(b), r.endCap(b))
		for _, s := range SplitSpan(b.Base, b.Size, geo.GridWidth) {
			d.Primitives = append(d.Primitives, Rect{
				X:    r.colX(s.Col),
				Y:    r.rowY(s.Row) + cfg.RegionInset,
				W:    r.spanWidth(s.Width),
				H:    cfg.Block.H - 2*cfg.RegionInset,
				Fill: b.Type,
			})
		}
	}
	return d, nil
}

type regionPainter struct {
	cfg Config
	gw  int
}

func (r regionPainter) colX(col int) int {
	return r.cfg.Padding.Left + col*(r.cfg.Block.W+r.cfg.Margin.W)
}

func (r regionPainter) rowY(row int) int {
	return r.cfg.Padding.Top + row*(r.cfg.Block.H+r.cfg.Margin.H)
}

func (r regionPainter) spanWidth(cols int) int {
	return cols*(r.cfg.Block.W+r.cfg.Margin.W) - r.cfg.Margin.W
}

// startCap is the left-pointing cap: a triangle whose base sits on the left
// edge of the first cell and whose tip is CapWidth pixels to the right.
func (r regionPainter) startCap(b model.Block) Polygon {
	row, col := b.Base/r.gw, b.Base%r.gw
	x, y := r.colX(col), r.rowY(row)
	return Polygon{
		Points: []Point{
			{X: x, Y: y},
			{X: x, Y: y + r.cfg.Block.H},
			{X: x + r.cfg.CapWidth, Y: y + r.cfg.Block.H/2},
		},
		Fill: b.Type,
	}
}

// endCap mirrors startCap on the right edge of the last cell.
func (r regionPainter) endCap(b model.Block) Polygon {
	row, col := EndCell(b.Base, b.Size, r.gw)
	x, y := r.colX(col)-r.cfg.Margin.W, r.rowY(row)
	return Polygon{
		Points: []Point{
			{X: x, Y: y},
			{X: x, Y: y + r.cfg.Block.H},
			{X: x - r.cfg.CapWidth, Y: y + r.cfg.Block.H/2},
		},
		Fill: b.Type,
	}
}

func blockTypes(in model.LinkedList) []model.State {
	out := make([]model.State, len(in.Blocks))
	for i, b := range in.Blocks {
		out[i] = b.Type
	}
	return out
}

// Coverage counts, per unit, how many non-Empty rectangles of d paint it.
// d must come from [Region] or [Bitmap] with the same cfg.
func Coverage(d Diagram, cfg Config) []int {
	geo := d.Geometry
	out := make([]int, geo.MemSize)
	pitchW := cfg.Block.W + cfg.Margin.W
	pitchH := cfg.Block.H + cfg.Margin.H
	for _, p := range d.Primitives {
		rc, ok := p.(Rect)
		if !ok || rc.Fill == model.StateEmpty {
			continue
		}
		row := (rc.Y - cfg.Padding.Top) / pitchH
		col := (rc.X - cfg.Padding.Left) / pitchW
		cols := (rc.W + cfg.Margin.W) / pitchW
		for c := col; c < col+cols; c++ {
			if u := row*geo.GridWidth + c; u >= 0 && u < len(out) {
				out[u]++
			}
		}
	}
	return out
}

func errBlock(code errors.Code, b model.Block, format string, args ...any) error {
	return errors.New(code, "block %d: "+format, append([]any{b.ID}, args...)...)
}
