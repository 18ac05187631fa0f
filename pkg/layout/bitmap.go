package layout

import (
	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
)

// Bitmap lays out a flat bitmap snapshot: one cell per unit, row-major. Grid
// cells past MemSize are emitted with [model.StateEmpty], so the output
// always contains exactly GridWidth*GridHeight rectangles.
func Bitmap(in model.Bitmap, cfg Config) (Diagram, error) {
	if err := cfg.Validate(); err != nil {
		return Diagram{}, err
	}
	if err := validateBitmap(in, cfg); err != nil {
		return Diagram{}, err
	}

	geo, err := Dimension(in.MemSize, 1, cfg)
	if err != nil {
		return Diagram{}, err
	}
	d := Diagram{Kind: model.KindBitmap, Geometry: geo}
	if geo.Empty() {
		return d, nil
	}

	p := cfg.pitch()
	d.Primitives = make([]Primitive, 0, geo.Cells())
	for i := 0; i < geo.Cells(); i++ {
		bx, by := i%geo.GridWidth, i/geo.GridWidth
		fill := model.StateEmpty
		if i < in.MemSize {
			fill = in.States[i]
		}
		d.Primitives = append(d.Primitives, Rect{
			X:    cfg.Padding.Left + bx*p.W,
			Y:    cfg.Padding.Top + by*p.H,
			W:    cfg.Block.W,
			H:    cfg.Block.H,
			Fill: fill,
		})
	}
	return d, nil
}

func validateBitmap(in model.Bitmap, cfg Config) error {
	if in.MemSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "memory size %d is negative", in.MemSize)
	}
	if len(in.States) != in.MemSize {
		return errors.New(errors.ErrCodeInvalidInput, "bitmap has %d tags, want memSize=%d", len(in.States), in.MemSize)
	}
	if err := checkStates(in.States, ""); err != nil {
		return err
	}
	return cfg.Palette.Check(in.States)
}

// checkStates rejects the first tag outside the closed state set.
func checkStates(states []model.State, where string) error {
	for i, s := range states {
		if !s.Valid() {
			return errors.New(errors.ErrCodeInvalidState, "%sunit %d: unknown state tag %d", where, i, int(s))
		}
	}
	return nil
}
