package layout

import (
	"fmt"
	"math"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
)

// WidthMul returns how many grid columns one entry of layer spans in a
// snapshot with the given number of layers.
func WidthMul(layer, layers int, coarsestFirst bool) int {
	if coarsestFirst {
		return 1 << (layers - 1 - layer)
	}
	return 1 << layer
}

// Buddy lays out a buddy snapshot. Each grid row becomes a group of
// len(Layers) stacked rows, one per layer, followed by InterGroupPad pixels.
// An entry of layer L spans WidthMul(L) columns.
//
// Layers are emitted in ascending order and entries in ascending index order.
func Buddy(in model.Buddy, cfg Config) (Diagram, error) {
	if err := cfg.Validate(); err != nil {
		return Diagram{}, err
	}
	if err := validateBuddy(in, cfg); err != nil {
		return Diagram{}, err
	}

	layers := len(in.Layers)
	geo, err := Dimension(in.MemSize(), layers, cfg)
	if err != nil {
		return Diagram{}, err
	}
	d := Diagram{Kind: model.KindBuddy, Geometry: geo}
	if geo.Empty() {
		return d, nil
	}

	p := cfg.pitch()
	groupH := layers*p.H + cfg.InterGroupPad
	for layer, entries := range in.Layers {
		mul := WidthMul(layer, layers, cfg.LayerZeroIsCoarsest)
		width := mul*cfg.Block.W + (mul-1)*cfg.Margin.W
		for i, s := range entries {
			bx := ((i * mul) % geo.GridWidth) / mul
			by := (i * mul) / geo.GridWidth
			d.Primitives = append(d.Primitives, Rect{
				X:    cfg.Padding.Left + bx*(width+cfg.Margin.W),
				Y:    cfg.Padding.Top + by*groupH + layer*p.H,
				W:    width,
				H:    cfg.Block.H,
				Fill: s,
			})
		}
	}
	return d, nil
}

func validateBuddy(in model.Buddy, cfg Config) error {
	if in.BlocksLayer0 < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "blocksLayer0 %d is negative", in.BlocksLayer0)
	}
	layers := len(in.Layers)
	if layers > 62 {
		return errors.New(errors.ErrCodeInvalidLayer, "%d layers exceed the addressable range", layers)
	}
	if layers > 0 && in.BlocksLayer0 > math.MaxInt>>(layers-1) {
		return errors.New(errors.ErrCodeInvalidLayer,
			"blocksLayer0=%d doubled over %d layers overflows", in.BlocksLayer0, layers)
	}
	memSize := in.MemSize()
	for layer, entries := range in.Layers {
		want := memSize / WidthMul(layer, layers, cfg.LayerZeroIsCoarsest)
		if len(entries) != want {
			return errors.New(errors.ErrCodeInvalidLayer,
				"layer %d has %d entries, want %d (blocksLayer0=%d, %d layers, layer zero coarsest=%t)",
				layer, len(entries), want, in.BlocksLayer0, layers, cfg.LayerZeroIsCoarsest)
		}
		if err := checkStates(entries, fmt.Sprintf("layer %d: ", layer)); err != nil {
			return err
		}
		if err := cfg.Palette.Check(entries); err != nil {
			return err
		}
	}
	return nil
}
