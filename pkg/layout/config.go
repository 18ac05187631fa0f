package layout

import (
	"fmt"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/palette"
)

// Padding is the space around the grid, in pixels.
type Padding struct {
	Left, Top, Right, Bottom int
}

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// Config holds every geometric and color setting of a layout.
//
// For the region layout Block.W is the width of one unit, Block.H the row
// height and Margin.H the padding between rows.
type Config struct {
	Padding       Padding
	Block         Size
	Margin        Size
	InterGroupPad int // extra vertical space between buddy row groups

	// SizingMultiplier scales memSize before the square root that picks the
	// grid width. Larger values give wider, flatter grids.
	SizingMultiplier int

	// LayerZeroIsCoarsest selects the buddy layer convention: when true,
	// layer 0 holds the largest blocks and WidthMul(L) = 2^(layers-1-L);
	// otherwise layer 0 holds single units and WidthMul(L) = 2^L.
	LayerZeroIsCoarsest bool

	CapWidth    int // horizontal extent of region start/end caps
	RegionInset int // vertical inset of region spans inside their row

	// MemSize overrides the unit count of the region layout. Zero derives it
	// as max(base+size) over all blocks.
	MemSize int

	Palette palette.Palette
}

var defaultPadding = Padding{Left: 50, Top: 150, Right: 50, Bottom: 50}

// DefaultBitmapConfig returns the flat bitmap settings.
func DefaultBitmapConfig() Config {
	return Config{
		Padding:          defaultPadding,
		Block:            Size{W: 13, H: 20},
		Margin:           Size{W: 2, H: 2},
		SizingMultiplier: 1,
		Palette:          palette.Default(),
	}
}

// DefaultBuddyConfig returns the buddy settings. Layer 0 is the coarsest
// layer, matching the allocator dumps.
func DefaultBuddyConfig() Config {
	return Config{
		Padding:             defaultPadding,
		Block:               Size{W: 13, H: 20},
		Margin:              Size{W: 4, H: 4},
		InterGroupPad:       15,
		SizingMultiplier:    10,
		LayerZeroIsCoarsest: true,
		Palette:             palette.Default(),
	}
}

// DefaultLinkedListConfig returns the region layout settings.
func DefaultLinkedListConfig() Config {
	return Config{
		Padding:          defaultPadding,
		Block:            Size{W: 13, H: 20},
		Margin:           Size{W: 0, H: 2},
		SizingMultiplier: 10,
		CapWidth:         7,
		RegionInset:      6,
		Palette:          palette.Default(),
	}
}

// Validate reports the first invalid setting as an INVALID_CONFIG error.
func (c Config) Validate() error {
	switch {
	case c.Block.W <= 0 || c.Block.H <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "block size %dx%d must be positive", c.Block.W, c.Block.H)
	case c.Margin.W < 0 || c.Margin.H < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "margin %dx%d must not be negative", c.Margin.W, c.Margin.H)
	case c.Padding.Left < 0 || c.Padding.Top < 0 || c.Padding.Right < 0 || c.Padding.Bottom < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "padding %+v must not be negative", c.Padding)
	case c.InterGroupPad < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "inter-group padding %d must not be negative", c.InterGroupPad)
	case c.SizingMultiplier < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "sizing multiplier %d must be at least 1", c.SizingMultiplier)
	case c.CapWidth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cap width %d must not be negative", c.CapWidth)
	case c.RegionInset < 0 || 2*c.RegionInset >= c.Block.H:
		return errors.New(errors.ErrCodeInvalidConfig, "region inset %d must leave a visible span in a %dpx row", c.RegionInset, c.Block.H)
	case c.MemSize < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "memory size override %d must not be negative", c.MemSize)
	}
	return nil
}

// pitch returns the distance between the origins of adjacent cells.
func (c Config) pitch() Size {
	return Size{W: c.Block.W + c.Margin.W, H: c.Block.H + c.Margin.H}
}

// Set holds one configuration per snapshot kind.
type Set struct {
	Bitmap     Config `json:"bitmap"`
	Buddy      Config `json:"buddy"`
	LinkedList Config `json:"linkedlist"`
}

// DefaultSet returns the default configuration of every kind.
func DefaultSet() Set {
	return Set{
		Bitmap:     DefaultBitmapConfig(),
		Buddy:      DefaultBuddyConfig(),
		LinkedList: DefaultLinkedListConfig(),
	}
}

// For returns the configuration for kind. Unknown kinds get the bitmap one.
func (s Set) For(kind model.Kind) Config {
	switch kind {
	case model.KindBuddy:
		return s.Buddy
	case model.KindLinkedList:
		return s.LinkedList
	default:
		return s.Bitmap
	}
}

// Validate validates every configuration of the set.
func (s Set) Validate() error {
	for _, kc := range []struct {
		kind model.Kind
		cfg  Config
	}{{model.KindBitmap, s.Bitmap}, {model.KindBuddy, s.Buddy}, {model.KindLinkedList, s.LinkedList}} {
		if err := kc.cfg.Validate(); err != nil {
			return fmt.Errorf("%s config: %w", kc.kind, err)
		}
	}
	return nil
}
