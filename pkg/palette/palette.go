// Package palette maps allocator states to colors.
//
// A [Palette] has one color per input state plus two explicit entries that
// are not part of the state set: Background, painted behind the whole
// canvas, and Empty, used for grid cells past the end of memory and for
// unallocated linked-list space. Colors are parsed from hex strings with
// [ParseHex] and carried as [github.com/lucasb-eyer/go-colorful] values.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	colorful.Color
}

// RGB builds a Color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}}
}

// Palette resolves states to colors.
type Palette struct {
	Background Color
	Empty      Color
	States     []Color // indexed by model.State
}

// Default colors used by the allocator visualizers.
const (
	DefaultBackground = "#23272e"
	DefaultEmpty      = "#1a1a1a"
)

// DefaultStates are the colors for Free, Used and Marked.
var DefaultStates = []string{"#a5e075", "#f14c4c", "#61afef"}

// Default returns the standard palette.
func Default() Palette {
	p, err := New(DefaultBackground, DefaultEmpty, DefaultStates...)
	if err != nil {
		panic(err) // constants above are valid
	}
	return p
}

// New builds a palette from hex strings. It returns an INVALID_COLOR error
// naming the first malformed entry.
func New(background, empty string, states ...string) (Palette, error) {
	bg, err := ParseHex(background)
	if err != nil {
		return Palette{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "background")
	}
	em, err := ParseHex(empty)
	if err != nil {
		return Palette{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "empty")
	}
	p := Palette{Background: bg, Empty: em, States: make([]Color, len(states))}
	for i, s := range states {
		c, err := ParseHex(s)
		if err != nil {
			return Palette{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "state %d", i)
		}
		p.States[i] = c
	}
	return p, nil
}

// Covers reports whether the palette has a color for s.
// StateEmpty is always covered.
func (p Palette) Covers(s model.State) bool {
	if s == model.StateEmpty {
		return true
	}
	return s >= 0 && int(s) < len(p.States)
}

// Color returns the color for s. States the palette does not cover fall back
// to Empty; layouts reject such states before they reach a renderer.
func (p Palette) Color(s model.State) Color {
	if s == model.StateEmpty || !p.Covers(s) {
		return p.Empty
	}
	return p.States[s]
}

// Check returns an INVALID_PALETTE error for the first state in use that the
// palette has no color for.
func (p Palette) Check(states []model.State) error {
	for i, s := range states {
		if !p.Covers(s) {
			return errors.New(errors.ErrCodeInvalidPalette,
				"no palette color for state %d (used at index %d; palette has %d state colors)", int(s), i, len(p.States))
		}
	}
	return nil
}

// Hex returns the palette as hex strings, in background, empty, states order.
func (p Palette) Hex() (background, empty string, states []string) {
	states = make([]string, len(p.States))
	for i, c := range p.States {
		states[i] = c.Hex()
	}
	return p.Background.Hex(), p.Empty.Hex(), states
}
