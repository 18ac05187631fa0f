package layout

import (
	"math"
	"math/bits"

	"github.com/phallocators/allocviz/pkg/errors"
)

// MaxUnits is the largest memory extent any layout accepts. Bigger snapshots
// are rejected before a single primitive is allocated.
const MaxUnits = 1 << 24

// NextPowerOfTwo returns the smallest power of two >= n, and 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// isqrt returns floor(sqrt(n)) exactly for n >= 0.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// Geometry is the grid and canvas size derived for one snapshot.
type Geometry struct {
	MemSize      int `json:"mem_size"`
	Layers       int `json:"layers"`
	GridWidth    int `json:"grid_width"`
	GridHeight   int `json:"grid_height"`
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`
}

// Cells returns the number of grid cells.
func (g Geometry) Cells() int { return g.GridWidth * g.GridHeight }

// Empty reports whether there is nothing to draw.
func (g Geometry) Empty() bool { return g.MemSize == 0 }

// Dimension derives the grid and canvas size for memSize units drawn with
// layers stacked rows per grid row (1 for everything but buddy layouts).
//
// memSize 0 yields a 1x0 grid whose canvas is just the padding. A negative
// memSize, one above [MaxUnits], or one whose product with the sizing
// multiplier overflows is an INVALID_INPUT error.
func Dimension(memSize, layers int, cfg Config) (Geometry, error) {
	if layers < 1 {
		layers = 1
	}
	mul := max(cfg.SizingMultiplier, 1)
	switch {
	case memSize < 0:
		return Geometry{}, errors.New(errors.ErrCodeInvalidInput, "memSize %d is negative", memSize)
	case memSize > math.MaxInt/mul:
		return Geometry{}, errors.New(errors.ErrCodeInvalidInput,
			"memSize %d times sizing multiplier %d overflows", memSize, mul)
	case memSize > MaxUnits:
		return Geometry{}, errors.New(errors.ErrCodeInvalidInput,
			"memSize %d exceeds the limit of %d units", memSize, MaxUnits)
	}

	w := NextPowerOfTwo(isqrt(memSize * mul))
	h := (memSize + w - 1) / w

	p := cfg.pitch()
	return Geometry{
		MemSize:      memSize,
		Layers:       layers,
		GridWidth:    w,
		GridHeight:   h,
		CanvasWidth:  cfg.Padding.Left + w*p.W + cfg.Padding.Right,
		CanvasHeight: cfg.Padding.Top + h*(layers*p.H+cfg.InterGroupPad) + cfg.Padding.Bottom,
	}, nil
}
