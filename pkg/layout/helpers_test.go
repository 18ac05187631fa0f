package layout

import (
	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
)

func errorsIsConfig(err error) bool { return errors.IsConfiguration(err) }

func id(v uint64) *uint64 { return &v }

// backgroundCoverage counts, per unit, how many Empty rectangles paint it.
func backgroundCoverage(d Diagram, cfg Config) []int {
	out := make([]int, d.Geometry.MemSize)
	pitchW := cfg.Block.W + cfg.Margin.W
	pitchH := cfg.Block.H + cfg.Margin.H
	for _, r := range d.Rects() {
		if r.Fill != model.StateEmpty {
			continue
		}
		row := (r.Y - cfg.Padding.Top) / pitchH
		cols := (r.W + cfg.Margin.W) / pitchW
		for c := 0; c < cols; c++ {
			if u := row*d.Geometry.GridWidth + c; u < len(out) {
				out[u]++
			}
		}
	}
	return out
}

// unpainted marks units no rectangle reaches in paintedStates.
const unpainted model.State = -100

// paintedStates returns, per unit, the fill of the last rectangle drawn over
// it, which is the color a viewer sees.
func paintedStates(d Diagram, cfg Config) []model.State {
	out := make([]model.State, d.Geometry.MemSize)
	for i := range out {
		out[i] = unpainted
	}
	pitchW := cfg.Block.W + cfg.Margin.W
	pitchH := cfg.Block.H + cfg.Margin.H
	for _, r := range d.Rects() {
		row := (r.Y - cfg.Padding.Top) / pitchH
		col := (r.X - cfg.Padding.Left) / pitchW
		cols := (r.W + cfg.Margin.W) / pitchW
		for c := col; c < col+cols; c++ {
			if u := row*d.Geometry.GridWidth + c; u >= 0 && u < len(out) {
				out[u] = r.Fill
			}
		}
	}
	return out
}
