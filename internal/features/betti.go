package features

import (
	"fmt"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/pkg/rworker"
)

// BettiCurve samples the Betti number (count of points alive at t, meaning
// birth <= t < death) on the fitted grid of each dimension. The curve is 0
// below every birth and above every death.
type BettiCurve struct {
	cfg    Config
	fitted *bettiState
}

type bettiState struct {
	dims       []int
	resolution int
	grids      map[int]Grid
}

func NewBettiCurve(cfg Config) *BettiCurve {
	return &BettiCurve{cfg: cfg}
}

func (b *BettiCurve) Fit(c diagram.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dims := c.Dims()
	b.fitted = &bettiState{
		dims:       dims,
		resolution: b.cfg.Resolution,
		grids:      fitGrids(c, dims, b.cfg.Resolution),
	}
	return nil
}

func (b *BettiCurve) Dims() []int {
	if b.fitted == nil {
		return nil
	}
	return b.fitted.dims
}

// EvalDim samples the Betti curve of one diagram restricted to dim.
func (b *BettiCurve) EvalDim(dim int, d diagram.Diagram) ([]float64, error) {
	if b.fitted == nil {
		return nil, ErrNotFitted
	}
	grid, ok := b.fitted.grids[dim]
	if !ok {
		grid = Grid{Resolution: b.fitted.resolution}
	}
	ts := grid.Values()
	curve := make([]float64, len(ts))
	for _, p := range d {
		if p.Dim != dim || p.IsDiagonal() {
			continue
		}
		for i, t := range ts {
			if p.Birth <= t && t < p.Death {
				curve[i]++
			}
		}
	}
	return curve, nil
}

// Transform returns counts shaped samples x dims x resolution.
func (b *BettiCurve) Transform(c diagram.Collection) ([][][]float64, error) {
	if b.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([][][]float64, len(c))
	err := rworker.Each(b.cfg.workers(), len(c), func(i int) error {
		rows := make([][]float64, len(b.fitted.dims))
		for k, q := range b.fitted.dims {
			curve, err := b.EvalDim(q, c[i])
			if err != nil {
				return err
			}
			rows[k] = curve
		}
		out[i] = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BettiCurve) State() map[string]string {
	if b.fitted == nil {
		return nil
	}
	state := map[string]string{
		"dims":       encodeDims(b.fitted.dims),
		"resolution": encodeInt(b.fitted.resolution),
	}
	encodeGrids(state, b.fitted.grids)
	return state
}

// Restore rebuilds the fitted state entirely from the persisted mapping; the
// constructor config never overrides persisted grid parameters.
func (b *BettiCurve) Restore(state map[string]string) error {
	dims, err := decodeDims(state["dims"])
	if err != nil {
		return err
	}
	resolution, err := decodeInt(state["resolution"])
	if err != nil {
		return fmt.Errorf("features: bad resolution state: %w", err)
	}
	grids, err := decodeGrids(state, dims, resolution)
	if err != nil {
		return err
	}
	b.fitted = &bettiState{dims: dims, resolution: resolution, grids: grids}
	return nil
}
