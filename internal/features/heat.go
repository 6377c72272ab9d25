package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/pkg/rworker"
)

// HeatKernel rasterizes a diagram onto a 2-D grid over the birth-death
// half-plane. Every point contributes a Gaussian of the configured bandwidth
// minus a mirrored Gaussian centered at its reflection across the diagonal,
// which pins the raster to zero on the diagonal itself.
type HeatKernel struct {
	cfg    Config
	fitted *heatState
}

type heatState struct {
	dims       []int
	resolution int
	bandwidth  float64
	grids      map[int]Grid
}

func NewHeatKernel(cfg Config) *HeatKernel {
	return &HeatKernel{cfg: cfg}
}

func (h *HeatKernel) Fit(c diagram.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dims := c.Dims()
	h.fitted = &heatState{
		dims:       dims,
		resolution: h.cfg.Resolution,
		bandwidth:  h.bandwidth(),
		grids:      fitGrids(c, dims, h.cfg.Resolution),
	}
	return nil
}

func (h *HeatKernel) Dims() []int {
	if h.fitted == nil {
		return nil
	}
	return h.fitted.dims
}

func (h *HeatKernel) bandwidth() float64 {
	if h.cfg.Bandwidth > 0 {
		return h.cfg.Bandwidth
	}
	return 1
}

// EvalDim rasterizes one diagram restricted to dim, returning the grid
// row-major: index i*resolution+j holds the value at (birth=ts[i], death=ts[j]).
func (h *HeatKernel) EvalDim(dim int, d diagram.Diagram) ([]float64, error) {
	if h.fitted == nil {
		return nil, ErrNotFitted
	}
	grid, ok := h.fitted.grids[dim]
	if !ok {
		grid = Grid{Resolution: h.fitted.resolution}
	}
	ts := grid.Values()
	res := len(ts)
	out := make([]float64, res*res)
	sigma2 := 2 * h.fitted.bandwidth * h.fitted.bandwidth

	for _, p := range d {
		if p.Dim != dim || p.IsDiagonal() {
			continue
		}
		for i, x := range ts {
			dxb := x - p.Birth
			dxd := x - p.Death
			for j, y := range ts {
				dyd := y - p.Death
				dyb := y - p.Birth
				g := math.Exp(-(dxb*dxb + dyd*dyd) / sigma2)
				mirror := math.Exp(-(dxd*dxd + dyb*dyb) / sigma2)
				out[i*res+j] += g - mirror
			}
		}
	}
	return out, nil
}

// Transform returns one resolution x resolution raster per (sample, dim).
func (h *HeatKernel) Transform(c diagram.Collection) ([][]*mat.Dense, error) {
	if h.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	res := h.fitted.resolution
	out := make([][]*mat.Dense, len(c))
	err := rworker.Each(h.cfg.workers(), len(c), func(i int) error {
		rasters := make([]*mat.Dense, len(h.fitted.dims))
		for k, q := range h.fitted.dims {
			raw, err := h.EvalDim(q, c[i])
			if err != nil {
				return err
			}
			rasters[k] = mat.NewDense(res, res, raw)
		}
		out[i] = rasters
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HeatKernel) State() map[string]string {
	if h.fitted == nil {
		return nil
	}
	state := map[string]string{
		"dims":       encodeDims(h.fitted.dims),
		"resolution": encodeInt(h.fitted.resolution),
		"bandwidth":  encodeFloat(h.fitted.bandwidth),
	}
	encodeGrids(state, h.fitted.grids)
	return state
}

// Restore rebuilds the fitted state entirely from the persisted mapping; the
// constructor config never overrides persisted grid parameters.
func (h *HeatKernel) Restore(state map[string]string) error {
	dims, err := decodeDims(state["dims"])
	if err != nil {
		return err
	}
	resolution, err := decodeInt(state["resolution"])
	if err != nil {
		return fmt.Errorf("features: bad resolution state: %w", err)
	}
	bandwidth, err := decodeFloat(state["bandwidth"])
	if err != nil {
		return fmt.Errorf("features: bad bandwidth state: %w", err)
	}
	grids, err := decodeGrids(state, dims, resolution)
	if err != nil {
		return err
	}
	h.fitted = &heatState{dims: dims, resolution: resolution, bandwidth: bandwidth, grids: grids}
	return nil
}
