package features

import (
	"fmt"
	"math"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/pkg/pqueue"
	"github.com/go-tda/tda/pkg/rworker"
)

// Landscape samples persistence landscapes on the fitted grid: every point
// contributes a tent function peaking at ((birth+death)/2, (death-birth)/2)
// and zero outside [birth, death]; layer k holds the k-th largest tent value
// at each grid sample. Layers are emitted layer-major in a single row of
// length layers*resolution per (sample, dimension).
type Landscape struct {
	cfg    Config
	fitted *landscapeState
}

type landscapeState struct {
	dims       []int
	resolution int
	layers     int
	grids      map[int]Grid
}

func NewLandscape(cfg Config) *Landscape {
	return &Landscape{cfg: cfg}
}

func (l *Landscape) Fit(c diagram.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dims := c.Dims()
	layers := l.cfg.Layers
	if layers < 1 {
		layers = 1
	}
	l.fitted = &landscapeState{
		dims:       dims,
		resolution: l.cfg.Resolution,
		layers:     layers,
		grids:      fitGrids(c, dims, l.cfg.Resolution),
	}
	return nil
}

func (l *Landscape) Dims() []int {
	if l.fitted == nil {
		return nil
	}
	return l.fitted.dims
}

func tent(p diagram.Point, t float64) float64 {
	return math.Max(0, math.Min(t-p.Birth, p.Death-t))
}

// EvalDim samples all layers of one diagram restricted to dim.
func (l *Landscape) EvalDim(dim int, d diagram.Diagram) ([]float64, error) {
	if l.fitted == nil {
		return nil, ErrNotFitted
	}
	grid, ok := l.fitted.grids[dim]
	if !ok {
		grid = Grid{Resolution: l.fitted.resolution}
	}
	layers := l.fitted.layers
	ts := grid.Values()
	out := make([]float64, layers*len(ts))

	top := pqueue.New(pqueue.WithOrderDesc(), pqueue.WithCap(uint(layers)))
	for i, t := range ts {
		top.Reset()
		for _, p := range d {
			if p.Dim != dim || p.IsDiagonal() {
				continue
			}
			if v := tent(p, t); v > 0 {
				top.Push(v)
			}
		}
		for k := 0; k < layers; k++ {
			out[k*len(ts)+i] = top.Seek(k, 0)
		}
	}
	return out, nil
}

// Transform returns landscapes shaped samples x dims x (layers*resolution).
func (l *Landscape) Transform(c diagram.Collection) ([][][]float64, error) {
	if l.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([][][]float64, len(c))
	err := rworker.Each(l.cfg.workers(), len(c), func(i int) error {
		rows := make([][]float64, len(l.fitted.dims))
		for k, q := range l.fitted.dims {
			row, err := l.EvalDim(q, c[i])
			if err != nil {
				return err
			}
			rows[k] = row
		}
		out[i] = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Landscape) State() map[string]string {
	if l.fitted == nil {
		return nil
	}
	state := map[string]string{
		"dims":       encodeDims(l.fitted.dims),
		"resolution": encodeInt(l.fitted.resolution),
		"layers":     encodeInt(l.fitted.layers),
	}
	encodeGrids(state, l.fitted.grids)
	return state
}

// Restore rebuilds the fitted state entirely from the persisted mapping; the
// constructor config never overrides persisted grid parameters.
func (l *Landscape) Restore(state map[string]string) error {
	dims, err := decodeDims(state["dims"])
	if err != nil {
		return err
	}
	resolution, err := decodeInt(state["resolution"])
	if err != nil {
		return fmt.Errorf("features: bad resolution state: %w", err)
	}
	layers, err := decodeInt(state["layers"])
	if err != nil {
		return fmt.Errorf("features: bad layers state: %w", err)
	}
	grids, err := decodeGrids(state, dims, resolution)
	if err != nil {
		return err
	}
	l.fitted = &landscapeState{dims: dims, resolution: resolution, layers: layers, grids: grids}
	return nil
}
