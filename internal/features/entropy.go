package features

import (
	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/pkg/math/vector"
	"github.com/go-tda/tda/pkg/rworker"
)

// Entropy computes the persistence entropy of each (sample, dimension):
// persistences are normalized to a weight vector and its Shannon entropy is
// taken. A dimension with zero total persistence yields 0.
type Entropy struct {
	cfg    Config
	fitted *entropyState
}

type entropyState struct {
	dims []int
}

func NewEntropy(cfg Config) *Entropy {
	return &Entropy{cfg: cfg}
}

func (e *Entropy) Fit(c diagram.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	e.fitted = &entropyState{dims: c.Dims()}
	return nil
}

// Dims returns the fitted homology dimensions.
func (e *Entropy) Dims() []int {
	if e.fitted == nil {
		return nil
	}
	return e.fitted.dims
}

// EvalDim computes the entropy of one diagram restricted to dim.
func (e *Entropy) EvalDim(dim int, d diagram.Diagram) ([]float64, error) {
	if e.fitted == nil {
		return nil, ErrNotFitted
	}
	restricted := d.Restrict(dim)
	weights := make(vector.V, 0, len(restricted))
	for _, p := range restricted {
		if !p.IsDiagonal() {
			weights = append(weights, p.Persistence())
		}
	}
	return []float64{weights.Entropy()}, nil
}

// Transform returns one scalar per (sample, dimension), shaped samples x dims.
func (e *Entropy) Transform(c diagram.Collection) ([][]float64, error) {
	if e.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([][]float64, len(c))
	err := rworker.Each(e.cfg.workers(), len(c), func(i int) error {
		row := make([]float64, len(e.fitted.dims))
		for k, q := range e.fitted.dims {
			v, err := e.EvalDim(q, c[i])
			if err != nil {
				return err
			}
			row[k] = v[0]
		}
		out[i] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Entropy) State() map[string]string {
	if e.fitted == nil {
		return nil
	}
	return map[string]string{"dims": encodeDims(e.fitted.dims)}
}

func (e *Entropy) Restore(state map[string]string) error {
	dims, err := decodeDims(state["dims"])
	if err != nil {
		return err
	}
	e.fitted = &entropyState{dims: dims}
	return nil
}
