package preprocess

import (
	"fmt"

	"github.com/go-tda/tda/internal/diagram"
)

var ErrNegativeEpsilon = fmt.Errorf("preprocess: persistence threshold must be >= 0")

type FilteringOption func(*Filtering)

// WithDimEpsilon sets a per-dimension threshold overriding the global one.
func WithDimEpsilon(dim int, epsilon float64) FilteringOption {
	return func(f *Filtering) {
		f.perDim[dim] = epsilon
	}
}

// Filtering removes every point whose persistence is strictly below the
// threshold of its dimension. A zero threshold is the identity transform.
type Filtering struct {
	epsilon float64
	perDim  map[int]float64
	fitted  bool
}

func NewFiltering(epsilon float64, opts ...FilteringOption) *Filtering {
	f := &Filtering{epsilon: epsilon, perDim: map[int]float64{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fit validates the thresholds against the dimensions present in the
// reference collection. Filtering carries no other fit-time state.
func (f *Filtering) Fit(c diagram.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if f.epsilon < 0 {
		return ErrNegativeEpsilon
	}
	present := map[int]struct{}{}
	for _, q := range c.Dims() {
		present[q] = struct{}{}
	}
	for q, eps := range f.perDim {
		if eps < 0 {
			return fmt.Errorf("%w: dim %d", ErrNegativeEpsilon, q)
		}
		if _, ok := present[q]; !ok {
			return fmt.Errorf("%w: threshold dim %d", diagram.ErrDimensionMismatch, q)
		}
	}
	f.fitted = true
	return nil
}

func (f *Filtering) threshold(dim int) float64 {
	if eps, ok := f.perDim[dim]; ok {
		return eps
	}
	return f.epsilon
}

// Transform drops sub-threshold points independently per dimension, possibly
// leaving a dimension empty for some samples.
func (f *Filtering) Transform(c diagram.Collection) (diagram.Collection, error) {
	if !f.fitted {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make(diagram.Collection, len(c))
	for i, d := range c {
		kept := make(diagram.Diagram, 0, len(d))
		for _, p := range d {
			if p.Persistence() >= f.threshold(p.Dim) {
				kept = append(kept, p)
			}
		}
		out[i] = kept
	}
	return out, nil
}
