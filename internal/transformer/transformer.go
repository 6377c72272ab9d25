// Package transformer holds the capability contracts around the two-phase
// fit/transform lifecycle: Stateful marks transformers whose fitted state is
// persistable as a flat mapping, and Adapter wraps arbitrary scoring
// functions into the Transformer shape so non-diagram scorers compose into
// the same pipeline step form. The extractors and engines keep their own
// concretely-typed Transform signatures and participate through Stateful.
package transformer

import (
	"fmt"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/features"
	"github.com/go-tda/tda/internal/preprocess"
)

var ErrNilScoreFn = fmt.Errorf("transformer: score function is nil")

// Transformer is the type-erased pipeline step shape produced by Adapter.
type Transformer interface {
	Fit(c diagram.Collection) error
	Transform(c diagram.Collection) (interface{}, error)
}

// Stateful is implemented by transformers whose fitted state is representable
// as a flat mapping of primitive values, for reproducible re-application.
type Stateful interface {
	State() map[string]string
	Restore(state map[string]string) error
}

var (
	_ Stateful = (*features.Entropy)(nil)
	_ Stateful = (*features.BettiCurve)(nil)
	_ Stateful = (*features.Landscape)(nil)
	_ Stateful = (*features.HeatKernel)(nil)
	_ Stateful = (*preprocess.Stacking)(nil)
	_ Stateful = (*preprocess.Scaler)(nil)
)

// ScoreFn is any single-argument scoring capability over a collection.
type ScoreFn func(c diagram.Collection) (interface{}, error)

// Adapter wraps a stored scoring function as a Transformer so non-diagram
// scoring methods compose into the same pipeline shape. Fit only validates
// the input.
type Adapter struct {
	fn ScoreFn
}

var _ Transformer = (*Adapter)(nil)

func NewAdapter(fn ScoreFn) (*Adapter, error) {
	if fn == nil {
		return nil, ErrNilScoreFn
	}
	return &Adapter{fn: fn}, nil
}

func (a *Adapter) Fit(c diagram.Collection) error {
	return c.Validate()
}

func (a *Adapter) Transform(c diagram.Collection) (interface{}, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return a.fn(c)
}

// FitTransform runs Fit then Transform on the same collection.
func (a *Adapter) FitTransform(c diagram.Collection) (interface{}, error) {
	if err := a.Fit(c); err != nil {
		return nil, err
	}
	return a.Transform(c)
}
