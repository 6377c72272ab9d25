package preprocess

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/engine"
	"github.com/go-tda/tda/internal/logging"
	"github.com/go-tda/tda/pkg/math/vector"
)

// ReduceFn folds the per-sample amplitudes of the reference collection into
// a single scale factor.
type ReduceFn func(vector.V) float64

type ScalerOption func(*Scaler)

// WithReducer overrides the default max reducer.
func WithReducer(fn ReduceFn) ScalerOption {
	return func(s *Scaler) {
		s.reduce = fn
	}
}

// Scaler rescales diagram coordinates by a factor fitted from reference
// amplitudes under a configured metric. A zero fitted factor degenerates to
// the identity transform instead of dividing by zero.
type Scaler struct {
	cfg    engine.Config
	reduce ReduceFn
	fitted *scalerState
}

type scalerState struct {
	factor float64
}

func NewScaler(cfg engine.Config, opts ...ScalerOption) *Scaler {
	s := &Scaler{cfg: cfg, reduce: vector.V.Max}
	for _, f := range opts {
		f(s)
	}
	return s
}

func (s *Scaler) Fit(ctx context.Context, c diagram.Collection) error {
	amp := engine.NewAmplitude(s.cfg)
	if err := amp.Fit(ctx, c); err != nil {
		return err
	}
	amps, err := amp.Transform(ctx, c)
	if err != nil {
		return err
	}
	factor := s.reduce(amps)
	if factor == 0 {
		// All reference diagrams are trivial under this metric; scaling is
		// skipped rather than propagating non-finite values.
		logging.FromContext(ctx).Debugf("scaler: degenerate zero factor under %s, falling back to identity", s.cfg.Metric)
	}
	s.fitted = &scalerState{factor: factor}
	return nil
}

// Factor returns the fitted scale factor.
func (s *Scaler) Factor() (float64, error) {
	if s.fitted == nil {
		return 0, ErrNotFitted
	}
	return s.fitted.factor, nil
}

// Transform divides every birth and death uniformly by the fitted factor.
// Dimension labels and point order are untouched; the result is a fresh
// collection owned by the caller.
func (s *Scaler) Transform(c diagram.Collection) (diagram.Collection, error) {
	if s.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	factor := s.fitted.factor
	if factor == 0 {
		factor = 1
	}
	out := make(diagram.Collection, len(c))
	for i, d := range c {
		scaled := make(diagram.Diagram, len(d))
		for j, p := range d {
			scaled[j] = diagram.Point{Birth: p.Birth / factor, Death: p.Death / factor, Dim: p.Dim}
		}
		out[i] = scaled
	}
	return out, nil
}

func (s *Scaler) State() map[string]string {
	if s.fitted == nil {
		return nil
	}
	return map[string]string{"factor": strconv.FormatFloat(s.fitted.factor, 'g', -1, 64)}
}

func (s *Scaler) Restore(state map[string]string) error {
	factor, err := strconv.ParseFloat(state["factor"], 64)
	if err != nil {
		return fmt.Errorf("preprocess: bad factor state: %w", err)
	}
	s.fitted = &scalerState{factor: factor}
	return nil
}
