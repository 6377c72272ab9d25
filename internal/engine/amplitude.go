package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/geom"
)

var ErrNotFitted = fmt.Errorf("engine: transformer is not fitted")

// Amplitude computes per-sample distances to the empty diagram under the
// fitted metric, either aggregated across dimensions or kept per dimension.
type Amplitude struct {
	cfg    Config
	fitted *state
}

func NewAmplitude(cfg Config) *Amplitude {
	return &Amplitude{cfg: cfg}
}

func (e *Amplitude) Fit(_ context.Context, c diagram.Collection) error {
	st, err := fitState(e.cfg, c)
	if err != nil {
		return err
	}
	e.fitted = st
	return nil
}

func (e *Amplitude) Dims() []int {
	if e.fitted == nil {
		return nil
	}
	return e.fitted.dims
}

// TransformPerDim returns amplitudes shaped samples x dims.
func (e *Amplitude) TransformPerDim(ctx context.Context, c diagram.Collection) (*mat.Dense, error) {
	if e.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := e.fitted.checkDims(c); err != nil {
		return nil, err
	}

	out := mat.NewDense(len(c), len(e.fitted.dims), nil)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers())
	for i := range c {
		i := i
		g.Go(func() error {
			vals, err := e.fitted.perDim(c[i], nil)
			if err != nil {
				return err
			}
			for k, v := range vals {
				out.Set(i, k, v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Transform returns one aggregated amplitude per sample.
func (e *Amplitude) Transform(ctx context.Context, c diagram.Collection) ([]float64, error) {
	perDim, err := e.TransformPerDim(ctx, c)
	if err != nil {
		return nil, err
	}
	rows, _ := perDim.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v, err := geom.PNorm(perDim.RawRowView(i), e.aggP())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Amplitude) aggP() float64 {
	if e.cfg.AggP >= 1 {
		return e.cfg.AggP
	}
	return 2
}
