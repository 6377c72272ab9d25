package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/geom"
)

// Distance computes pairwise diagram distances. Fit stores the reference
// collection and metric parameters; Transform computes the matrix of the
// given collection against the reference, entry (i, j) aggregating the
// per-dimension kernel values by the configured p-norm.
type Distance struct {
	cfg    Config
	fitted *state
}

func NewDistance(cfg Config) *Distance {
	return &Distance{cfg: cfg}
}

func (e *Distance) Fit(_ context.Context, c diagram.Collection) error {
	st, err := fitState(e.cfg, c)
	if err != nil {
		return err
	}
	e.fitted = st
	return nil
}

// Dims returns the fitted homology dimensions.
func (e *Distance) Dims() []int {
	if e.fitted == nil {
		return nil
	}
	return e.fitted.dims
}

// Transform returns the len(c) x len(reference) distance matrix. Rows are
// computed in parallel; every cell has a fixed destination so assembly is
// deterministic regardless of completion order.
func (e *Distance) Transform(ctx context.Context, c diagram.Collection) (*mat.Dense, error) {
	if e.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := e.fitted.checkDims(c); err != nil {
		return nil, err
	}

	rows, cols := len(c), len(e.fitted.ref)
	out := mat.NewDense(rows, cols, nil)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers())
	for i := 0; i < rows; i++ {
		i := i
		g.Go(func() error {
			for j := 0; j < cols; j++ {
				v, err := e.cell(c[i], e.fitted.ref[j])
				if err != nil {
					return err
				}
				out.Set(i, j, v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FitTransform fits on c and returns its symmetric pairwise matrix, computing
// only the upper triangle and mirroring.
func (e *Distance) FitTransform(ctx context.Context, c diagram.Collection) (*mat.Dense, error) {
	if err := e.Fit(ctx, c); err != nil {
		return nil, err
	}

	n := len(c)
	out := mat.NewDense(n, n, nil)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				v, err := e.cell(c[i], c[j])
				if err != nil {
					return err
				}
				out.Set(i, j, v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			out.Set(i, j, out.At(j, i))
		}
	}
	return out, nil
}

func (e *Distance) cell(a, b diagram.Diagram) (float64, error) {
	vals, err := e.fitted.perDim(a, b)
	if err != nil {
		return 0, err
	}
	return geom.PNorm(vals, e.aggP())
}

func (e *Distance) aggP() float64 {
	if e.cfg.AggP >= 1 {
		return e.cfg.AggP
	}
	return 2
}
