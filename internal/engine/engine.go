// Package engine orchestrates pairwise distance matrices and per-sample
// amplitudes over diagram collections. Engines follow the two-phase contract:
// Fit fixes the participating dimensions and any metric grid parameters from a
// reference collection, Transform computes against a possibly different
// collection using exactly those parameters.
package engine

import (
	"fmt"
	"runtime"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/features"
	"github.com/go-tda/tda/internal/metric"
)

// ErrDimensionMismatch mirrors the shared sentinel for callers that only
// import this package.
var ErrDimensionMismatch = diagram.ErrDimensionMismatch

// Contracts for returning configured engine instances.
type (
	ProvideDistanceFn  func() (*Distance, error)
	ProvideAmplitudeFn func() (*Amplitude, error)
)

type Config struct {
	// Metric kernel name: BOTTLENECK, WASSERSTEIN, LANDSCAPE, BETTI or HEAT
	Metric string `envconfig:"TDA_METRIC" default:"WASSERSTEIN"`
	// Wasserstein exponent
	P float64 `envconfig:"TDA_METRIC_P" default:"2"`
	// Feature-space norm exponent for the induced metrics
	NormP float64 `envconfig:"TDA_NORM_P" default:"2"`
	// Exponent of the norm aggregating per-dimension values
	AggP float64 `envconfig:"TDA_AGG_P" default:"2"`
	// Degree of parallelism, 0 = NumCPU
	Workers int `envconfig:"TDA_WORKERS"`

	Features features.Config
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// extractorFor maps an induced metric to its feature extractor; the metric
// names line up with the extractor registry.
func extractorFor(t metric.Type, cfg features.Config) (features.Extractor, error) {
	if !t.IsFeature() {
		return nil, fmt.Errorf("%w: no feature extractor for %s", metric.ErrUnknownMetric, t)
	}
	return features.For(string(t), cfg)
}

// state is the immutable fit product shared by both engines. It is replaced
// wholesale on refit and never mutated by Transform.
type state struct {
	metricType metric.Type
	dims       []int
	kernels    map[int]metric.Func
	ref        diagram.Collection
}

func fitState(cfg Config, c diagram.Collection) (*state, error) {
	t, err := metric.ParseType(cfg.Metric)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	dims := c.Dims()
	st := &state{metricType: t, dims: dims, kernels: make(map[int]metric.Func, len(dims)), ref: c}

	var eval features.Extractor
	if t.IsFeature() {
		eval, err = extractorFor(t, cfg.Features)
		if err != nil {
			return nil, err
		}
		if err := eval.Fit(c); err != nil {
			return nil, err
		}
	}

	for _, q := range dims {
		opts := metric.Options{P: cfg.P, NormP: cfg.NormP}
		if eval != nil {
			dim := q
			opts.Feature = func(d diagram.Diagram) ([]float64, error) {
				return eval.EvalDim(dim, d)
			}
		}
		kernel, err := metric.For(t, opts)
		if err != nil {
			return nil, err
		}
		st.kernels[q] = kernel
	}
	return st, nil
}

// checkDims fails with ErrDimensionMismatch if c mentions a dimension the
// fitted state does not cover.
func (st *state) checkDims(c diagram.Collection) error {
	fitted := make(map[int]struct{}, len(st.dims))
	for _, q := range st.dims {
		fitted[q] = struct{}{}
	}
	for _, q := range c.Dims() {
		if _, ok := fitted[q]; !ok {
			return fmt.Errorf("%w: dim %d", ErrDimensionMismatch, q)
		}
	}
	return nil
}

// perDim applies every fitted kernel to the pair (a, b), returning one value
// per fitted dimension in dims order.
func (st *state) perDim(a, b diagram.Diagram) ([]float64, error) {
	vals := make([]float64, len(st.dims))
	for k, q := range st.dims {
		var restrictedB diagram.Diagram
		if b != nil {
			restrictedB = b.Restrict(q)
		}
		v, err := st.kernels[q](a.Restrict(q), restrictedB)
		if err != nil {
			return nil, fmt.Errorf("engine: %s kernel on dim %d: %w", st.metricType, q, err)
		}
		vals[k] = v
	}
	return vals, nil
}
