package metric

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/geom"
)

var ErrUnknownMetric = fmt.Errorf("unknown metric")

// Type names a diagram metric kernel.
type Type string

const (
	TypeBottleneck  Type = "BOTTLENECK"
	TypeWasserstein Type = "WASSERSTEIN"
	TypeLandscape   Type = "LANDSCAPE"
	TypeBetti       Type = "BETTI"
	TypeHeat        Type = "HEAT"
)

// ParseType resolves a case-insensitive metric name.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(s))
	switch t {
	case TypeBottleneck, TypeWasserstein, TypeLandscape, TypeBetti, TypeHeat:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// IsFeature reports whether t is an induced metric on feature space rather
// than a point-matching metric.
func (t Type) IsFeature() bool {
	switch t {
	case TypeLandscape, TypeBetti, TypeHeat:
		return true
	}
	return false
}

// Func computes a non-negative distance between two diagrams restricted to a
// single homology dimension. A nil diagram stands for the empty diagram, so
// Func(d, nil) is the amplitude of d.
type Func func(a, b diagram.Diagram) (float64, error)

// FeatureFn evaluates one diagram into a fixed-length vector on a fitted grid.
type FeatureFn func(d diagram.Diagram) ([]float64, error)

type Options struct {
	// P is the Wasserstein exponent, >= 1.
	P float64
	// NormP is the feature-space norm exponent, default 2.
	NormP float64
	// Feature supplies the fitted feature map for landscape/betti/heat.
	Feature FeatureFn
}

// For returns the kernel for the named metric, in the spirit of a distance
// function registry: unsupported names or exponents yield ErrUnknownMetric.
func For(t Type, opts Options) (Func, error) {
	switch t {
	case TypeBottleneck:
		return Bottleneck, nil
	case TypeWasserstein:
		p := opts.P
		if p == 0 {
			p = 2
		}
		if p < 1 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: wasserstein exponent %v", ErrUnknownMetric, opts.P)
		}
		return func(a, b diagram.Diagram) (float64, error) {
			return Wasserstein(a, b, p)
		}, nil
	case TypeLandscape, TypeBetti, TypeHeat:
		if opts.Feature == nil {
			return nil, fmt.Errorf("%w: %s kernel requires a fitted feature map", ErrUnknownMetric, t)
		}
		normP := opts.NormP
		if normP == 0 {
			normP = 2
		}
		return NormKernel(opts.Feature, normP)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, t)
}

// NormKernel lifts a feature map into a diagram metric: the p-norm of the
// difference of the two feature vectors. The empty diagram maps to the zero
// vector, so the induced amplitude is the norm of the feature vector itself.
func NormKernel(f FeatureFn, p float64) (Func, error) {
	dist, err := geom.MinkowskiDistance(p)
	if err != nil {
		return nil, fmt.Errorf("%w: norm exponent %v", ErrUnknownMetric, p)
	}
	return func(a, b diagram.Diagram) (float64, error) {
		va, err := f(a)
		if err != nil {
			return 0, err
		}
		vb, err := f(b)
		if err != nil {
			return 0, err
		}
		return dist(va, vb)
	}, nil
}

// Amplitude is the distance from d to the empty diagram.
func Amplitude(f Func, d diagram.Diagram) (float64, error) {
	return f(d, nil)
}

// chebyshev is the matching cost between two persistence pairs.
func chebyshev(p, q diagram.Point) float64 {
	return math.Max(math.Abs(p.Birth-q.Birth), math.Abs(p.Death-q.Death))
}

// diagCost is the cost of matching p to the diagonal: the Chebyshev distance
// to its orthogonal projection, half the persistence.
func diagCost(p diagram.Point) float64 {
	return p.Persistence() / 2
}

// offDiagonal drops zero-persistence points; they match to the diagonal at
// zero cost under every kernel, so removing them is exact.
func offDiagonal(d diagram.Diagram) diagram.Diagram {
	out := make(diagram.Diagram, 0, len(d))
	for _, p := range d {
		if !p.IsDiagonal() {
			out = append(out, p)
		}
	}
	return out
}
