package metric

import (
	"errors"
	"math"
	"testing"

	"github.com/go-tda/tda/internal/diagram"
)

func dgm(pairs ...[2]float64) diagram.Diagram {
	d := make(diagram.Diagram, len(pairs))
	for i, p := range pairs {
		d[i] = diagram.Point{Birth: p[0], Death: p[1]}
	}
	return d
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected Type
		wantErr  bool
	}{
		{name: "upper", in: "BOTTLENECK", expected: TypeBottleneck},
		{name: "lower", in: "wasserstein", expected: TypeWasserstein},
		{name: "mixed", in: "Heat", expected: TypeHeat},
		{name: "unknown", in: "euclidean", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseType(test.in)
			if test.wantErr {
				if !errors.Is(err, ErrUnknownMetric) {
					t.Errorf("expected %v, got %v", ErrUnknownMetric, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("the error should not be returned: %v", err)
			}
			if got != test.expected {
				t.Errorf("got %v, expected %v", got, test.expected)
			}
		})
	}
}

func TestBottleneck(t *testing.T) {
	tests := []struct {
		name     string
		a        diagram.Diagram
		b        diagram.Diagram
		expected float64
	}{
		{name: "both_empty", a: nil, b: nil, expected: 0},
		{name: "against_empty", a: dgm([2]float64{0, 1}, [2]float64{0, 2}), b: nil, expected: 1},
		{name: "identical", a: dgm([2]float64{0, 1}, [2]float64{1, 3}), b: dgm([2]float64{0, 1}, [2]float64{1, 3}), expected: 0},
		{name: "shifted_death", a: dgm([2]float64{0, 2}), b: dgm([2]float64{0, 1}), expected: 1},
		{name: "shifted_birth", a: dgm([2]float64{0, 2}), b: dgm([2]float64{1, 2}), expected: 1},
		{name: "cheaper_via_diagonal", a: dgm([2]float64{0, 0.5}), b: dgm([2]float64{10, 10.5}), expected: 0.25},
		{name: "diagonal_points_are_inert", a: dgm([2]float64{0, 1}, [2]float64{5, 5}), b: dgm([2]float64{0, 1}), expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Bottleneck(test.a, test.b)
			if err != nil {
				t.Fatalf("the error should not be returned: %v", err)
			}
			if math.Abs(got-test.expected) > 1e-12 {
				t.Errorf("got %v, expected %v", got, test.expected)
			}
		})
	}
}

func TestWasserstein(t *testing.T) {
	tests := []struct {
		name     string
		a        diagram.Diagram
		b        diagram.Diagram
		p        float64
		expected float64
	}{
		{name: "both_empty", a: nil, b: nil, p: 2, expected: 0},
		{name: "single_against_empty", a: dgm([2]float64{0, 1}), b: nil, p: 1, expected: 0.5},
		{name: "single_against_empty_p2", a: dgm([2]float64{0, 1}), b: nil, p: 2, expected: 0.5},
		{name: "two_against_empty_p1", a: dgm([2]float64{0, 1}, [2]float64{0, 2}), b: nil, p: 1, expected: 1.5},
		{name: "identical", a: dgm([2]float64{0, 1}, [2]float64{1, 3}), b: dgm([2]float64{1, 3}, [2]float64{0, 1}), p: 2, expected: 0},
		{name: "matched_beats_diagonal", a: dgm([2]float64{0, 2}), b: dgm([2]float64{0, 1}), p: 1, expected: 1},
		{name: "diagonal_beats_matched", a: dgm([2]float64{0, 0.5}), b: dgm([2]float64{10, 10.5}), p: 1, expected: 0.5},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Wasserstein(test.a, test.b, test.p)
			if err != nil {
				t.Fatalf("the error should not be returned: %v", err)
			}
			if math.Abs(got-test.expected) > 1e-12 {
				t.Errorf("got %v, expected %v", got, test.expected)
			}
		})
	}
}

func TestMetricProperties(t *testing.T) {
	d1 := dgm([2]float64{0, 1}, [2]float64{1, 4})
	d2 := dgm([2]float64{0, 2}, [2]float64{2, 3})
	d3 := dgm([2]float64{0.5, 1.5})

	kernels := map[string]Func{
		"bottleneck": Bottleneck,
		"wasserstein_1": func(a, b diagram.Diagram) (float64, error) {
			return Wasserstein(a, b, 1)
		},
		"wasserstein_2": func(a, b diagram.Diagram) (float64, error) {
			return Wasserstein(a, b, 2)
		},
	}
	for name, f := range kernels {
		t.Run(name, func(t *testing.T) {
			for _, d := range []diagram.Diagram{d1, d2, d3} {
				self, err := f(d, d)
				if err != nil {
					t.Fatalf("the error should not be returned: %v", err)
				}
				if self != 0 {
					t.Errorf("self distance must be 0, got %v", self)
				}
			}

			d12, _ := f(d1, d2)
			d21, _ := f(d2, d1)
			if math.Abs(d12-d21) > 1e-12 {
				t.Errorf("symmetry violated: %v vs %v", d12, d21)
			}

			d13, _ := f(d1, d3)
			d23, _ := f(d2, d3)
			if d13 > d12+d23+1e-12 {
				t.Errorf("triangle inequality violated: %v > %v + %v", d13, d12, d23)
			}
		})
	}
}

func TestWassersteinScaling(t *testing.T) {
	a := dgm([2]float64{0, 1}, [2]float64{1, 3})
	b := dgm([2]float64{0, 2})
	const c = 3.0

	scale := func(d diagram.Diagram) diagram.Diagram {
		out := make(diagram.Diagram, len(d))
		for i, p := range d {
			out[i] = diagram.Point{Birth: c * p.Birth, Death: c * p.Death, Dim: p.Dim}
		}
		return out
	}

	for _, p := range []float64{1, 2, 3} {
		base, err := Wasserstein(a, b, p)
		if err != nil {
			t.Fatalf("the error should not be returned: %v", err)
		}
		scaled, err := Wasserstein(scale(a), scale(b), p)
		if err != nil {
			t.Fatalf("the error should not be returned: %v", err)
		}
		if math.Abs(scaled-c*base) > 1e-9 {
			t.Errorf("p=%v: scaling by %v must scale the distance, got %v, expected %v", p, c, scaled, c*base)
		}
	}
}

func TestFor(t *testing.T) {
	if _, err := For(Type("COSINE"), Options{}); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected %v, got %v", ErrUnknownMetric, err)
	}
	if _, err := For(TypeWasserstein, Options{P: 0.5}); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected %v for sub-1 exponent, got %v", ErrUnknownMetric, err)
	}
	if _, err := For(TypeLandscape, Options{}); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected %v without a feature map, got %v", ErrUnknownMetric, err)
	}

	f, err := For(TypeWasserstein, Options{})
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	got, err := f(dgm([2]float64{0, 1}), nil)
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if got != 0.5 {
		t.Errorf("default wasserstein exponent must be 2, got distance %v", got)
	}
}

func TestNormKernel(t *testing.T) {
	feature := func(d diagram.Diagram) ([]float64, error) {
		v := make([]float64, 2)
		for _, p := range d {
			v[0] += p.Persistence()
			v[1]++
		}
		return v, nil
	}
	f, err := NormKernel(feature, 2)
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	a := dgm([2]float64{0, 3})
	got, err := f(a, nil)
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	expected := math.Sqrt(9 + 1)
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("got %v, expected %v", got, expected)
	}

	amp, err := Amplitude(f, a)
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if amp != got {
		t.Errorf("amplitude must equal the distance to the empty diagram, got %v vs %v", amp, got)
	}
}
