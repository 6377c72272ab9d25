package features

import (
	"errors"
	"math"
	"testing"

	"github.com/go-tda/tda/internal/diagram"
)

func pt(birth, death float64, dim int) diagram.Point {
	return diagram.Point{Birth: birth, Death: death, Dim: dim}
}

func TestGridValues(t *testing.T) {
	tests := []struct {
		name     string
		grid     Grid
		expected []float64
	}{
		{name: "even", grid: Grid{Min: 0, Max: 2, Resolution: 5}, expected: []float64{0, 0.5, 1, 1.5, 2}},
		{name: "degenerate_window", grid: Grid{Min: 3, Max: 3, Resolution: 3}, expected: []float64{3, 3, 3}},
		{name: "single_sample", grid: Grid{Min: 1, Max: 2, Resolution: 1}, expected: []float64{1}},
		{name: "zero_resolution", grid: Grid{Min: 0, Max: 1, Resolution: 0}, expected: []float64{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.grid.Values()
			if len(got) != len(test.expected) {
				t.Fatalf("got %d values, expected %d", len(got), len(test.expected))
			}
			for i := range got {
				if math.Abs(got[i]-test.expected[i]) > 1e-12 {
					t.Errorf("value %d: got %v, expected %v", i, got[i], test.expected[i])
				}
			}
		})
	}
}

func TestEntropy(t *testing.T) {
	e := NewEntropy(Config{Workers: 1})
	if _, err := e.EvalDim(0, nil); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected %v before fit, got %v", ErrNotFitted, err)
	}

	ref := diagram.Collection{{pt(0, 1, 0), pt(0, 2, 0), pt(0, 3, 1)}}
	if err := e.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	tests := []struct {
		name     string
		d        diagram.Diagram
		dim      int
		expected float64
	}{
		{name: "single_point_is_zero", d: diagram.Diagram{pt(0, 5, 0)}, dim: 0, expected: 0},
		{name: "two_equal_weights", d: diagram.Diagram{pt(0, 1, 0), pt(2, 3, 0)}, dim: 0, expected: math.Log(2)},
		{name: "zero_total_persistence", d: diagram.Diagram{pt(1, 1, 0), pt(2, 2, 0)}, dim: 0, expected: 0},
		{name: "empty_dim", d: diagram.Diagram{pt(0, 1, 0)}, dim: 1, expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := e.EvalDim(test.dim, test.d)
			if err != nil {
				t.Fatalf("the error should not be returned: %v", err)
			}
			if len(got) != 1 || math.Abs(got[0]-test.expected) > 1e-12 {
				t.Errorf("got %v, expected [%v]", got, test.expected)
			}
		})
	}

	out, err := e.Transform(diagram.Collection{
		{pt(0, 5, 0), pt(0, 1, 1)},
		{pt(0, 1, 0), pt(2, 3, 0)},
	})
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if len(out) != 2 || len(out[0]) != 2 {
		t.Fatalf("expected samples x dims shape, got %v", out)
	}
	if out[0][0] != 0 || math.Abs(out[1][0]-math.Log(2)) > 1e-12 {
		t.Errorf("unexpected entropies %v", out)
	}
}

func TestBettiCurve(t *testing.T) {
	b := NewBettiCurve(Config{Resolution: 5, Workers: 1})
	ref := diagram.Collection{{pt(0, 1, 0), pt(0, 2, 0)}}
	if err := b.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	curve, err := b.EvalDim(0, ref[0])
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	expected := []float64{2, 2, 1, 1, 0}
	for i := range expected {
		if curve[i] != expected[i] {
			t.Fatalf("got %v, expected %v", curve, expected)
		}
	}

	// The curve is 0 outside the support of the diagram being evaluated.
	narrow, err := b.EvalDim(0, diagram.Diagram{pt(1, 1.4, 0)})
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	outside := []float64{0, 0, 1, 0, 0}
	for i := range outside {
		if narrow[i] != outside[i] {
			t.Fatalf("got %v, expected %v", narrow, outside)
		}
	}
}

func TestBettiStateRoundTrip(t *testing.T) {
	b := NewBettiCurve(Config{Resolution: 4, Workers: 1})
	ref := diagram.Collection{{pt(0, 1, 0), pt(0.5, 3, 1)}}
	if err := b.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	// The persisted resolution wins over the local config on restore.
	restored := NewBettiCurve(Config{Resolution: 9, Workers: 1})
	if err := restored.Restore(b.State()); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	d := diagram.Diagram{pt(0.2, 0.9, 0), pt(1, 2, 1)}
	for _, q := range b.Dims() {
		want, err := b.EvalDim(q, d)
		if err != nil {
			t.Fatalf("the error should not be returned: %v", err)
		}
		got, err := restored.EvalDim(q, d)
		if err != nil {
			t.Fatalf("the error should not be returned: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("dim %d: restored grid has %d samples, expected %d", q, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("dim %d: restored state diverges, got %v, expected %v", q, got, want)
			}
		}
	}
}

func TestLandscapeStateRoundTrip(t *testing.T) {
	l := NewLandscape(Config{Resolution: 5, Layers: 2, Workers: 1})
	ref := diagram.Collection{{pt(0, 2, 0), pt(1, 3, 0)}}
	if err := l.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	// The persisted resolution and layer count win over the local config.
	restored := NewLandscape(Config{Resolution: 3, Layers: 1, Workers: 1})
	if err := restored.Restore(l.State()); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	d := diagram.Diagram{pt(0, 2, 0)}
	want, err := l.EvalDim(0, d)
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	got, err := restored.EvalDim(0, d)
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("restored landscape has %d values, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("restored state diverges, got %v, expected %v", got, want)
		}
	}
}

func TestHeatStateRoundTrip(t *testing.T) {
	h := NewHeatKernel(Config{Resolution: 4, Bandwidth: 0.5, Workers: 1})
	ref := diagram.Collection{{pt(0, 1, 0)}}
	if err := h.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	// The persisted resolution and bandwidth win over the local config.
	restored := NewHeatKernel(Config{Resolution: 2, Bandwidth: 3, Workers: 1})
	if err := restored.Restore(h.State()); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	want, err := h.EvalDim(0, ref[0])
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	got, err := restored.EvalDim(0, ref[0])
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("restored raster has %d cells, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("restored state diverges at cell %d: %v vs %v", i, got[i], want[i])
		}
	}
}

func TestRestoreRejectsBadState(t *testing.T) {
	state := map[string]string{"dims": "0", "grid.0.min": "0", "grid.0.max": "1"}

	if err := NewBettiCurve(Config{Resolution: 3}).Restore(state); err == nil {
		t.Errorf("betti restore must reject a state without resolution")
	}
	if err := NewLandscape(Config{Resolution: 3, Layers: 1}).Restore(state); err == nil {
		t.Errorf("landscape restore must reject a state without resolution")
	}
	if err := NewHeatKernel(Config{Resolution: 3, Bandwidth: 1}).Restore(state); err == nil {
		t.Errorf("heat restore must reject a state without resolution")
	}
}

func TestLandscape(t *testing.T) {
	l := NewLandscape(Config{Resolution: 5, Layers: 1, Workers: 1})
	ref := diagram.Collection{{pt(0, 2, 0)}}
	if err := l.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	row, err := l.EvalDim(0, ref[0])
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	expected := []float64{0, 0.5, 1, 0.5, 0}
	if len(row) != len(expected) {
		t.Fatalf("got length %d, expected %d", len(row), len(expected))
	}
	for i := range expected {
		if math.Abs(row[i]-expected[i]) > 1e-12 {
			t.Fatalf("got %v, expected %v", row, expected)
		}
	}
}

func TestLandscapeLayers(t *testing.T) {
	l := NewLandscape(Config{Resolution: 3, Layers: 2, Workers: 1})
	ref := diagram.Collection{{pt(0, 2, 0), pt(0, 2, 0)}}
	if err := l.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	row, err := l.EvalDim(0, ref[0])
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if len(row) != 6 {
		t.Fatalf("expected layers*resolution values, got %d", len(row))
	}
	// Two identical tents: both layers agree at the peak.
	if row[1] != 1 || row[3+1] != 1 {
		t.Errorf("expected both layers to peak at 1, got %v", row)
	}

	single, err := l.EvalDim(0, diagram.Diagram{pt(0, 2, 0)})
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if single[3+1] != 0 {
		t.Errorf("second layer of a single tent must be 0, got %v", single)
	}
}

func TestHeatKernel(t *testing.T) {
	res := 4
	h := NewHeatKernel(Config{Resolution: res, Bandwidth: 0.5, Workers: 1})
	ref := diagram.Collection{{pt(0, 1, 0)}}
	if err := h.Fit(ref); err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}

	raster, err := h.EvalDim(0, ref[0])
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if len(raster) != res*res {
		t.Fatalf("expected %d cells, got %d", res*res, len(raster))
	}
	for i := 0; i < res; i++ {
		if math.Abs(raster[i*res+i]) > 1e-12 {
			t.Errorf("raster must vanish on the diagonal, cell (%d,%d) = %v", i, i, raster[i*res+i])
		}
		for j := 0; j < res; j++ {
			if math.Abs(raster[i*res+j]+raster[j*res+i]) > 1e-12 {
				t.Errorf("raster must be antisymmetric, cells (%d,%d) and (%d,%d): %v vs %v",
					i, j, j, i, raster[i*res+j], raster[j*res+i])
			}
		}
	}
	// Mass concentrates around (birth, death).
	if raster[0*res+(res-1)] <= 0 {
		t.Errorf("expected positive mass near (birth, death), got %v", raster[0*res+(res-1)])
	}
}

func TestFor(t *testing.T) {
	cfg := Config{Resolution: 3}
	for _, name := range []string{"entropy", "BETTI", "Landscape", "heat"} {
		if _, err := For(name, cfg); err != nil {
			t.Errorf("extractor %q must resolve, got %v", name, err)
		}
	}
	if _, err := For("silhouette", cfg); !errors.Is(err, ErrUnknownExtractor) {
		t.Errorf("expected %v, got %v", ErrUnknownExtractor, err)
	}
}
