// Package features implements the fixed-grid feature maps over persistence
// diagrams: persistence entropy, Betti curves, persistence landscapes and
// heat-kernel rasters. Every extractor follows the two-phase contract: Fit
// determines grid bounds from a reference collection, Transform evaluates any
// collection on that identical grid so outputs stay array-comparable across
// calls.
package features

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/go-tda/tda/internal/diagram"
)

var ErrNotFitted = fmt.Errorf("features: transformer is not fitted")

type Config struct {
	// Number of grid samples per dimension for curve-valued features
	Resolution int `envconfig:"TDA_FEATURE_RESOLUTION" default:"100"`
	// Number of landscape layers
	Layers int `envconfig:"TDA_LANDSCAPE_LAYERS" default:"1"`
	// Gaussian bandwidth for the heat-kernel raster
	Bandwidth float64 `envconfig:"TDA_HEAT_BANDWIDTH" default:"1"`
	// Degree of parallelism across samples, 0 = NumCPU
	Workers int `envconfig:"TDA_WORKERS"`
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Grid is the fitted sampling window of one homology dimension, spanning
// [Min, Max] at Resolution evenly spaced values.
type Grid struct {
	Min        float64
	Max        float64
	Resolution int
}

// Values materializes the grid samples. A degenerate window repeats Min.
func (g Grid) Values() []float64 {
	vals := make([]float64, g.Resolution)
	if g.Resolution == 0 {
		return vals
	}
	step := 0.0
	if g.Resolution > 1 && g.Max > g.Min {
		step = (g.Max - g.Min) / float64(g.Resolution-1)
	}
	for i := range vals {
		vals[i] = g.Min + float64(i)*step
	}
	return vals
}

// fitGrids computes, per dimension, the window spanning the smallest birth
// and the largest death observed in the reference collection.
func fitGrids(c diagram.Collection, dims []int, resolution int) map[int]Grid {
	grids := make(map[int]Grid, len(dims))
	for _, q := range dims {
		var (
			min, max float64
			seen     bool
		)
		for _, d := range c {
			for _, p := range d {
				if p.Dim != q {
					continue
				}
				if !seen || p.Birth < min {
					min = p.Birth
				}
				if !seen || p.Death > max {
					max = p.Death
				}
				seen = true
			}
		}
		grids[q] = Grid{Min: min, Max: max, Resolution: resolution}
	}
	return grids
}

// Flat state-map helpers shared by all extractors.

func encodeDims(dims []int) string {
	parts := make([]string, len(dims))
	for i, q := range dims {
		parts[i] = strconv.Itoa(q)
	}
	return strings.Join(parts, ",")
}

func decodeDims(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	dims := make([]int, len(parts))
	for i, p := range parts {
		q, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("features: bad dims state %q: %w", s, err)
		}
		dims[i] = q
	}
	sort.Ints(dims)
	return dims, nil
}

func encodeInt(n int) string {
	return strconv.Itoa(n)
}

func decodeInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func encodeFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func decodeFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func encodeGrids(state map[string]string, grids map[int]Grid) {
	for q, g := range grids {
		state[fmt.Sprintf("grid.%d.min", q)] = encodeFloat(g.Min)
		state[fmt.Sprintf("grid.%d.max", q)] = encodeFloat(g.Max)
	}
}

func decodeGrids(state map[string]string, dims []int, resolution int) (map[int]Grid, error) {
	grids := make(map[int]Grid, len(dims))
	for _, q := range dims {
		min, err := decodeFloat(state[fmt.Sprintf("grid.%d.min", q)])
		if err != nil {
			return nil, fmt.Errorf("features: bad grid state for dim %d: %w", q, err)
		}
		max, err := decodeFloat(state[fmt.Sprintf("grid.%d.max", q)])
		if err != nil {
			return nil, fmt.Errorf("features: bad grid state for dim %d: %w", q, err)
		}
		grids[q] = Grid{Min: min, Max: max, Resolution: resolution}
	}
	return grids, nil
}
