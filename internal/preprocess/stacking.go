// Package preprocess implements the diagram preprocessing transformers:
// stacking into aligned fixed-capacity arrays, amplitude-based coordinate
// scaling and persistence thresholding.
package preprocess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-tda/tda/internal/diagram"
)

var ErrNotFitted = fmt.Errorf("preprocess: transformer is not fitted")

// Stacked is the aligned array representation: for every fitted dimension,
// one padded point list per sample, all of identical length.
type Stacked map[int][]diagram.Diagram

// Stacking aligns heterogeneous per-sample point counts. Fit records the
// maximum point count per dimension across the reference collection;
// Transform pads every sample to that capacity with diagonal points appended
// at the tail, original order preserved. Capacities are fixed at fit time and
// never grown.
type Stacking struct {
	fitted *stackingState
}

type stackingState struct {
	dims []int
	caps map[int]int
}

func NewStacking() *Stacking {
	return &Stacking{}
}

func (s *Stacking) Fit(c diagram.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dims := c.Dims()
	caps := make(map[int]int, len(dims))
	for _, d := range c {
		counts := map[int]int{}
		for _, p := range d {
			counts[p.Dim]++
		}
		for q, n := range counts {
			if n > caps[q] {
				caps[q] = n
			}
		}
	}
	s.fitted = &stackingState{dims: dims, caps: caps}
	return nil
}

func (s *Stacking) Dims() []int {
	if s.fitted == nil {
		return nil
	}
	return s.fitted.dims
}

// Cap returns the fitted point capacity for dim.
func (s *Stacking) Cap(dim int) int {
	if s.fitted == nil {
		return 0
	}
	return s.fitted.caps[dim]
}

// Transform pads every sample's per-dimension point list to the fitted
// capacity. The padding value is the diagram's own minimum birth in that
// dimension, or 0 when the dimension is empty, so padding never perturbs any
// metric.
func (s *Stacking) Transform(c diagram.Collection) (Stacked, error) {
	if s.fitted == nil {
		return nil, ErrNotFitted
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for _, q := range c.Dims() {
		if _, ok := s.fitted.caps[q]; !ok {
			return nil, fmt.Errorf("%w: dim %d", diagram.ErrDimensionMismatch, q)
		}
	}

	out := make(Stacked, len(s.fitted.dims))
	for _, q := range s.fitted.dims {
		capacity := s.fitted.caps[q]
		aligned := make([]diagram.Diagram, len(c))
		for i, d := range c {
			points := d.Restrict(q)
			if len(points) > capacity {
				return nil, fmt.Errorf("preprocess: sample %d holds %d points in dim %d, fitted capacity is %d",
					i, len(points), q, capacity)
			}
			pad := points.MinBirth()
			padded := make(diagram.Diagram, 0, capacity)
			padded = append(padded, points...)
			for len(padded) < capacity {
				padded = append(padded, diagram.Point{Birth: pad, Death: pad, Dim: q})
			}
			aligned[i] = padded
		}
		out[q] = aligned
	}
	return out, nil
}

func (s *Stacking) State() map[string]string {
	if s.fitted == nil {
		return nil
	}
	state := map[string]string{"dims": encodeDims(s.fitted.dims)}
	for q, n := range s.fitted.caps {
		state[fmt.Sprintf("cap.%d", q)] = strconv.Itoa(n)
	}
	return state
}

func (s *Stacking) Restore(state map[string]string) error {
	dims, err := decodeDims(state["dims"])
	if err != nil {
		return err
	}
	caps := make(map[int]int, len(dims))
	for _, q := range dims {
		n, err := strconv.Atoi(state[fmt.Sprintf("cap.%d", q)])
		if err != nil {
			return fmt.Errorf("preprocess: bad capacity state for dim %d: %w", q, err)
		}
		caps[q] = n
	}
	s.fitted = &stackingState{dims: dims, caps: caps}
	return nil
}

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
			return nil, fmt.Errorf("preprocess: bad dims state %q: %w", s, err)
		}
		dims[i] = q
	}
	return dims, nil
}
